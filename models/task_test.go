package models

import "testing"

func TestTaskStatusValid(t *testing.T) {
	tests := []struct {
		status TaskStatus
		want   bool
	}{
		{StatusPending, true},
		{StatusCompleted, true},
		{"Archived", false},
		{"pending", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := tt.status.Valid(); got != tt.want {
			t.Errorf("TaskStatus(%q).Valid() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestTaskPriorityValid(t *testing.T) {
	tests := []struct {
		priority TaskPriority
		want     bool
	}{
		{PriorityLow, true},
		{PriorityMedium, true},
		{PriorityHigh, true},
		{"Urgent", false},
		{"high", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := tt.priority.Valid(); got != tt.want {
			t.Errorf("TaskPriority(%q).Valid() = %v, want %v", tt.priority, got, tt.want)
		}
	}
}

func TestValidRole(t *testing.T) {
	if !ValidRole(RoleAdmin) || !ValidRole(RoleUser) {
		t.Error("admin and user must be valid roles")
	}
	if ValidRole("superuser") || ValidRole("") {
		t.Error("unknown roles must be invalid")
	}
}
