package models

import "testing"

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		limit int
		total int64
		want  Pagination
	}{
		{
			name:  "last partial page",
			page:  3,
			limit: 10,
			total: 25,
			want:  Pagination{CurrentPage: 3, TotalPages: 3, TotalTasks: 25, HasNext: false, HasPrev: true},
		},
		{
			name:  "first of several",
			page:  1,
			limit: 10,
			total: 25,
			want:  Pagination{CurrentPage: 1, TotalPages: 3, TotalTasks: 25, HasNext: true, HasPrev: false},
		},
		{
			name:  "middle page",
			page:  2,
			limit: 10,
			total: 25,
			want:  Pagination{CurrentPage: 2, TotalPages: 3, TotalTasks: 25, HasNext: true, HasPrev: true},
		},
		{
			name:  "empty result set",
			page:  1,
			limit: 10,
			total: 0,
			want:  Pagination{CurrentPage: 1, TotalPages: 0, TotalTasks: 0, HasNext: false, HasPrev: false},
		},
		{
			name:  "page beyond the end is still valid",
			page:  5,
			limit: 10,
			total: 25,
			want:  Pagination{CurrentPage: 5, TotalPages: 3, TotalTasks: 25, HasNext: false, HasPrev: true},
		},
		{
			name:  "exact multiple",
			page:  2,
			limit: 5,
			total: 10,
			want:  Pagination{CurrentPage: 2, TotalPages: 2, TotalTasks: 10, HasNext: false, HasPrev: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewPagination(tt.page, tt.limit, tt.total); got != tt.want {
				t.Errorf("NewPagination(%d, %d, %d) = %+v, want %+v", tt.page, tt.limit, tt.total, got, tt.want)
			}
		})
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"abc", 1},
		{"0", 1},
		{"-3", 1},
		{"2", 2},
	}

	for _, tt := range tests {
		if got := ParsePage(tt.raw); got != tt.want {
			t.Errorf("ParsePage(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 10},
		{"abc", 10},
		{"0", 10},
		{"25", 25},
	}

	for _, tt := range tests {
		if got := ParseLimit(tt.raw); got != tt.want {
			t.Errorf("ParseLimit(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestOffset(t *testing.T) {
	if got := Offset(3, 10); got != 20 {
		t.Errorf("Offset(3, 10) = %d, want 20", got)
	}
	if got := Offset(1, 10); got != 0 {
		t.Errorf("Offset(1, 10) = %d, want 0", got)
	}
}
