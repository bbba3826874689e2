package services

import (
	"testing"

	"task-manager/backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	adminID    = primitive.NewObjectID()
	creatorID  = primitive.NewObjectID()
	assigneeID = primitive.NewObjectID()
	strangerID = primitive.NewObjectID()
)

func admin() Requester    { return Requester{ID: adminID, Role: models.RoleAdmin} }
func creator() Requester  { return Requester{ID: creatorID, Role: models.RoleUser} }
func assignee() Requester { return Requester{ID: assigneeID, Role: models.RoleUser} }
func stranger() Requester { return Requester{ID: strangerID, Role: models.RoleUser} }

func sampleTask() *models.Task {
	return &models.Task{
		ID:           primitive.NewObjectID(),
		AssignedUser: assigneeID,
		CreatedBy:    creatorID,
	}
}

func TestCanViewTask(t *testing.T) {
	task := sampleTask()

	tests := []struct {
		name string
		req  Requester
		want Verdict
	}{
		{"admin may view any task", admin(), Allow},
		{"assignee may view their task", assignee(), Allow},
		{"creator alone may not view", creator(), DenyNotOwner},
		{"stranger may not view", stranger(), DenyNotOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanViewTask(tt.req, task); got != tt.want {
				t.Errorf("CanViewTask() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanAssign(t *testing.T) {
	tests := []struct {
		name     string
		req      Requester
		assignee primitive.ObjectID
		want     Verdict
	}{
		{"admin assigns to anyone", admin(), strangerID, Allow},
		{"user assigns to self", stranger(), strangerID, Allow},
		{"user may not assign to another user", stranger(), assigneeID, DenyRoleInsufficient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAssign(tt.req, tt.assignee); got != tt.want {
				t.Errorf("CanAssign() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanUpdateTask(t *testing.T) {
	task := sampleTask()

	tests := []struct {
		name string
		req  Requester
		want Verdict
	}{
		{"admin may update", admin(), Allow},
		{"assignee may update", assignee(), Allow},
		{"creator may update", creator(), Allow},
		{"stranger may not update", stranger(), DenyNotOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanUpdateTask(tt.req, task); got != tt.want {
				t.Errorf("CanUpdateTask() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanDeleteTask(t *testing.T) {
	task := sampleTask()

	tests := []struct {
		name string
		req  Requester
		want Verdict
	}{
		{"admin may delete", admin(), Allow},
		{"creator may delete", creator(), Allow},
		{"assignee alone may not delete", assignee(), DenyNotOwner},
		{"stranger may not delete", stranger(), DenyNotOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanDeleteTask(tt.req, task); got != tt.want {
				t.Errorf("CanDeleteTask() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanChangeAssignment(t *testing.T) {
	if !CanChangeAssignment(admin()) {
		t.Error("admin should be able to change assignment")
	}
	if CanChangeAssignment(assignee()) {
		t.Error("non-admin should not be able to change assignment")
	}
}

func TestVisibilityFilterNonAdminIsPinnedToSelf(t *testing.T) {
	req := stranger()

	// A non-admin supplying an assignedUser filter must still only see
	// their own tasks.
	other := assigneeID
	filter := VisibilityFilter(req, TaskFilters{AssignedUser: &other})

	if got := filter["assignedUser"]; got != req.ID {
		t.Errorf("assignedUser filter = %v, want requester id %v", got, req.ID)
	}
}

func TestVisibilityFilterAdminUnfiltered(t *testing.T) {
	filter := VisibilityFilter(admin(), TaskFilters{})
	if len(filter) != 0 {
		t.Errorf("admin with no filters should match everything, got %v", filter)
	}
}

func TestVisibilityFilterAdminNarrowing(t *testing.T) {
	target := strangerID
	filter := VisibilityFilter(admin(), TaskFilters{
		Status:       models.StatusPending,
		Priority:     models.PriorityHigh,
		AssignedUser: &target,
	})

	if filter["assignedUser"] != target {
		t.Errorf("assignedUser = %v, want %v", filter["assignedUser"], target)
	}
	if filter["status"] != models.StatusPending {
		t.Errorf("status = %v, want %v", filter["status"], models.StatusPending)
	}
	if filter["priority"] != models.PriorityHigh {
		t.Errorf("priority = %v, want %v", filter["priority"], models.PriorityHigh)
	}
}

func TestVisibilityFilterNonAdminKeepsStatusAndPriority(t *testing.T) {
	req := assignee()
	filter := VisibilityFilter(req, TaskFilters{Status: models.StatusCompleted, Priority: models.PriorityLow})

	if filter["assignedUser"] != req.ID {
		t.Errorf("assignedUser = %v, want %v", filter["assignedUser"], req.ID)
	}
	if filter["status"] != models.StatusCompleted {
		t.Errorf("status filter lost for non-admin: %v", filter)
	}
	if filter["priority"] != models.PriorityLow {
		t.Errorf("priority filter lost for non-admin: %v", filter)
	}
}
