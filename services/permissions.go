package services

import (
	"task-manager/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Requester identifies the authenticated caller for permission decisions.
type Requester struct {
	ID   primitive.ObjectID
	Role string
}

func (r Requester) IsAdmin() bool {
	return r.Role == models.RoleAdmin
}

// Verdict is the outcome of a permission decision. Every role/ownership rule
// in the API goes through one of the Can* functions below so the rule set
// stays in one place.
type Verdict int

const (
	Allow Verdict = iota
	// DenyNotOwner: the requester's role could permit the operation, but the
	// task does not belong to them in the required sense.
	DenyNotOwner
	// DenyRoleInsufficient: the operation is reserved for admins.
	DenyRoleInsufficient
)

func (v Verdict) Allowed() bool {
	return v == Allow
}

// CanViewTask: admins and the assigned user may read a task by id. The
// creator alone is not enough.
func CanViewTask(req Requester, task *models.Task) Verdict {
	if req.IsAdmin() || task.AssignedUser == req.ID {
		return Allow
	}
	return DenyNotOwner
}

// CanAssign: a non-admin may only assign tasks to themselves.
func CanAssign(req Requester, assignee primitive.ObjectID) Verdict {
	if req.IsAdmin() || assignee == req.ID {
		return Allow
	}
	return DenyRoleInsufficient
}

// CanUpdateTask: the assigned user, the creator, or an admin.
func CanUpdateTask(req Requester, task *models.Task) Verdict {
	if req.IsAdmin() || task.AssignedUser == req.ID || task.CreatedBy == req.ID {
		return Allow
	}
	return DenyNotOwner
}

// CanDeleteTask: only the creator or an admin. Assignment alone does not
// grant deletion.
func CanDeleteTask(req Requester, task *models.Task) Verdict {
	if req.IsAdmin() || task.CreatedBy == req.ID {
		return Allow
	}
	return DenyNotOwner
}

// CanChangeAssignment reports whether the requester may move a task to a
// different user. For non-admins the caller drops the field instead of
// rejecting the request.
func CanChangeAssignment(req Requester) bool {
	return req.IsAdmin()
}

// TaskFilters are the optional query parameters on task listings.
type TaskFilters struct {
	Status       models.TaskStatus
	Priority     models.TaskPriority
	AssignedUser *primitive.ObjectID
}

// VisibilityFilter builds the effective list predicate. Non-admins are
// pinned to their own assignments; any assignedUser filter they supply is
// ignored. Admins see everything, narrowed by whatever filters they pass.
func VisibilityFilter(req Requester, f TaskFilters) bson.M {
	filter := bson.M{}

	if !req.IsAdmin() {
		filter["assignedUser"] = req.ID
	} else if f.AssignedUser != nil {
		filter["assignedUser"] = *f.AssignedUser
	}

	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Priority != "" {
		filter["priority"] = f.Priority
	}

	return filter
}
