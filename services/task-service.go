package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"task-manager/backend/logging"
	"task-manager/backend/models"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TaskService struct {
	TasksCollection *mongo.Collection
	UsersCollection *mongo.Collection
	UsersBreaker    *gobreaker.CircuitBreaker
}

func NewTaskService(tasksCollection, usersCollection *mongo.Collection, usersBreaker *gobreaker.CircuitBreaker) *TaskService {
	return &TaskService{
		TasksCollection: tasksCollection,
		UsersCollection: usersCollection,
		UsersBreaker:    usersBreaker,
	}
}

// CreateTaskInput is the validated request body for task creation.
type CreateTaskInput struct {
	Title        string
	Description  string
	DueDate      time.Time
	Priority     models.TaskPriority
	AssignedUser primitive.ObjectID
}

// CreateTask inserts a new task. The creator is always the requester,
// whatever the client sent.
func (s *TaskService) CreateTask(ctx context.Context, req Requester, input CreateTaskInput) (*models.TaskView, error) {
	exists, err := s.assignedUserExists(ctx, input.AssignedUser)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, NewValidationError("assignedUser", "assigned user not found")
	}

	if !CanAssign(req, input.AssignedUser).Allowed() {
		return nil, fmt.Errorf("%w: you can only assign tasks to yourself", ErrAccessDenied)
	}

	now := time.Now()
	task := &models.Task{
		ID:           primitive.NewObjectID(),
		Title:        input.Title,
		Description:  input.Description,
		DueDate:      input.DueDate,
		Priority:     input.Priority,
		Status:       models.StatusPending,
		AssignedUser: input.AssignedUser,
		CreatedBy:    req.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.TasksCollection.InsertOne(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created by %s for %s",
		task.ID.Hex(), req.ID.Hex(), task.AssignedUser.Hex())

	return s.populateOne(ctx, task)
}

// ListTasks applies the visibility filter and pagination and returns one
// page of populated task views with the paging summary.
func (s *TaskService) ListTasks(ctx context.Context, req Requester, filters TaskFilters, page, limit int) ([]models.TaskView, models.Pagination, error) {
	filter := VisibilityFilter(req, filters)

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(models.Offset(page, limit)).
		SetLimit(int64(limit))

	cursor, err := s.TasksCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to retrieve tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to decode tasks: %w", err)
	}

	total, err := s.TasksCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to count tasks: %w", err)
	}

	views, err := s.populate(ctx, tasks)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	return views, models.NewPagination(page, limit, total), nil
}

// GetTaskByID resolves the id first, then checks visibility, so missing
// tasks are 404 and resolved-but-foreign tasks are 403.
func (s *TaskService) GetTaskByID(ctx context.Context, req Requester, id primitive.ObjectID) (*models.TaskView, error) {
	task, err := s.findTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanViewTask(req, task).Allowed() {
		return nil, ErrAccessDenied
	}

	return s.populateOne(ctx, task)
}

// TaskUpdate is a partial update; nil fields are unchanged.
type TaskUpdate struct {
	Title        *string
	Description  *string
	DueDate      *time.Time
	Priority     *models.TaskPriority
	Status       *models.TaskStatus
	AssignedUser *primitive.ObjectID
}

// UpdateTask applies a partial update under the assignee/creator/admin rule.
// Non-admin attempts to change the assignment are dropped silently; the
// rest of the update still applies.
func (s *TaskService) UpdateTask(ctx context.Context, req Requester, id primitive.ObjectID, update TaskUpdate) (*models.TaskView, error) {
	task, err := s.findTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanUpdateTask(req, task).Allowed() {
		return nil, ErrAccessDenied
	}

	if update.AssignedUser != nil && !CanChangeAssignment(req) {
		logging.Logger.Debugf("Event ID: ASSIGNMENT_CHANGE_DROPPED, Description: Non-admin %s tried to reassign task %s", req.ID.Hex(), id.Hex())
		update.AssignedUser = nil
	}

	set := bson.M{}
	if update.Title != nil {
		if strings.TrimSpace(*update.Title) == "" {
			return nil, NewValidationError("title", "title cannot be empty")
		}
		set["title"] = *update.Title
	}
	if update.Description != nil {
		if strings.TrimSpace(*update.Description) == "" {
			return nil, NewValidationError("description", "description cannot be empty")
		}
		set["description"] = *update.Description
	}
	if update.DueDate != nil {
		set["dueDate"] = *update.DueDate
	}
	if update.Priority != nil {
		if !update.Priority.Valid() {
			return nil, NewValidationError("priority", "priority must be Low, Medium, or High")
		}
		set["priority"] = *update.Priority
	}
	if update.Status != nil {
		if !update.Status.Valid() {
			return nil, NewValidationError("status", "status must be Pending or Completed")
		}
		set["status"] = *update.Status
	}
	if update.AssignedUser != nil {
		exists, err := s.assignedUserExists(ctx, *update.AssignedUser)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, NewValidationError("assignedUser", "assigned user not found")
		}
		set["assignedUser"] = *update.AssignedUser
	}

	if len(set) > 0 {
		set["updatedAt"] = time.Now()
		if _, err := s.TasksCollection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
			return nil, fmt.Errorf("failed to update task: %w", err)
		}
	}

	task, err = s.findTask(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.populateOne(ctx, task)
}

// UpdateStatus flips a task between Pending and Completed under the same
// permission rule as a general update.
func (s *TaskService) UpdateStatus(ctx context.Context, req Requester, id primitive.ObjectID, status models.TaskStatus) (*models.TaskView, error) {
	if !status.Valid() {
		return nil, NewValidationError("status", "status must be Pending or Completed")
	}
	return s.UpdateTask(ctx, req, id, TaskUpdate{Status: &status})
}

// DeleteTask removes a task under the stricter creator-or-admin rule.
func (s *TaskService) DeleteTask(ctx context.Context, req Requester, id primitive.ObjectID) error {
	task, err := s.findTask(ctx, id)
	if err != nil {
		return err
	}

	if !CanDeleteTask(req, task).Allowed() {
		return ErrAccessDenied
	}

	if _, err := s.TasksCollection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted by %s", id.Hex(), req.ID.Hex())
	return nil
}

func (s *TaskService) findTask(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := s.TasksCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve task: %w", err)
	}
	return &task, nil
}

// assignedUserExists checks the users collection through the circuit
// breaker. A tripped breaker surfaces as unavailability, never as a
// missing user.
func (s *TaskService) assignedUserExists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := s.UsersBreaker.Execute(func() (interface{}, error) {
		count, err := s.UsersCollection.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return nil, err
		}
		return count > 0, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			logging.Logger.Warnf("Event ID: USERS_BREAKER_OPEN, Description: Users lookup rejected by circuit breaker: %v", err)
			return false, fmt.Errorf("%w: users lookup unavailable", ErrUnavailable)
		}
		return false, fmt.Errorf("failed to look up assigned user: %w", err)
	}
	return result.(bool), nil
}

// populate resolves assignedUser/createdBy references for a page of tasks
// with a single users query.
func (s *TaskService) populate(ctx context.Context, tasks []models.Task) ([]models.TaskView, error) {
	idSet := make(map[primitive.ObjectID]struct{})
	for _, task := range tasks {
		idSet[task.AssignedUser] = struct{}{}
		idSet[task.CreatedBy] = struct{}{}
	}

	refs := make(map[primitive.ObjectID]models.UserRef, len(idSet))
	if len(idSet) > 0 {
		ids := make([]primitive.ObjectID, 0, len(idSet))
		for id := range idSet {
			ids = append(ids, id)
		}

		cursor, err := s.UsersCollection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return nil, fmt.Errorf("failed to resolve user references: %w", err)
		}
		defer cursor.Close(ctx)

		var users []models.User
		if err := cursor.All(ctx, &users); err != nil {
			return nil, fmt.Errorf("failed to decode user references: %w", err)
		}
		for i := range users {
			refs[users[i].ID] = users[i].Ref()
		}
	}

	views := make([]models.TaskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, taskView(task, refs))
	}
	return views, nil
}

func (s *TaskService) populateOne(ctx context.Context, task *models.Task) (*models.TaskView, error) {
	views, err := s.populate(ctx, []models.Task{*task})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func taskView(task models.Task, refs map[primitive.ObjectID]models.UserRef) models.TaskView {
	assigned, ok := refs[task.AssignedUser]
	if !ok {
		// Referenced user was deleted after assignment; keep the id.
		assigned = models.UserRef{ID: task.AssignedUser}
	}
	creator, ok := refs[task.CreatedBy]
	if !ok {
		creator = models.UserRef{ID: task.CreatedBy}
	}

	return models.TaskView{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		DueDate:      task.DueDate,
		Priority:     task.Priority,
		Status:       task.Status,
		AssignedUser: assigned,
		CreatedBy:    creator,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}
}
