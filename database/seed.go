package database

import (
	"context"
	"fmt"
	"time"

	"task-manager/backend/logging"
	"task-manager/backend/models"
	"task-manager/backend/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type seedUser struct {
	name     string
	email    string
	password string
	role     string
}

var sampleUsers = []seedUser{
	{"Admin User", "admin@taskmanager.com", "admin123", models.RoleAdmin},
	{"John Doe", "john@example.com", "user123", models.RoleUser},
	{"Jane Smith", "jane@example.com", "user123", models.RoleUser},
}

type seedTask struct {
	title       string
	description string
	dueIn       time.Duration
	priority    models.TaskPriority
	status      models.TaskStatus
}

var sampleTasks = []seedTask{
	{
		title:       "Welcome to Task Manager",
		description: "This is your first task! You can edit, complete, or delete it.",
		dueIn:       7 * 24 * time.Hour,
		priority:    models.PriorityHigh,
		status:      models.StatusPending,
	},
	{
		title:       "Set up project documentation",
		description: "Create comprehensive documentation for the project including API endpoints and user guides.",
		dueIn:       14 * 24 * time.Hour,
		priority:    models.PriorityMedium,
		status:      models.StatusPending,
	},
	{
		title:       "Review code quality",
		description: "Perform code review and ensure all best practices are followed.",
		dueIn:       3 * 24 * time.Hour,
		priority:    models.PriorityLow,
		status:      models.StatusCompleted,
	},
}

// Seed wipes both collections and loads the sample accounts and tasks.
// Tasks are created by the admin with assignees alternating between the
// first regular user and the admin.
func Seed(ctx context.Context, db *mongo.Database) error {
	users := db.Collection(UsersCollection)
	tasks := db.Collection(TasksCollection)

	if _, err := users.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear users: %w", err)
	}
	if _, err := tasks.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}

	var admin, regular models.User
	for _, sample := range sampleUsers {
		hashed, err := utils.HashPassword(sample.password)
		if err != nil {
			return err
		}

		user := models.User{
			ID:        primitive.NewObjectID(),
			Name:      sample.name,
			Email:     sample.email,
			Password:  hashed,
			Role:      sample.role,
			CreatedAt: time.Now(),
		}
		if _, err := users.InsertOne(ctx, user); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", sample.email, err)
		}

		if user.Role == models.RoleAdmin && admin.ID.IsZero() {
			admin = user
		}
		if user.Role == models.RoleUser && regular.ID.IsZero() {
			regular = user
		}

		logging.Logger.Infof("Event ID: SEED_USER_CREATED, Description: Created user %s (%s)", user.Name, user.Email)
	}

	now := time.Now()
	for i, sample := range sampleTasks {
		assignee := regular
		if i%2 != 0 {
			assignee = admin
		}

		task := models.Task{
			ID:           primitive.NewObjectID(),
			Title:        sample.title,
			Description:  sample.description,
			DueDate:      now.Add(sample.dueIn),
			Priority:     sample.priority,
			Status:       sample.status,
			AssignedUser: assignee.ID,
			CreatedBy:    admin.ID,
			CreatedAt:    now.Add(time.Duration(i) * time.Millisecond),
			UpdatedAt:    now.Add(time.Duration(i) * time.Millisecond),
		}
		if _, err := tasks.InsertOne(ctx, task); err != nil {
			return fmt.Errorf("failed to seed task %q: %w", sample.title, err)
		}

		logging.Logger.Infof("Event ID: SEED_TASK_CREATED, Description: Created task %q assigned to %s", task.Title, assignee.Name)
	}

	logging.Logger.Info("Event ID: SEED_COMPLETE, Description: Database seeded successfully")
	return nil
}
