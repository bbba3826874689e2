package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"task-manager/backend/middleware"
	"task-manager/backend/models"
	"task-manager/backend/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// taskService is the slice of the task service the handler uses. It lets
// tests exercise the HTTP mapping without a live database.
type taskService interface {
	CreateTask(ctx context.Context, req services.Requester, input services.CreateTaskInput) (*models.TaskView, error)
	ListTasks(ctx context.Context, req services.Requester, filters services.TaskFilters, page, limit int) ([]models.TaskView, models.Pagination, error)
	GetTaskByID(ctx context.Context, req services.Requester, id primitive.ObjectID) (*models.TaskView, error)
	UpdateTask(ctx context.Context, req services.Requester, id primitive.ObjectID, update services.TaskUpdate) (*models.TaskView, error)
	UpdateStatus(ctx context.Context, req services.Requester, id primitive.ObjectID, status models.TaskStatus) (*models.TaskView, error)
	DeleteTask(ctx context.Context, req services.Requester, id primitive.ObjectID) error
}

type TaskHandler struct {
	service taskService
}

func NewTaskHandler(service taskService) *TaskHandler {
	return &TaskHandler{service: service}
}

type taskListResponse struct {
	Tasks      []models.TaskView `json:"tasks"`
	Pagination models.Pagination `json:"pagination"`
}

// GetTasks lists tasks visible to the requester, filtered and paginated.
func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	filters, err := parseTaskFilters(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	h.list(w, r, requester, filters)
}

// GetTasksByPriority is the path-parameter variant of the priority filter.
func (h *TaskHandler) GetTasksByPriority(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	priority := models.TaskPriority(mux.Vars(r)["priority"])
	if !priority.Valid() {
		writeMessage(w, http.StatusBadRequest, "Priority must be Low, Medium, or High")
		return
	}

	h.list(w, r, requester, services.TaskFilters{Priority: priority})
}

func (h *TaskHandler) list(w http.ResponseWriter, r *http.Request, requester services.Requester, filters services.TaskFilters) {
	page := models.ParsePage(r.URL.Query().Get("page"))
	limit := models.ParseLimit(r.URL.Query().Get("limit"))

	tasks, pagination, err := h.service.ListTasks(r.Context(), requester, filters, page, limit)
	if err != nil {
		handleServiceError(w, err, "Task not found")
		return
	}

	writeJSON(w, http.StatusOK, taskListResponse{Tasks: tasks, Pagination: pagination})
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	task, err := h.service.GetTaskByID(r.Context(), requester, id)
	if err != nil {
		handleServiceError(w, err, "Task not found")
		return
	}

	writeJSON(w, http.StatusOK, task)
}

type createTaskRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	DueDate      string `json:"dueDate"`
	Priority     string `json:"priority"`
	AssignedUser string `json:"assignedUser"`
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	var errs []services.ValidationError
	if strings.TrimSpace(req.Title) == "" {
		errs = append(errs, services.ValidationError{Field: "title", Message: "Title is required"})
	}
	if strings.TrimSpace(req.Description) == "" {
		errs = append(errs, services.ValidationError{Field: "description", Message: "Description is required"})
	}
	dueDate, dateErr := parseDueDate(req.DueDate)
	if dateErr != nil {
		errs = append(errs, services.ValidationError{Field: "dueDate", Message: "Please enter a valid due date"})
	}
	priority := models.TaskPriority(req.Priority)
	if !priority.Valid() {
		errs = append(errs, services.ValidationError{Field: "priority", Message: "Priority must be Low, Medium, or High"})
	}
	assignedUser, idErr := primitive.ObjectIDFromHex(req.AssignedUser)
	if idErr != nil {
		errs = append(errs, services.ValidationError{Field: "assignedUser", Message: "Please select a valid user"})
	}
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	task, err := h.service.CreateTask(r.Context(), requester, services.CreateTaskInput{
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		DueDate:      dueDate,
		Priority:     priority,
		AssignedUser: assignedUser,
	})
	if err != nil {
		handleServiceError(w, err, "Task not found")
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

type updateTaskRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	DueDate      *string `json:"dueDate"`
	Priority     *string `json:"priority"`
	Status       *string `json:"status"`
	AssignedUser *string `json:"assignedUser"`
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	update, errs := buildTaskUpdate(req)
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	task, err := h.service.UpdateTask(r.Context(), requester, id, update)
	if err != nil {
		handleServiceError(w, err, "Task not found")
		return
	}

	writeJSON(w, http.StatusOK, task)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	status := models.TaskStatus(req.Status)
	if !status.Valid() {
		writeFieldErrors(w, []services.ValidationError{
			{Field: "status", Message: "Status must be Pending or Completed"},
		})
		return
	}

	task, err := h.service.UpdateStatus(r.Context(), requester, id, status)
	if err != nil {
		handleServiceError(w, err, "Task not found")
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	if err := h.service.DeleteTask(r.Context(), requester, id); err != nil {
		handleServiceError(w, err, "Task not found")
		return
	}

	writeMessage(w, http.StatusOK, "Task deleted successfully")
}

func parseTaskFilters(r *http.Request) (services.TaskFilters, error) {
	filters := services.TaskFilters{}
	query := r.URL.Query()

	if raw := query.Get("status"); raw != "" {
		status := models.TaskStatus(raw)
		if !status.Valid() {
			return filters, &services.ValidationError{Field: "status", Message: "Status must be Pending or Completed"}
		}
		filters.Status = status
	}
	if raw := query.Get("priority"); raw != "" {
		priority := models.TaskPriority(raw)
		if !priority.Valid() {
			return filters, &services.ValidationError{Field: "priority", Message: "Priority must be Low, Medium, or High"}
		}
		filters.Priority = priority
	}
	if raw := query.Get("assignedUser"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return filters, &services.ValidationError{Field: "assignedUser", Message: "Invalid user ID format"}
		}
		filters.AssignedUser = &id
	}

	return filters, nil
}

func buildTaskUpdate(req updateTaskRequest) (services.TaskUpdate, []services.ValidationError) {
	var update services.TaskUpdate
	var errs []services.ValidationError

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			errs = append(errs, services.ValidationError{Field: "title", Message: "Title cannot be empty"})
		} else {
			title := strings.TrimSpace(*req.Title)
			update.Title = &title
		}
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			errs = append(errs, services.ValidationError{Field: "description", Message: "Description cannot be empty"})
		} else {
			description := strings.TrimSpace(*req.Description)
			update.Description = &description
		}
	}
	if req.DueDate != nil {
		dueDate, err := parseDueDate(*req.DueDate)
		if err != nil {
			errs = append(errs, services.ValidationError{Field: "dueDate", Message: "Please enter a valid due date"})
		} else {
			update.DueDate = &dueDate
		}
	}
	if req.Priority != nil {
		priority := models.TaskPriority(*req.Priority)
		if !priority.Valid() {
			errs = append(errs, services.ValidationError{Field: "priority", Message: "Priority must be Low, Medium, or High"})
		} else {
			update.Priority = &priority
		}
	}
	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		if !status.Valid() {
			errs = append(errs, services.ValidationError{Field: "status", Message: "Status must be Pending or Completed"})
		} else {
			update.Status = &status
		}
	}
	if req.AssignedUser != nil {
		id, err := primitive.ObjectIDFromHex(*req.AssignedUser)
		if err != nil {
			errs = append(errs, services.ValidationError{Field: "assignedUser", Message: "Please select a valid user"})
		} else {
			update.AssignedUser = &id
		}
	}

	return update, errs
}

// parseDueDate accepts full RFC 3339 timestamps and bare dates.
func parseDueDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
