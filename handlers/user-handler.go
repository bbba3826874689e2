package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"task-manager/backend/middleware"
	"task-manager/backend/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserHandler struct {
	UserService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{UserService: userService}
}

// GetUsers is the admin user-management listing.
func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if !requester.IsAdmin() {
		writeMessage(w, http.StatusForbidden, "Access denied")
		return
	}

	users, err := h.UserService.ListUsers(r.Context())
	if err != nil {
		handleServiceError(w, err, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// GetAssignableUsers returns the users the requester may assign tasks to.
func (h *UserHandler) GetAssignableUsers(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	users, err := h.UserService.AssignableUsers(r.Context(), requester)
	if err != nil {
		handleServiceError(w, err, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	if !requester.IsAdmin() && requester.ID != id {
		writeMessage(w, http.StatusForbidden, "Access denied")
		return
	}

	user, err := h.UserService.GetUserByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	var errs []services.ValidationError
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, services.ValidationError{Field: "name", Message: "Name is required"})
	}
	if !services.ValidEmail(services.NormalizeEmail(req.Email)) {
		errs = append(errs, services.ValidationError{Field: "email", Message: "Please enter a valid email"})
	}
	if req.Password == "" {
		errs = append(errs, services.ValidationError{Field: "password", Message: "Password is required"})
	}
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	user, err := h.UserService.CreateUser(r.Context(), requester, strings.TrimSpace(req.Name), req.Email, req.Password, req.Role)
	if err != nil {
		handleServiceError(w, err, "User not found")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

type updateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	user, err := h.UserService.UpdateUser(r.Context(), requester, id, services.UserUpdate{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		handleServiceError(w, err, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	if err := h.UserService.DeleteUser(r.Context(), requester, id); err != nil {
		handleServiceError(w, err, "User not found")
		return
	}

	writeMessage(w, http.StatusOK, "User deleted successfully")
}
