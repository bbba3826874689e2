package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"task-manager/backend/logging"
	"task-manager/backend/middleware"
	"task-manager/backend/models"
	"task-manager/backend/services"
	"task-manager/backend/utils"
)

type tokenRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
}

type AuthHandler struct {
	UserService *services.UserService
	Tokens      tokenRevoker
	TokenTTL    time.Duration
}

func NewAuthHandler(userService *services.UserService, tokens tokenRevoker, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{UserService: userService, Tokens: tokens, TokenTTL: tokenTTL}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
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

	user, err := h.UserService.Register(r.Context(), strings.TrimSpace(req.Name), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err, "User not found")
		return
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Email, user.Role, h.TokenTTL)
	if err != nil {
		handleServiceError(w, err, "")
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: *user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request data")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.UserService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err, "")
		return
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Email, user.Role, h.TokenTTL)
	if err != nil {
		handleServiceError(w, err, "")
		return
	}

	logging.Logger.Infof("Event ID: USER_LOGIN, Description: User %s logged in", user.Email)
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: *user})
}

// Me returns the account behind the presented token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.UserService.GetUserByID(r.Context(), requester.ID)
	if err != nil {
		handleServiceError(w, err, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Logout revokes the presented token for its remaining lifetime.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenStr == "" || tokenStr == authHeader {
		writeMessage(w, http.StatusUnauthorized, "Authorization header missing")
		return
	}

	claims, err := utils.ValidateToken(tokenStr)
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	if err := h.Tokens.Revoke(r.Context(), tokenStr, utils.RemainingLifetime(claims)); err != nil {
		handleServiceError(w, err, "")
		return
	}

	writeMessage(w, http.StatusOK, "Logged out successfully")
}
