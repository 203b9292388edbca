package user_api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"ms-booking/internal/auth"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
	"ms-booking/internal/users"
	"ms-booking/internal/utils"
)

type Handler struct {
	UserService *users.Service
	Logger      *logger.Logger
}

func NewHandler(userService *users.Service, log *logger.Logger) *Handler {
	return &Handler{UserService: userService, Logger: log}
}

// CreateUser handles POST /users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateUser: failed to decode request body: %v", err))
		utils.BadRequest(w, "invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		utils.BadRequest(w, "name, email and password are required")
		return
	}
	if !models.ValidRole(req.Role) {
		utils.BadRequest(w, "role must be one of admin, user, public")
		return
	}

	user, err := h.UserService.Register(r.Context(), req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateUser: registration failed: %v", err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, user)
}

// Login handles POST /login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	token, err := h.UserService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Login: authentication failed for %s", req.Email))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// CurrentUser handles GET /users/me.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user := auth.CurrentUser(r.Context())

	utils.WriteJSON(w, http.StatusOK, models.CurrentUserResponse{
		Message: fmt.Sprintf("Welcome back, %s! You are logged in with role: %s", user.Name, user.Role),
		UserID:  user.ID,
		Email:   user.Email,
	})
}
