package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/TronCM143/ISTAK/internal/domain/notification"
	"github.com/TronCM143/ISTAK/internal/domain/user"
	"github.com/TronCM143/ISTAK/internal/shared/auth"
	"github.com/TronCM143/ISTAK/internal/shared/middleware"
)

// AuthHandler serves account registration, login, and device token updates.
type AuthHandler struct {
	users         user.Repository
	jwt           *auth.JWT
	notifications *notification.Service
}

func NewAuthHandler(users user.Repository, jwt *auth.JWT, notifications *notification.Service) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt, notifications: notifications}
}

type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	ManagerID *int64 `json:"managerId,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// HandleRegister creates an account. Managers register standalone; mobile
// users must name the manager whose pool they operate in.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if len(req.Password) < 8 {
		http.Error(w, "Password must be at least 8 characters", http.StatusBadRequest)
		return
	}
	if req.Role == "" {
		req.Role = user.RoleManager
	}
	if req.Role == user.RoleMobile && req.ManagerID != nil {
		manager, err := h.users.GetByID(r.Context(), *req.ManagerID)
		if err != nil {
			log.Printf("Error looking up manager %d: %v", *req.ManagerID, err)
			http.Error(w, "Failed to register", http.StatusInternalServerError)
			return
		}
		if manager == nil || manager.Role != user.RoleManager {
			http.Error(w, "Selected manager does not exist", http.StatusBadRequest)
			return
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		http.Error(w, "Failed to register", http.StatusInternalServerError)
		return
	}

	params := user.CreateParams{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		Role:         req.Role,
		ManagerID:    req.ManagerID,
	}
	if err := params.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	u, err := h.users.Create(r.Context(), params)
	if err != nil {
		if strings.Contains(err.Error(), "already taken") {
			http.Error(w, "Username or email already taken", http.StatusConflict)
			return
		}
		log.Printf("Error creating user: %v", err)
		http.Error(w, "Failed to register", http.StatusInternalServerError)
		return
	}

	token, err := h.jwt.Generate(u.ID, u.Role)
	if err != nil {
		log.Printf("Error generating token for user %d: %v", u.ID, err)
		http.Error(w, "Failed to register", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(AuthResponse{Token: token, User: u})
}

// HandleLogin verifies credentials and issues a token.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		log.Printf("Error looking up user %q: %v", req.Username, err)
		http.Error(w, "Failed to log in", http.StatusInternalServerError)
		return
	}
	if u == nil || auth.VerifyPassword(u.PasswordHash, req.Password) != nil {
		http.Error(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	token, err := h.jwt.Generate(u.ID, u.Role)
	if err != nil {
		log.Printf("Error generating token for user %d: %v", u.ID, err)
		http.Error(w, "Failed to log in", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AuthResponse{Token: token, User: u})
}

// HandleListManagers lists manager accounts. Used by the mobile signup flow
// to pick the pool to join, so it requires no authentication.
func (h *AuthHandler) HandleListManagers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	managers, err := h.users.ListManagers(r.Context())
	if err != nil {
		log.Printf("Error listing managers: %v", err)
		http.Error(w, "Failed to list managers", http.StatusInternalServerError)
		return
	}

	type managerResponse struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	}
	response := make([]managerResponse, 0, len(managers))
	for _, m := range managers {
		response = append(response, managerResponse{ID: m.ID, Username: m.Username})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

type FCMTokenRequest struct {
	Token string `json:"token"`
}

// HandleUpdateFCMToken stores the caller's device token for push delivery.
func (h *AuthHandler) HandleUpdateFCMToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req FCMTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Token == "" {
		http.Error(w, "FCM token is required", http.StatusBadRequest)
		return
	}

	if err := h.notifications.RegisterToken(r.Context(), userID, req.Token); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		log.Printf("Error updating FCM token for user %d: %v", userID, err)
		http.Error(w, "Failed to update token", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
