package handlers

import (
	"net/http"

	"go.uber.org/zap"

	appuser "github.com/avionmeals/backend/internal/application/user"
	"github.com/avionmeals/backend/internal/infrastructure/http/middleware"
)

// AuthHandlers serves the account endpoints.
type AuthHandlers struct {
	users  *appuser.Service
	logger *zap.Logger
}

// NewAuthHandlers creates auth handlers.
func NewAuthHandlers(users *appuser.Service, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{users: users, logger: logger}
}

type signupRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Signup handles POST /api/v1/auth/signup.
func (h *AuthHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	u, err := h.users.Signup(r.Context(), req.Email, req.Phone, req.Password, req.Name)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"user_id": u.ID.String(),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	token, u, err := h.users.Login(r.Context(), req.Email, req.Phone, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"access_token": token,
		"user_id":      u.ID.String(),
	})
}

// Guest handles POST /api/v1/auth/guest.
func (h *AuthHandlers) Guest(w http.ResponseWriter, r *http.Request) {
	token, u, err := h.users.Guest(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"access_token": token,
		"user": map[string]interface{}{
			"id":       u.ID.String(),
			"is_guest": true,
		},
	})
}

// Logout handles POST /api/v1/auth/logout. Tokens are stateless; the
// client discards its copy.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Message: "Logged out successfully",
	})
}

// Session handles GET /api/v1/auth/session.
func (h *AuthHandlers) Session(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	u, err := h.users.Session(r.Context(), identity)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":        u.ID.String(),
		"email":     u.Email,
		"phone":     u.Phone,
		"name":      u.Name,
		"is_active": u.IsActive,
	})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ForgotPassword handles POST /api/v1/auth/forgot-password.
func (h *AuthHandlers) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.users.ForgotPassword(r.Context(), req.Email, req.Phone); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Message: "Password reset OTP sent",
	})
}

type resetPasswordRequest struct {
	Phone       string `json:"phone"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

// ResetPassword handles POST /api/v1/auth/reset-password.
func (h *AuthHandlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.users.ResetPassword(r.Context(), req.Phone, req.OTP, req.NewPassword); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Message: "Password reset successful",
	})
}

type updateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// Profile handles GET /api/v1/user/profile.
func (h *AuthHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	u, err := h.users.Profile(r.Context(), identity)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":         u.ID.String(),
		"name":       u.Name,
		"email":      u.Email,
		"phone":      u.Phone,
		"is_active":  u.IsActive,
		"created_at": u.CreatedAt,
	})
}

// UpdateProfile handles PUT /api/v1/user/profile.
func (h *AuthHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	var req updateProfileRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if _, err := h.users.UpdateProfile(r.Context(), identity, req.Name, req.Email, req.Phone); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Message: "Profile updated",
	})
}
