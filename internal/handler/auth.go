package handler

import (
	"net/http"
	"time"

	"github.com/hartetoti/backend/internal/ctxkeys"
	"github.com/hartetoti/backend/internal/middleware"
	"github.com/hartetoti/backend/internal/render"
	"github.com/hartetoti/backend/internal/service"
)

type registerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,account_email"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

// Older clients send the new password as "password".
type resetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required_without=Password"`
	Password    string `json:"password" validate:"required_without=NewPassword"`
}

func (r resetPasswordRequest) password() string {
	if r.NewPassword != "" {
		return r.NewPassword
	}
	return r.Password
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

type updateProfileRequest struct {
	Nickname string `json:"nickname"`
}

type authHandler struct {
	authService   *service.AuthService
	secureCookies bool
}

func NewAuthHandler(authService *service.AuthService, secureCookies bool) *authHandler {
	return &authHandler{
		authService:   authService,
		secureCookies: secureCookies,
	}
}

// Register does not log the user in through a cookie; the token is in the body.
func (h *authHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	err := decodeAndValidate(w, r, &req)
	if err != nil {
		render.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.Register(r.Context(), req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		fail(w, r, err, http.StatusBadRequest)
		return
	}

	render.Success(w, http.StatusCreated, "Registration successful. Please verify your email.", result)
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	err := decodeAndValidate(w, r, &req)
	if err != nil {
		render.Error(w, http.StatusBadRequest, "Please provide a valid email address and password.")
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		fail(w, r, err, http.StatusUnauthorized)
		return
	}

	h.setSessionCookie(w, result.Token, h.authService.SessionTTL())
	render.Success(w, http.StatusOK, "Successfully logged in", result)
}

func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setSessionCookie(w, "", -1)
	render.Success(w, http.StatusOK, "Successfully logged out", nil)
}

func (h *authHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	profile, err := h.authService.Profile(r.Context(), user.ID)
	if err != nil {
		fail(w, r, err, http.StatusBadRequest)
		return
	}

	render.Success(w, http.StatusOK, "", profile)
}

func (h *authHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req updateProfileRequest
	err := decodeAndValidate(w, r, &req)
	if err != nil {
		render.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.authService.UpdateNickname(r.Context(), user.ID, req.Nickname)
	if err != nil {
		fail(w, r, err, http.StatusBadRequest)
		return
	}

	render.Success(w, http.StatusOK, "Profile updated successfully", profile)
}

func (h *authHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	_, err := h.authService.VerifyEmail(r.Context(), r.PathValue("token"))
	if err != nil {
		fail(w, r, err, http.StatusBadRequest)
		return
	}

	render.Success(w, http.StatusOK, "Email verified successfully", nil)
}

func (h *authHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	_, err := h.authService.ResendVerification(r.Context(), user.ID)
	if err != nil {
		fail(w, r, err, http.StatusBadRequest)
		return
	}

	render.Success(w, http.StatusOK, "Verification email sent", nil)
}

func (h *authHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	err := decodeAndValidate(w, r, &req)
	if err != nil {
		render.Error(w, http.StatusBadRequest, "Please provide an email")
		return
	}

	_, err = h.authService.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		fail(w, r, err, http.StatusBadRequest)
		return
	}

	render.Success(w, http.StatusOK, "Password reset email sent", nil)
}

func (h *authHandler) ValidateResetToken(w http.ResponseWriter, r *http.Request) {
	err := h.authService.ValidateResetToken(r.Context(), r.PathValue("token"))
	if err != nil {
		fail(w, r, err, http.StatusBadRequest)
		return
	}

	render.Success(w, http.StatusOK, "Reset token is valid", nil)
}

func (h *authHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	err := decodeAndValidate(w, r, &req)
	if err != nil {
		render.Error(w, http.StatusBadRequest, "Please provide a new password")
		return
	}

	err = h.authService.ResetPassword(r.Context(), r.PathValue("token"), req.password())
	if err != nil {
		fail(w, r, err, http.StatusBadRequest)
		return
	}

	render.Success(w, http.StatusOK, "Password reset successfully", nil)
}

func (h *authHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req changePasswordRequest
	err := decodeAndValidate(w, r, &req)
	if err != nil {
		render.Error(w, http.StatusBadRequest, "Please provide current and new password")
		return
	}

	err = h.authService.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		fail(w, r, err, http.StatusBadRequest)
		return
	}

	render.Success(w, http.StatusOK, "Password changed successfully", nil)
}

// setSessionCookie sets the session cookie. A negative ttl deletes it.
func (h *authHandler) setSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	maxAge := int(ttl / time.Second)
	if ttl < 0 {
		maxAge = -1
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}
