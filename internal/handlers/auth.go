// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"github.com/danisherror/productivity-manager/internal/auth"
	authsvc "github.com/danisherror/productivity-manager/internal/services/auth"
	"github.com/labstack/echo/v4"
)

// AuthHandlers contains handlers for the account lifecycle.
type AuthHandlers struct {
	svc *authsvc.Service
}

// NewAuth creates a new AuthHandlers instance.
func NewAuth(svc *authsvc.Service) *AuthHandlers {
	return &AuthHandlers{svc: svc}
}

// SignupRequest is the request body for account registration.
type SignupRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers a new account and sends the verification email.
func (h *AuthHandlers) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request"})
	}

	_, err := h.svc.Signup(c.Request().Context(), authsvc.SignupParams{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"message": "Signup successful. Please verify your email.",
	})
}

// SigninRequest is the request body for sign-in. Identifier is an email
// address or a username.
type SigninRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Signin authenticates the account and sets the session cookie, or
// reports the pending verification state.
func (h *AuthHandlers) Signin(c echo.Context) error {
	var req SigninRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request"})
	}
	if req.Identifier == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Please provide username/email and password."})
	}

	result, err := h.svc.Signin(c.Request().Context(), req.Identifier, req.Password)
	if err != nil {
		return writeError(c, err)
	}

	switch result.Outcome {
	case authsvc.OutcomeVerificationResent:
		return c.JSON(http.StatusForbidden, map[string]string{
			"message": "Email is not verified. Verification email resent. Please check your email.",
		})
	case authsvc.OutcomeVerificationPending:
		return c.JSON(http.StatusMethodNotAllowed, map[string]string{
			"message": "Email is not verified. Please check your email for verification link.",
		})
	default:
		c.SetCookie(result.Cookie)
		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"user":    result.User,
		})
	}
}

// Logout overwrites the session cookie with an expired empty value.
func (h *AuthHandlers) Logout(c echo.Context) error {
	c.SetCookie(h.svc.Logout())
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully",
	})
}

// VerifyEmail consumes a verification token from the query string.
func (h *AuthHandlers) VerifyEmail(c echo.Context) error {
	rawToken := c.QueryParam("token")
	if rawToken == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Missing token"})
	}

	if _, err := h.svc.VerifyEmail(c.Request().Context(), rawToken); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Email verified successfully",
	})
}

// ResendVerification sends a fresh verification email for an unverified
// account.
func (h *AuthHandlers) ResendVerification(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Missing email"})
	}

	if err := h.svc.ResendVerification(c.Request().Context(), email); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Verification email sent. Please check your email.",
	})
}

// ForgotPasswordRequest is the request body for a password reset request.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword issues a password reset token and mails it.
func (h *AuthHandlers) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request"})
	}
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Missing email"})
	}

	if err := h.svc.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Password reset email sent. Please check your email.",
	})
}

// ResetPasswordRequest is the request body for consuming a reset token.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPassword consumes a reset token and replaces the password.
func (h *AuthHandlers) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request"})
	}
	if req.Token == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Please provide token and new password."})
	}

	if err := h.svc.ResetPassword(c.Request().Context(), req.Token, req.Password); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Password updated successfully",
	})
}

// Profile returns the authenticated account.
func (h *AuthHandlers) Profile(c echo.Context) error {
	user := auth.GetUser(c.Request().Context())
	if user == nil {
		return writeError(c, authsvc.ErrUnauthenticated)
	}
	return c.JSON(http.StatusOK, map[string]any{"user": user})
}

// UserRecord returns the distinct calendar dates on which the account
// signed in.
func (h *AuthHandlers) UserRecord(c echo.Context) error {
	user := auth.GetUser(c.Request().Context())
	if user == nil {
		return writeError(c, authsvc.ErrUnauthenticated)
	}

	dates, err := h.svc.LoginDates(c.Request().Context(), user.ID)
	if err != nil {
		return writeError(c, err)
	}
	if len(dates) == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "No login records found"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"user":  user.ID,
		"dates": dates,
	})
}
