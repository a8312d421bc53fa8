// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	authsvc "github.com/danisherror/productivity-manager/internal/services/auth"
	"github.com/labstack/echo/v4"
)

// writeError maps service errors to HTTP responses. Client-facing
// failures carry their taxonomy message; everything else becomes an
// opaque 500.
func writeError(c echo.Context, err error) error {
	var validation *authsvc.ValidationError
	if errors.As(err, &validation) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Please provide a valid " + validation.Field + ".",
		})
	}

	var duplicate *authsvc.DuplicateIdentifierError
	if errors.As(err, &duplicate) {
		return c.JSON(http.StatusConflict, map[string]string{
			"message": capitalize(duplicate.Field) + " already registered.",
		})
	}

	switch {
	case errors.Is(err, authsvc.ErrWeakPassword):
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Password must be 8-20 characters and include uppercase, lowercase, a digit and a special character.",
		})
	case errors.Is(err, authsvc.ErrInvalidIdentifier):
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid username/email"})
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid credentials."})
	case errors.Is(err, authsvc.ErrAccountNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"message": "No account found for this email."})
	case errors.Is(err, authsvc.ErrTokenNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Verification token not found."})
	case errors.Is(err, authsvc.ErrAlreadyVerified):
		return c.JSON(http.StatusConflict, map[string]string{"message": "Email already verified."})
	case errors.Is(err, authsvc.ErrTokenExpired):
		return c.JSON(http.StatusGone, map[string]string{"message": "Verification token expired."})
	case errors.Is(err, authsvc.ErrResetInvalidOrExpired):
		return c.JSON(http.StatusGone, map[string]string{"message": "Reset token is invalid or expired."})
	case errors.Is(err, authsvc.ErrMailDelivery):
		return c.JSON(http.StatusBadGateway, map[string]string{"message": "Could not send email. Please try again later."})
	case errors.Is(err, authsvc.ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid or expired token"})
	}

	slog.Error("request_failed", "error", err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
