// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package middleware provides HTTP middleware for session handling.
package middleware

import (
	"net/http"

	"github.com/danisherror/productivity-manager/internal/auth"
	authsvc "github.com/danisherror/productivity-manager/internal/services/auth"
	"github.com/labstack/echo/v4"
)

// LoadUser resolves the session cookie into a full account and stores it
// in the request context. Requests without a valid session pass through
// unauthenticated.
func LoadUser(svc *authsvc.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := svc.CurrentUser(c.Request().Context(), c.Request())
			if err == nil && user != nil {
				ctx := auth.SetUser(c.Request().Context(), user)
				c.SetRequest(c.Request().WithContext(ctx))
			}
			return next(c)
		}
	}
}

// RequireAuth rejects requests without an authenticated user.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !auth.IsAuthenticated(c.Request().Context()) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid or expired token"})
		}
		return next(c)
	}
}
