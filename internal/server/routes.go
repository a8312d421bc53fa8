// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"github.com/danisherror/productivity-manager/internal/handlers"
	"github.com/danisherror/productivity-manager/internal/middleware"
	authsvc "github.com/danisherror/productivity-manager/internal/services/auth"
	"github.com/labstack/echo/v4"
)

func setupRoutes(e *echo.Echo, svc *authsvc.Service) {
	h := handlers.New()
	authHandler := handlers.NewAuth(svc)

	e.GET("/health", h.Health)

	api := e.Group("/api/v1")

	// Public account lifecycle
	api.POST("/signup", authHandler.Signup)
	api.POST("/signin", authHandler.Signin)
	api.POST("/logout", authHandler.Logout)
	api.GET("/verify-email", authHandler.VerifyEmail)
	api.GET("/resend-verification-email", authHandler.ResendVerification)
	api.POST("/forgot-password", authHandler.ForgotPassword)
	api.POST("/reset-password", authHandler.ResetPassword)

	// Routes requiring a valid session
	protected := api.Group("", middleware.RequireAuth)
	protected.GET("/me", authHandler.Profile)
	protected.GET("/userProfile", authHandler.Profile)
	protected.GET("/userRecord", authHandler.UserRecord)
}
