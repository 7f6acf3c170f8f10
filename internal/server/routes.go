// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"codeberg.org/oliverandrich/storefront/internal/assets"
	"codeberg.org/oliverandrich/storefront/internal/config"
	"codeberg.org/oliverandrich/storefront/internal/handlers"
	"codeberg.org/oliverandrich/storefront/internal/metrics"
	"codeberg.org/oliverandrich/storefront/internal/middleware"
	"codeberg.org/oliverandrich/storefront/internal/services/email"
	"codeberg.org/oliverandrich/storefront/internal/services/oauth"
	"github.com/labstack/echo/v4"
)

type routes struct {
	pages   *handlers.Handlers
	auth    *handlers.AuthHandlers
	account *handlers.AccountHandlers
	admin   *handlers.AdminHandlers
}

func setupRoutes(e *echo.Echo, cfg *config.Config, r routes) {
	// Operational
	e.GET("/health", r.pages.Health)
	e.GET("/metrics", metrics.Handler())
	e.GET("/static/*", echo.WrapHandler(assets.FileServer()))

	// Catalog and legal pages
	e.GET("/", r.pages.Home)
	e.GET("/product/:slug", r.pages.Product)
	e.GET("/terms", r.pages.Terms)
	e.GET("/privacy", r.pages.Privacy)

	// Sign-in and sign-up
	e.GET("/sign-in", r.auth.SignInPage)
	e.POST("/sign-in", r.auth.SignIn)
	e.POST("/sign-out", r.auth.SignOut)
	e.GET("/sign-up", r.auth.SignUpPage)
	e.POST("/sign-up", r.auth.SignUp)
	e.POST("/sign-up/verify", r.auth.RequestVerification, verifyRateLimiter(cfg.RateLimit.VerifyPerMinute))
	e.GET(email.VerifyPath, r.auth.VerifyEmail)
	e.GET("/verify-email", r.auth.VerifyEmailPage)
	e.GET("/api/auth/signin/google", r.auth.GoogleSignIn)
	e.GET(oauth.CallbackPath, r.auth.GoogleCallback)

	// Signed-in users
	requireAuth := middleware.RequireAuth()
	e.GET(middleware.ConsentPath, r.account.ConsentPage, requireAuth)
	e.POST(middleware.ConsentPath, r.account.AcceptConsent, requireAuth)
	e.GET("/profile", r.account.ProfilePage, requireAuth)
	e.POST("/profile", r.account.UpdateProfile, requireAuth)
	e.POST("/shipping-address", r.account.UpdateAddress, requireAuth)
	e.POST("/payment-method", r.account.UpdatePaymentMethod, requireAuth)

	// Administration
	admin := e.Group("/admin", middleware.RequireAdmin())
	admin.GET("/users", r.admin.Users)
	admin.GET("/users/:id", r.admin.EditUser)
	admin.POST("/users/:id", r.admin.UpdateUser)
	admin.POST("/users/:id/delete", r.admin.DeleteUser)
}
