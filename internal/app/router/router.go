// Package router assembles the gin engine and its routes.
package router

import (
	"errors"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "contacts_backend/internal/feature/auth/transport/handler"
	"contacts_backend/internal/feature/auth/usecase"
	"contacts_backend/internal/platform/http/handler"
	jwtmw "contacts_backend/internal/platform/jwt"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Health  *handler.HealthHandler
	Auth    *authhandler.AuthHandler
	Users   *authhandler.UserHandler
	Metrics gin.HandlerFunc
}

func NewRouter(h Handlers, resolver jwtmw.IdentityResolver, corsOrigins []string) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(corsConfig(corsOrigins)))

	// 認証不要
	r.GET("/", handler.Welcome)
	r.GET("/healthz", h.Health.Live)
	r.HEAD("/healthz", h.Health.Live)
	r.OPTIONS("/healthz", h.Health.Live)
	r.GET("/healthz/readiness", h.Health.Ready)
	r.HEAD("/healthz/readiness", h.Health.Ready)
	if h.Metrics != nil {
		r.GET("/metrics", h.Metrics)
	}

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.GET("/confirmed_email/:token", h.Auth.ConfirmEmail)
		auth.POST("/request_email", h.Auth.RequestEmail)
		auth.POST("/forgot_password", h.Auth.ForgotPassword)
		auth.POST("/reset_password", h.Auth.ResetPassword)
	}

	// 認証必須のルート
	users := r.Group("/api/users")
	users.Use(jwtmw.AuthRequired(resolver, isCredentialError))
	{
		users.GET("/me", h.Users.Me)
		users.PATCH("/avatar", h.Users.UpdateAvatar)
	}

	return r
}

// isCredentialError reports whether a resolver error means the caller is not authenticated.
func isCredentialError(err error) bool {
	return errors.Is(err, usecase.ErrInvalidCredentials)
}

// corsConfig allows every origin for "*" and otherwise exactly the listed ones.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"WWW-Authenticate"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
