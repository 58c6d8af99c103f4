package controllers

import (
	"CareClinic/handlers"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Handler *handlers.AuthHandler
}

// NewAuthController creates a new AuthController with the given AuthHandler
func NewAuthController(authHandler *handlers.AuthHandler) *AuthController {
	return &AuthController{
		Handler: authHandler,
	}
}

// RegisterRoutes puts the account routes on the router. signedIn carries the
// session middleware.
func (ac *AuthController) RegisterRoutes(router *gin.Engine, signedIn ...gin.HandlerFunc) {
	// Public routes: No session required
	public := router.Group("/accounts")
	{
		public.GET("/register/", ac.Handler.RegisterForm)
		public.POST("/register/", ac.Handler.Register)
		public.GET("/login/", ac.Handler.LoginForm)
		public.POST("/login/", ac.Handler.Login)
		public.POST("/password-reset/", ac.Handler.SendResetCode)
		public.POST("/password-reset/confirm/", ac.Handler.ResetPassword)
	}

	// Protected routes: Requires a valid session
	protected := router.Group("/accounts", signedIn...)
	{
		protected.POST("/logout/", ac.Handler.Logout)
		protected.GET("/profile/", ac.Handler.Profile)
	}
}
