package handlers

import (
	"CareClinic/middlewares"
	"CareClinic/services"
	"CareClinic/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	registerPath      = "/accounts/register/"
	passwordResetPath = "/accounts/password-reset/"
)

type AuthHandler struct {
	service *services.AuthService
}

func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) RegisterForm(c *gin.Context) {
	render(c, gin.H{"user_types": []string{"doctor", "patient"}})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var in services.RegisterInput
	if err := c.ShouldBind(&in); err != nil {
		redirectWithFlash(c, registerPath, utils.FlashError, "Invalid registration form.")
		return
	}
	if _, err := h.service.Register(c.Request.Context(), in); err != nil {
		fail(c, err, registerPath)
		return
	}
	redirectWithFlash(c, services.LoginPath, utils.FlashSuccess, "Registration successful! Please login.")
}

func (h *AuthHandler) LoginForm(c *gin.Context) {
	render(c, nil)
}

// Login signs the user in and follows the role router.
func (h *AuthHandler) Login(c *gin.Context) {
	result, err := h.service.Login(c.Request.Context(), c.PostForm("username"), c.PostForm("password"))
	if err != nil {
		fail(c, err, services.LoginPath)
		return
	}

	if result.Landing.Kind == services.LandingLoggedOut {
		utils.ClearSessionCookie(c)
		redirectWithFlash(c, result.Landing.Path, utils.FlashError, result.Landing.Message)
		return
	}

	utils.SetSessionCookie(c, result.Token, h.service.SessionTTL())
	utils.AddFlash(c, utils.FlashSuccess, "Welcome back, "+result.User.FirstName+"!")
	c.Redirect(http.StatusFound, result.Landing.Path)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	middlewares.EndSession(c, h.service)
	redirectWithFlash(c, services.LoginPath, utils.FlashSuccess, "You have been logged out successfully.")
}

func (h *AuthHandler) Profile(c *gin.Context) {
	actor := middlewares.ActorFromContext(c)
	render(c, gin.H{
		"user":         actor.User,
		"user_profile": actor.Profile,
	})
}

func (h *AuthHandler) SendResetCode(c *gin.Context) {
	if err := h.service.SendResetCode(c.Request.Context(), c.PostForm("email")); err != nil {
		fail(c, err, passwordResetPath)
		return
	}
	redirectWithFlash(c, passwordResetPath+"confirm/", utils.FlashInfo, "If the address belongs to an account, a reset code has been sent to it.")
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	err := h.service.ResetPassword(c.Request.Context(), c.PostForm("email"), c.PostForm("reset_code"), c.PostForm("new_password"))
	if err != nil {
		fail(c, err, passwordResetPath+"confirm/")
		return
	}
	redirectWithFlash(c, services.LoginPath, utils.FlashSuccess, "Your password has been reset. Please login.")
}
