package handlers

import (
	"CareClinic/middlewares"
	"CareClinic/services"
	"CareClinic/utils"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	userSettingsPath   = "/settings/user/"
	systemSettingsPath = "/settings/system/"
	settingPrefix      = "setting_"
)

type SettingsHandler struct {
	service *services.SettingsService
}

func NewSettingsHandler(service *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

func (h *SettingsHandler) UserSettings(c *gin.Context) {
	view, err := h.service.UserSettings(c.Request.Context(), middlewares.ActorFromContext(c))
	if err != nil {
		failView(c, err)
		return
	}
	render(c, gin.H{"user_profile": view.Profile, "user_settings": view.Settings})
}

// UpdateUserSettings reads the whole form. Unchecked boxes are absent from
// the submission and therefore switch the option off.
func (h *SettingsHandler) UpdateUserSettings(c *gin.Context) {
	actor := middlewares.ActorFromContext(c)
	in := services.UserSettingsInput{
		FirstName:          c.PostForm("first_name"),
		LastName:           c.PostForm("last_name"),
		Email:              c.PostForm("email"),
		PhoneNumber:        c.PostForm("phone_number"),
		Address:            c.PostForm("address"),
		EmailNotifications: checked(c, "email_notifications"),
		SmsNotifications:   checked(c, "sms_notifications"),
		ProfileVisibility:  checked(c, "profile_visibility"),
		ShowPhone:          checked(c, "show_phone"),
		ShowEmail:          checked(c, "show_email"),
		Theme:              c.PostForm("theme"),
		AllowMessages:      checked(c, "allow_messages"),
		AllowVideoCalls:    checked(c, "allow_video_calls"),
	}
	if actor.IsDoctor() {
		accepting := checked(c, "available")
		in.AcceptingAppointments = &accepting
	}

	if err := h.service.UpdateUserSettings(c.Request.Context(), actor, in); err != nil {
		fail(c, err, userSettingsPath)
		return
	}
	redirectWithFlash(c, userSettingsPath, utils.FlashSuccess, "Settings updated successfully.")
}

func (h *SettingsHandler) ChangePasswordForm(c *gin.Context) {
	render(c, nil)
}

func (h *SettingsHandler) ChangePassword(c *gin.Context) {
	var in services.PasswordChangeInput
	if err := c.ShouldBind(&in); err != nil {
		redirectWithFlash(c, "/settings/change-password/", utils.FlashError, "Invalid password form.")
		return
	}
	if err := h.service.ChangePassword(c.Request.Context(), middlewares.ActorFromContext(c), in); err != nil {
		fail(c, err, "/settings/change-password/")
		return
	}
	redirectWithFlash(c, userSettingsPath, utils.FlashSuccess, "Your password was successfully updated!")
}

func (h *SettingsHandler) SystemSettings(c *gin.Context) {
	settings, err := h.service.SystemSettings(c.Request.Context(), middlewares.ActorFromContext(c))
	if err != nil {
		failView(c, err)
		return
	}
	render(c, gin.H{"settings": settings})
}

// UpdateSystemSettings takes one setting_<id> field per setting.
func (h *SettingsHandler) UpdateSystemSettings(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		redirectWithFlash(c, systemSettingsPath, utils.FlashError, "Invalid settings form.")
		return
	}
	values := make(map[uint]string)
	for key, submitted := range c.Request.PostForm {
		if !strings.HasPrefix(key, settingPrefix) || len(submitted) == 0 {
			continue
		}
		id, err := strconv.ParseUint(strings.TrimPrefix(key, settingPrefix), 10, 32)
		if err != nil {
			continue
		}
		values[uint(id)] = submitted[0]
	}

	if err := h.service.UpdateSystemSettings(c.Request.Context(), middlewares.ActorFromContext(c), values); err != nil {
		fail(c, err, systemSettingsPath)
		return
	}
	redirectWithFlash(c, systemSettingsPath, utils.FlashSuccess, "System settings updated successfully.")
}

func (h *SettingsHandler) Admin(c *gin.Context) {
	overview, err := h.service.AdminOverview(c.Request.Context(), middlewares.ActorFromContext(c))
	if err != nil {
		failView(c, err)
		return
	}
	render(c, gin.H{"admin": overview})
}
