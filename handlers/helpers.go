package handlers

import (
	"CareClinic/middlewares"
	"CareClinic/services"
	"CareClinic/utils"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
)

const DashboardPath = "/dashboard/"

// Messages for sentinel errors that carry no text of their own.
var errorMessages = []struct {
	err     error
	message string
}{
	{services.ErrSlotTaken, "This time slot is already booked. Please choose another time."},
	{services.ErrSlotBusy, "This time slot is currently being booked. Please try again."},
	{services.ErrDoctorUnavailable, "The selected doctor is not accepting appointments."},
	{services.ErrVideoSessionNotFound, "Video session not found."},
	{services.ErrInvalidCredentials, "Invalid username or password!"},
	{services.ErrInvalidResetCode, "Invalid or expired reset code."},
	{services.ErrTooManyResetAttempts, "Too many reset attempts. Please try again later."},
}

// fail answers a failed mutation. Authorization failures go to the dashboard,
// input problems back to the form, anything unexpected is a 500.
func fail(c *gin.Context, err error, back string) {
	var userFacing services.UserFacing
	var fieldErrs validation.Errors

	switch {
	case errors.Is(err, services.ErrForbidden) && errors.As(err, &userFacing):
		redirectWithFlash(c, DashboardPath, utils.FlashError, userFacing.UserMessage())
	case errors.As(err, &userFacing):
		redirectWithFlash(c, back, utils.FlashError, userFacing.UserMessage())
	case errors.As(err, &fieldErrs):
		redirectWithFlash(c, back, utils.FlashError, fieldErrs.Error())
	case errors.Is(err, services.ErrProfileMissing):
		c.Redirect(http.StatusFound, DashboardPath)
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		for _, known := range errorMessages {
			if errors.Is(err, known.err) {
				redirectWithFlash(c, back, utils.FlashError, known.message)
				return
			}
		}
		middlewares.HttpError(c, "Internal server error", http.StatusInternalServerError, err)
	}
}

// failView answers a failed read; there is no form to go back to.
func failView(c *gin.Context, err error) {
	fail(c, err, DashboardPath)
}

func redirectWithFlash(c *gin.Context, path, level, message string) {
	utils.AddFlash(c, level, message)
	c.Redirect(http.StatusFound, path)
}

// render answers a view with its model plus the pending flash messages.
func render(c *gin.Context, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["flashes"] = utils.PopFlashes(c)
	c.JSON(http.StatusOK, data)
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s", name)})
		return 0, false
	}
	return uint(id), true
}

// checked reads an HTML checkbox.
func checked(c *gin.Context, name string) bool {
	switch c.PostForm(name) {
	case "on", "true", "1":
		return true
	}
	return false
}

func appointmentPath(id uint) string {
	return fmt.Sprintf("/appointments/%d/", id)
}
