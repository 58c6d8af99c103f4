package handlers

import (
	"CareClinic/middlewares"
	"CareClinic/services"
	"CareClinic/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	service *services.DashboardService
	revoker middlewares.SessionRevoker
}

func NewDashboardHandler(service *services.DashboardService, revoker middlewares.SessionRevoker) *DashboardHandler {
	return &DashboardHandler{service: service, revoker: revoker}
}

// Route sends the signed-in user to the landing for their role.
func (h *DashboardHandler) Route(c *gin.Context) {
	actor := middlewares.ActorFromContext(c)
	landing := services.ResolveLanding(actor.User, actor.Profile)
	if landing.Kind == services.LandingLoggedOut {
		middlewares.EndSession(c, h.revoker)
		utils.AddFlash(c, utils.FlashError, landing.Message)
	}
	c.Redirect(http.StatusFound, landing.Path)
}

func (h *DashboardHandler) Doctor(c *gin.Context) {
	dashboard, err := h.service.Doctor(c.Request.Context(), middlewares.ActorFromContext(c))
	if err != nil {
		failView(c, err)
		return
	}
	render(c, gin.H{"dashboard": dashboard})
}

func (h *DashboardHandler) Patient(c *gin.Context) {
	dashboard, err := h.service.Patient(c.Request.Context(), middlewares.ActorFromContext(c))
	if err != nil {
		failView(c, err)
		return
	}
	render(c, gin.H{"dashboard": dashboard})
}
