package handlers

import (
	"CareClinic/middlewares"
	"CareClinic/services"
	"CareClinic/utils"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	service *services.AvailabilityService
}

func NewAvailabilityHandler(service *services.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

func availabilityPath(doctorID uint) string {
	return fmt.Sprintf("/appointments/availability/%d/", doctorID)
}

func (h *AvailabilityHandler) List(c *gin.Context) {
	doctorID, ok := parseID(c, "id")
	if !ok {
		return
	}
	doctor, windows, err := h.service.ListForDoctor(c.Request.Context(), doctorID)
	if err != nil {
		failView(c, err)
		return
	}
	render(c, gin.H{"doctor": doctor, "availabilities": windows})
}

func (h *AvailabilityHandler) Create(c *gin.Context) {
	actor := middlewares.ActorFromContext(c)
	back := availabilityPath(actor.DoctorID())

	day, err := strconv.Atoi(c.PostForm("day_of_week"))
	if err != nil {
		redirectWithFlash(c, back, utils.FlashError, "Choose a day of the week.")
		return
	}
	in := services.AvailabilityInput{
		DayOfWeek: day,
		StartTime: c.PostForm("start_time"),
		EndTime:   c.PostForm("end_time"),
	}
	if _, present := c.GetPostForm("is_available"); present {
		available := checked(c, "is_available")
		in.IsAvailable = &available
	}

	if _, err := h.service.Create(c.Request.Context(), actor, in); err != nil {
		fail(c, err, back)
		return
	}
	redirectWithFlash(c, back, utils.FlashSuccess, "Availability added successfully.")
}

func (h *AvailabilityHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	actor := middlewares.ActorFromContext(c)
	back := availabilityPath(actor.DoctorID())
	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		fail(c, err, back)
		return
	}
	redirectWithFlash(c, back, utils.FlashSuccess, "Availability removed.")
}
