package handlers

import (
	"CareClinic/middlewares"
	"CareClinic/services"
	"CareClinic/utils"

	"github.com/gin-gonic/gin"
)

const (
	appointmentsPath = "/appointments/"
	bookingPath      = "/appointments/book/"
)

type AppointmentHandler struct {
	service *services.AppointmentService
}

func NewAppointmentHandler(service *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

func (h *AppointmentHandler) List(c *gin.Context) {
	actor := middlewares.ActorFromContext(c)
	appointments, err := h.service.List(c.Request.Context(), actor)
	if err != nil {
		failView(c, err)
		return
	}
	render(c, gin.H{"appointments": appointments})
}

func (h *AppointmentHandler) Doctors(c *gin.Context) {
	doctors, err := h.service.AvailableDoctors(c.Request.Context())
	if err != nil {
		failView(c, err)
		return
	}
	render(c, gin.H{"doctors": doctors})
}

// BookForm is only reachable by patients; everybody else is sent away with
// the same message the booking itself would give.
func (h *AppointmentHandler) BookForm(c *gin.Context) {
	if !middlewares.ActorFromContext(c).IsPatient() {
		redirectWithFlash(c, DashboardPath, utils.FlashError, "Only patients can book appointments.")
		return
	}
	doctors, err := h.service.AvailableDoctors(c.Request.Context())
	if err != nil {
		failView(c, err)
		return
	}
	render(c, gin.H{"doctors": doctors})
}

func (h *AppointmentHandler) Book(c *gin.Context) {
	var in services.BookingInput
	if err := c.ShouldBind(&in); err != nil {
		redirectWithFlash(c, bookingPath, utils.FlashError, "Invalid booking form.")
		return
	}
	appointment, err := h.service.Book(c.Request.Context(), middlewares.ActorFromContext(c), in)
	if err != nil {
		fail(c, err, bookingPath)
		return
	}
	redirectWithFlash(c, appointmentPath(appointment.ID), utils.FlashSuccess, "Appointment booked successfully! You will receive a confirmation soon.")
}

func (h *AppointmentHandler) Detail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	actor := middlewares.ActorFromContext(c)
	appointment, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		failView(c, err)
		return
	}
	data := gin.H{"appointment": appointment}
	if actor.IsDoctor() {
		data["status_choices"] = h.service.Policy().Targets(appointment.Status)
	}
	render(c, data)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := h.service.Cancel(c.Request.Context(), middlewares.ActorFromContext(c), id); err != nil {
		fail(c, err, appointmentPath(id))
		return
	}
	redirectWithFlash(c, appointmentsPath, utils.FlashSuccess, "Appointment cancelled successfully.")
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in services.RescheduleInput
	if err := c.ShouldBind(&in); err != nil {
		redirectWithFlash(c, appointmentPath(id), utils.FlashError, "Invalid reschedule form.")
		return
	}
	if _, err := h.service.Reschedule(c.Request.Context(), middlewares.ActorFromContext(c), id, in); err != nil {
		fail(c, err, appointmentPath(id))
		return
	}
	redirectWithFlash(c, appointmentPath(id), utils.FlashSuccess, "Appointment rescheduled successfully.")
}

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in services.StatusInput
	if err := c.ShouldBind(&in); err != nil {
		redirectWithFlash(c, appointmentPath(id), utils.FlashError, "Invalid status form.")
		return
	}
	if _, err := h.service.UpdateStatus(c.Request.Context(), middlewares.ActorFromContext(c), id, in); err != nil {
		fail(c, err, appointmentPath(id))
		return
	}
	redirectWithFlash(c, appointmentPath(id), utils.FlashSuccess, "Appointment status updated successfully.")
}
