package handlers

import (
	"CareClinic/middlewares"
	"CareClinic/services"
	"CareClinic/utils"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ConsultationHandler struct {
	service *services.ConsultationService
}

func NewConsultationHandler(service *services.ConsultationService) *ConsultationHandler {
	return &ConsultationHandler{service: service}
}

func notePath(id uint) string {
	return fmt.Sprintf("/consultation/notes/%d/", id)
}

func chatPath(appointmentID uint) string {
	return fmt.Sprintf("/consultation/chat/%d/", appointmentID)
}

func videoPath(appointmentID uint) string {
	return fmt.Sprintf("/consultation/video/%d/", appointmentID)
}

func (h *ConsultationHandler) ListNotes(c *gin.Context) {
	notes, err := h.service.ListNotes(c.Request.Context(), middlewares.ActorFromContext(c))
	if err != nil {
		failView(c, err)
		return
	}
	render(c, gin.H{"notes": notes})
}

func (h *ConsultationHandler) NoteDetail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	note, err := h.service.GetNote(c.Request.Context(), middlewares.ActorFromContext(c), id)
	if err != nil {
		failView(c, err)
		return
	}
	render(c, gin.H{"note": note})
}

func (h *ConsultationHandler) NoteForm(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	appointment, err := h.service.NoteTarget(c.Request.Context(), middlewares.ActorFromContext(c), id)
	if err != nil {
		failView(c, err)
		return
	}
	render(c, gin.H{"appointment": appointment})
}

func (h *ConsultationHandler) CreateNote(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	back := fmt.Sprintf("/consultation/notes/create/%d/", id)
	var in services.NoteInput
	if err := c.ShouldBind(&in); err != nil {
		redirectWithFlash(c, back, utils.FlashError, "Invalid consultation note.")
		return
	}
	note, err := h.service.CreateNote(c.Request.Context(), middlewares.ActorFromContext(c), id, in)
	if err != nil {
		fail(c, err, back)
		return
	}
	redirectWithFlash(c, notePath(note.ID), utils.FlashSuccess, "Consultation note created successfully.")
}

func (h *ConsultationHandler) Chat(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	view, err := h.service.Chat(c.Request.Context(), middlewares.ActorFromContext(c), id)
	if err != nil {
		failView(c, err)
		return
	}
	render(c, gin.H{"appointment": view.Appointment, "messages": view.Messages})
}

func (h *ConsultationHandler) PostMessage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := h.service.PostMessage(c.Request.Context(), middlewares.ActorFromContext(c), id, c.PostForm("message")); err != nil {
		fail(c, err, chatPath(id))
		return
	}
	c.Redirect(http.StatusFound, chatPath(id))
}

func (h *ConsultationHandler) Video(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	appointment, session, err := h.service.Video(c.Request.Context(), middlewares.ActorFromContext(c), id)
	if err != nil {
		failView(c, err)
		return
	}
	render(c, gin.H{"appointment": appointment, "video_session": session})
}

func (h *ConsultationHandler) StartVideo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := h.service.StartVideo(c.Request.Context(), middlewares.ActorFromContext(c), id); err != nil {
		fail(c, err, videoPath(id))
		return
	}
	redirectWithFlash(c, videoPath(id), utils.FlashSuccess, "Video session started.")
}

func (h *ConsultationHandler) EndVideo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := h.service.EndVideo(c.Request.Context(), middlewares.ActorFromContext(c), id); err != nil {
		fail(c, err, videoPath(id))
		return
	}
	redirectWithFlash(c, appointmentPath(id), utils.FlashSuccess, "Video session ended.")
}
