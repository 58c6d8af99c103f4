package messaging

import (
	"time"

	"github.com/google/uuid"
)

const serviceName = "careclinic"

// Routing keys
const (
	EventAppointmentBooked        = "appointment.booked"
	EventAppointmentCancelled     = "appointment.cancelled"
	EventAppointmentRescheduled   = "appointment.rescheduled"
	EventAppointmentStatusChanged = "appointment.status_changed"

	EventConsultationNoteCreated = "consultation.note_created"
)

// Event is anything the publisher can put on the exchange. The routing key
// doubles as the event type.
type Event interface {
	RoutingKey() string
	ID() string
	OccurredAt() time.Time
}

// Header is embedded by every event and carries its envelope fields.
type Header struct {
	EventType   string    `json:"event_type"`
	EventID     string    `json:"event_id"`
	Timestamp   time.Time `json:"timestamp"`
	ServiceName string    `json:"service_name"`
}

func newHeader(eventType string) Header {
	return Header{
		EventType:   eventType,
		EventID:     uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		ServiceName: serviceName,
	}
}

func (h Header) RoutingKey() string    { return h.EventType }
func (h Header) ID() string            { return h.EventID }
func (h Header) OccurredAt() time.Time { return h.Timestamp }

type AppointmentEvent struct {
	Header
	Data AppointmentData `json:"data"`
}

type AppointmentData struct {
	AppointmentID uint   `json:"appointment_id"`
	PatientID     uint   `json:"patient_id"`
	DoctorID      uint   `json:"doctor_id"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	OldStatus     string `json:"old_status,omitempty"`
	NewStatus     string `json:"new_status"`
	ActorUserID   uint   `json:"actor_user_id"`
}

// NewAppointmentEvent stamps one appointment lifecycle change. key is one of
// the appointment routing keys.
func NewAppointmentEvent(key string, data AppointmentData) AppointmentEvent {
	return AppointmentEvent{Header: newHeader(key), Data: data}
}

type ConsultationNoteEvent struct {
	Header
	Data ConsultationNoteData `json:"data"`
}

type ConsultationNoteData struct {
	NoteID        uint      `json:"note_id"`
	AppointmentID uint      `json:"appointment_id"`
	DoctorID      uint      `json:"doctor_id"`
	PatientID     uint      `json:"patient_id"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewConsultationNoteEvent(data ConsultationNoteData) ConsultationNoteEvent {
	return ConsultationNoteEvent{Header: newHeader(EventConsultationNoteCreated), Data: data}
}
