package services

import (
	"CareClinic/messaging"
	"CareClinic/models"
	"CareClinic/repositories"
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"
)

// SlotLocker serializes bookings of the same slot across instances.
type SlotLocker interface {
	Lock(ctx context.Context, key string) (release func(), acquired bool, err error)
}

type BookingInput struct {
	DoctorID uint   `form:"doctor" json:"doctor"`
	Date     string `form:"appointment_date" json:"appointment_date"`
	Time     string `form:"appointment_time" json:"appointment_time"`
	Reason   string `form:"reason" json:"reason"`
}

func (in BookingInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.DoctorID, validation.Required.Error("please choose a doctor")),
		validation.Field(&in.Date, validation.Required, validation.Date(models.DateLayout)),
		validation.Field(&in.Time, validation.Required, validation.By(isClock)),
		validation.Field(&in.Reason, validation.Required),
	)
}

type RescheduleInput struct {
	Date string `form:"appointment_date" json:"appointment_date"`
	Time string `form:"appointment_time" json:"appointment_time"`
}

func (in RescheduleInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Date, validation.Required, validation.Date(models.DateLayout)),
		validation.Field(&in.Time, validation.Required, validation.By(isClock)),
	)
}

type StatusInput struct {
	Status string `form:"status" json:"status"`
	Notes  string `form:"notes" json:"notes"`
}

func (in StatusInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Status, validation.Required, validation.In(statusValues()...)),
	)
}

func statusValues() []interface{} {
	values := make([]interface{}, len(models.AppointmentStatuses))
	for i, s := range models.AppointmentStatuses {
		values[i] = s
	}
	return values
}

func isClock(value interface{}) error {
	s, _ := value.(string)
	_, err := models.ParseClock(s)
	return err
}

type AppointmentService struct {
	appointments repositories.AppointmentRepository
	doctors      repositories.DoctorRepository
	locker       SlotLocker
	policy       *TransitionPolicy
	events       messaging.EventPublisher
}

func NewAppointmentService(appointments repositories.AppointmentRepository, doctors repositories.DoctorRepository, locker SlotLocker, policy *TransitionPolicy, events messaging.EventPublisher) *AppointmentService {
	if policy == nil {
		policy = OpenPolicy()
	}
	return &AppointmentService{
		appointments: appointments,
		doctors:      doctors,
		locker:       locker,
		policy:       policy,
		events:       events,
	}
}

func (s *AppointmentService) Policy() *TransitionPolicy {
	return s.policy
}

// AvailableDoctors lists doctors that accept bookings.
func (s *AppointmentService) AvailableDoctors(ctx context.Context) ([]models.DoctorProfile, error) {
	return s.doctors.ListAvailable(ctx)
}

// Book creates a scheduled appointment for the patient. The slot check and the
// insert share a transaction and the slot is held by a Redis lock meanwhile.
func (s *AppointmentService) Book(ctx context.Context, actor Actor, in BookingInput) (*models.Appointment, error) {
	if !actor.IsPatient() {
		return nil, forbidden("Only patients can book appointments.")
	}
	in.Reason = strings.TrimSpace(in.Reason)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	date, err := models.ParseDate(in.Date)
	if err != nil {
		return nil, invalid(err.Error())
	}
	at, err := models.ParseClock(in.Time)
	if err != nil {
		return nil, invalid(err.Error())
	}

	doctor, err := s.doctors.GetByID(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, invalid("The selected doctor does not exist.")
	}
	if !doctor.Available {
		return nil, ErrDoctorUnavailable
	}

	appointment := &models.Appointment{
		PatientID:       actor.PatientID(),
		DoctorID:        doctor.ID,
		AppointmentDate: date,
		AppointmentTime: at,
		Status:          models.StatusScheduled,
		Reason:          in.Reason,
	}

	release, err := s.lockSlot(ctx, appointment.SlotKey())
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.appointments.BookSlot(ctx, appointment); err != nil {
		return nil, err
	}
	log.Info().Uint("appointment_id", appointment.ID).Str("slot", appointment.SlotKey()).Msg("appointment booked")
	s.publish(ctx, messaging.EventAppointmentBooked, appointment, "", actor)
	return appointment, nil
}

func (s *AppointmentService) lockSlot(ctx context.Context, key string) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	release, acquired, err := s.locker.Lock(ctx, "slot:"+key)
	if err != nil {
		log.Warn().Err(err).Str("slot", key).Msg("slot lock unavailable, relying on the database index")
		return func() {}, nil
	}
	if !acquired {
		return nil, ErrSlotBusy
	}
	return release, nil
}

func (s *AppointmentService) load(ctx context.Context, id uint) (*models.Appointment, error) {
	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, ErrNotFound
	}
	return appointment, nil
}

// List returns the actor's appointments, newest first.
func (s *AppointmentService) List(ctx context.Context, actor Actor) ([]models.Appointment, error) {
	q := repositories.AppointmentQuery{}
	switch {
	case actor.IsDoctor():
		q.DoctorID = actor.DoctorID()
	case actor.IsPatient():
		q.PatientID = actor.PatientID()
	default:
		return nil, ErrProfileMissing
	}
	return s.appointments.Find(ctx, q)
}

func (s *AppointmentService) Get(ctx context.Context, actor Actor, id uint) (*models.Appointment, error) {
	appointment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.participates(appointment) {
		return nil, forbidden("You do not have permission to view this appointment.")
	}
	return appointment, nil
}

func (s *AppointmentService) Cancel(ctx context.Context, actor Actor, id uint) (*models.Appointment, error) {
	appointment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.participates(appointment) {
		return nil, forbidden("You do not have permission to cancel this appointment.")
	}
	if err := s.checkTransition(appointment.Status, models.StatusCancelled); err != nil {
		return nil, err
	}

	if err := s.appointments.UpdateStatus(ctx, appointment.ID, models.StatusCancelled, ""); err != nil {
		return nil, err
	}
	previous := appointment.Status
	appointment.Status = models.StatusCancelled
	s.publish(ctx, messaging.EventAppointmentCancelled, appointment, previous, actor)
	return appointment, nil
}

// Reschedule moves the appointment to a new slot and marks it rescheduled.
// Moving to the slot it already holds succeeds.
func (s *AppointmentService) Reschedule(ctx context.Context, actor Actor, id uint, in RescheduleInput) (*models.Appointment, error) {
	appointment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.participates(appointment) {
		return nil, forbidden("You do not have permission to reschedule this appointment.")
	}
	if err := s.checkTransition(appointment.Status, models.StatusRescheduled); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	date, err := models.ParseDate(in.Date)
	if err != nil {
		return nil, invalid(err.Error())
	}
	at, err := models.ParseClock(in.Time)
	if err != nil {
		return nil, invalid(err.Error())
	}

	release, err := s.lockSlot(ctx, models.SlotKey(appointment.DoctorID, date, at))
	if err != nil {
		return nil, err
	}
	defer release()

	previous := appointment.Status
	if err := s.appointments.MoveSlot(ctx, appointment, date, at); err != nil {
		return nil, err
	}
	s.publish(ctx, messaging.EventAppointmentRescheduled, appointment, previous, actor)
	return appointment, nil
}

// UpdateStatus lets the appointment's doctor set any known status the policy
// permits. Non-empty notes replace the stored notes.
func (s *AppointmentService) UpdateStatus(ctx context.Context, actor Actor, id uint, in StatusInput) (*models.Appointment, error) {
	if !actor.IsDoctor() {
		return nil, forbidden("Only doctors can update appointment status.")
	}
	appointment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.DoctorID != actor.DoctorID() {
		return nil, forbidden("You do not have permission to update this appointment.")
	}
	in.Status = strings.TrimSpace(in.Status)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkTransition(appointment.Status, in.Status); err != nil {
		return nil, err
	}

	notes := strings.TrimSpace(in.Notes)
	if err := s.appointments.UpdateStatus(ctx, appointment.ID, in.Status, notes); err != nil {
		return nil, err
	}
	previous := appointment.Status
	appointment.Status = in.Status
	if notes != "" {
		appointment.Notes = notes
	}
	s.publish(ctx, messaging.EventAppointmentStatusChanged, appointment, previous, actor)
	return appointment, nil
}

func (s *AppointmentService) checkTransition(from, to string) error {
	if !s.policy.Allows(from, to) {
		return &TransitionError{From: from, To: to}
	}
	return nil
}

func (s *AppointmentService) publish(ctx context.Context, routingKey string, appointment *models.Appointment, previous string, actor Actor) {
	if s.events == nil {
		return
	}
	event := messaging.NewAppointmentEvent(routingKey, messaging.AppointmentData{
		AppointmentID: appointment.ID,
		PatientID:     appointment.PatientID,
		DoctorID:      appointment.DoctorID,
		Date:          models.FormatDate(appointment.AppointmentDate),
		Time:          appointment.AppointmentTime.String(),
		OldStatus:     previous,
		NewStatus:     appointment.Status,
		ActorUserID:   actor.UserID(),
	})
	if err := s.events.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("event", routingKey).Uint("appointment_id", appointment.ID).Msg("failed to publish event")
	}
}
