package testutil

import (
	"CareClinic/models"
	"CareClinic/repositories"
	"context"
	"sort"
	"time"
)

var (
	_ repositories.ConsultationRepository = (*ConsultationRepo)(nil)
	_ repositories.RecordRepository       = (*RecordRepo)(nil)
)

type ConsultationRepo struct{ c *Clinic }

func (c *Clinic) Consultations() *ConsultationRepo { return &ConsultationRepo{c: c} }

func (r *ConsultationRepo) CreateNote(ctx context.Context, note *models.ConsultationNote) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if r.c.Err != nil {
		return r.c.Err
	}
	note.ID = r.c.id()
	note.CreatedAt = time.Now()
	stored := *note
	r.c.notes[stored.ID] = &stored
	if a, ok := r.c.appts[note.AppointmentID]; ok {
		a.Status = models.StatusCompleted
	}
	return nil
}

func (r *ConsultationRepo) GetNote(ctx context.Context, id uint) (*models.ConsultationNote, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	n, ok := r.c.notes[id]
	if !ok {
		return nil, nil
	}
	out := *n
	out.Doctor = r.c.doctorView(n.DoctorID)
	out.Patient = r.c.patientView(n.PatientID)
	return &out, nil
}

func (r *ConsultationRepo) ListNotes(ctx context.Context, q repositories.NoteQuery) ([]models.ConsultationNote, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	var out []models.ConsultationNote
	for _, n := range r.c.notes {
		if (q.DoctorID == 0 || n.DoctorID == q.DoctorID) && (q.PatientID == 0 || n.PatientID == q.PatientID) {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *ConsultationRepo) MarkRead(ctx context.Context, appointmentID, viewerID uint) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	for _, m := range r.c.messages {
		if m.AppointmentID == appointmentID && m.SenderID != viewerID {
			m.IsRead = true
		}
	}
	return nil
}

func (r *ConsultationRepo) ListMessages(ctx context.Context, appointmentID uint) ([]models.ChatMessage, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	var out []models.ChatMessage
	for _, m := range r.c.messages {
		if m.AppointmentID == appointmentID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *ConsultationRepo) CreateMessage(ctx context.Context, message *models.ChatMessage) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	message.ID = r.c.id()
	message.Timestamp = time.Now()
	stored := *message
	r.c.messages = append(r.c.messages, &stored)
	return nil
}

func (r *ConsultationRepo) GetOrCreateVideo(ctx context.Context, appointmentID uint, sessionID string) (*models.VideoSession, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if v, ok := r.c.videos[appointmentID]; ok {
		out := *v
		return &out, nil
	}
	v := &models.VideoSession{ID: r.c.id(), AppointmentID: appointmentID, SessionID: sessionID, Status: models.VideoScheduled}
	r.c.videos[appointmentID] = v
	out := *v
	return &out, nil
}

func (r *ConsultationRepo) GetVideo(ctx context.Context, appointmentID uint) (*models.VideoSession, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if v, ok := r.c.videos[appointmentID]; ok {
		out := *v
		return &out, nil
	}
	return nil, nil
}

func (r *ConsultationRepo) SaveVideo(ctx context.Context, session *models.VideoSession) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	stored := *session
	r.c.videos[session.AppointmentID] = &stored
	return nil
}

// Messages returns the stored conversation of an appointment.
func (c *Clinic) Messages(appointmentID uint) []models.ChatMessage {
	out, _ := c.Consultations().ListMessages(context.Background(), appointmentID)
	return out
}

type RecordRepo struct{ c *Clinic }

func (c *Clinic) Records() *RecordRepo { return &RecordRepo{c: c} }

func (r *RecordRepo) CreateMedicalRecord(ctx context.Context, record *models.MedicalRecord) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	record.ID = r.c.id()
	record.CreatedAt = time.Now()
	stored := *record
	r.c.records[stored.ID] = &stored
	return nil
}

func (r *RecordRepo) GetMedicalRecord(ctx context.Context, id uint) (*models.MedicalRecord, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	rec, ok := r.c.records[id]
	if !ok {
		return nil, nil
	}
	out := *rec
	out.Patient = r.c.patientView(rec.PatientID)
	if rec.DoctorID != nil {
		out.Doctor = r.c.doctorView(*rec.DoctorID)
	}
	return &out, nil
}

func scoped(patientID uint, doctorID *uint, q repositories.RecordQuery) bool {
	if q.PatientID != 0 && patientID != q.PatientID {
		return false
	}
	if q.DoctorID != 0 && (doctorID == nil || *doctorID != q.DoctorID) {
		return false
	}
	return true
}

func (r *RecordRepo) ListMedicalRecords(ctx context.Context, q repositories.RecordQuery) ([]models.MedicalRecord, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	var out []models.MedicalRecord
	for _, rec := range r.c.records {
		if scoped(rec.PatientID, rec.DoctorID, q) {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *RecordRepo) CreateReport(ctx context.Context, report *models.Report) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	report.ID = r.c.id()
	report.CreatedAt = time.Now()
	stored := *report
	r.c.reports[stored.ID] = &stored
	return nil
}

func (r *RecordRepo) GetReport(ctx context.Context, id uint) (*models.Report, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	rep, ok := r.c.reports[id]
	if !ok {
		return nil, nil
	}
	out := *rep
	out.Patient = r.c.patientView(rep.PatientID)
	if rep.DoctorID != nil {
		out.Doctor = r.c.doctorView(*rep.DoctorID)
	}
	return &out, nil
}

func (r *RecordRepo) ListReports(ctx context.Context, q repositories.RecordQuery) ([]models.Report, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	var out []models.Report
	for _, rep := range r.c.reports {
		if scoped(rep.PatientID, rep.DoctorID, q) {
			out = append(out, *rep)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}
