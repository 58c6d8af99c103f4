package testutil

import (
	"CareClinic/models"
	"CareClinic/repositories"
	"context"
	"sort"

	"gorm.io/datatypes"
)

var (
	_ repositories.AppointmentRepository  = (*AppointmentRepo)(nil)
	_ repositories.AvailabilityRepository = (*AvailabilityRepo)(nil)
	_ repositories.DoctorRepository       = (*DoctorRepo)(nil)
	_ repositories.PatientRepository      = (*PatientRepo)(nil)
)

// AppointmentRepo mimics the active slot index: at most one scheduled or
// confirmed appointment per doctor, date and time.
type AppointmentRepo struct{ c *Clinic }

func (c *Clinic) Appointments() *AppointmentRepo { return &AppointmentRepo{c: c} }

func (r *AppointmentRepo) taken(doctorID uint, date datatypes.Date, at datatypes.Time, excludeID uint) bool {
	for _, a := range r.c.appts {
		if a.ID != excludeID && a.DoctorID == doctorID && models.SameDate(a.AppointmentDate, date) &&
			a.AppointmentTime == at && a.IsActive() {
			return true
		}
	}
	return false
}

func (r *AppointmentRepo) BookSlot(ctx context.Context, appointment *models.Appointment) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if r.c.Err != nil {
		return r.c.Err
	}
	if appointment.IsActive() && r.taken(appointment.DoctorID, appointment.AppointmentDate, appointment.AppointmentTime, 0) {
		return repositories.ErrSlotTaken
	}
	appointment.ID = r.c.id()
	stored := *appointment
	stored.Doctor, stored.Patient = nil, nil
	r.c.appts[stored.ID] = &stored
	return nil
}

func (r *AppointmentRepo) MoveSlot(ctx context.Context, appointment *models.Appointment, date datatypes.Date, at datatypes.Time) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if r.c.Err != nil {
		return r.c.Err
	}
	if r.taken(appointment.DoctorID, date, at, appointment.ID) {
		return repositories.ErrSlotTaken
	}
	if stored, ok := r.c.appts[appointment.ID]; ok {
		stored.AppointmentDate = date
		stored.AppointmentTime = at
		stored.Status = models.StatusRescheduled
	}
	appointment.AppointmentDate = date
	appointment.AppointmentTime = at
	appointment.Status = models.StatusRescheduled
	return nil
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id uint) (*models.Appointment, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if r.c.Err != nil {
		return nil, r.c.Err
	}
	a, ok := r.c.appts[id]
	if !ok {
		return nil, nil
	}
	out := r.c.appointmentView(a)
	return &out, nil
}

func (r *AppointmentRepo) matches(a *models.Appointment, q repositories.AppointmentQuery) bool {
	if q.DoctorID != 0 && a.DoctorID != q.DoctorID {
		return false
	}
	if q.PatientID != 0 && a.PatientID != q.PatientID {
		return false
	}
	if q.FromDate != nil && dayOf(a.AppointmentDate).Before(dayOf(*q.FromDate)) {
		return false
	}
	if q.OnDate != nil && !models.SameDate(a.AppointmentDate, *q.OnDate) {
		return false
	}
	if len(q.Statuses) > 0 {
		found := false
		for _, s := range q.Statuses {
			if a.Status == s {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (r *AppointmentRepo) Find(ctx context.Context, q repositories.AppointmentQuery) ([]models.Appointment, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if r.c.Err != nil {
		return nil, r.c.Err
	}
	var out []models.Appointment
	for _, a := range r.c.appts {
		if r.matches(a, q) {
			out = append(out, r.c.appointmentView(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := dayOf(out[i].AppointmentDate), dayOf(out[j].AppointmentDate)
		before := di.Before(dj) || (di.Equal(dj) && out[i].AppointmentTime < out[j].AppointmentTime)
		if q.Ascending {
			return before
		}
		return !before && !(di.Equal(dj) && out[i].AppointmentTime == out[j].AppointmentTime)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *AppointmentRepo) Count(ctx context.Context, q repositories.AppointmentQuery) (int64, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if r.c.Err != nil {
		return 0, r.c.Err
	}
	var n int64
	for _, a := range r.c.appts {
		if r.matches(a, q) {
			n++
		}
	}
	return n, nil
}

func (r *AppointmentRepo) CountDistinctPatients(ctx context.Context, doctorID uint) (int64, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if r.c.Err != nil {
		return 0, r.c.Err
	}
	seen := map[uint]bool{}
	for _, a := range r.c.appts {
		if a.DoctorID == doctorID {
			seen[a.PatientID] = true
		}
	}
	return int64(len(seen)), nil
}

func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id uint, status, notes string) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if r.c.Err != nil {
		return r.c.Err
	}
	a, ok := r.c.appts[id]
	if !ok {
		return nil
	}
	if models.IsActiveStatus(status) && r.taken(a.DoctorID, a.AppointmentDate, a.AppointmentTime, a.ID) {
		return repositories.ErrSlotTaken
	}
	a.Status = status
	if notes != "" {
		a.Notes = notes
	}
	return nil
}

type AvailabilityRepo struct{ c *Clinic }

func (c *Clinic) Availability() *AvailabilityRepo { return &AvailabilityRepo{c: c} }

func (r *AvailabilityRepo) ListForDoctor(ctx context.Context, doctorID uint) ([]models.DoctorAvailability, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	var out []models.DoctorAvailability
	for _, w := range r.c.windows {
		if w.DoctorID == doctorID {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (r *AvailabilityRepo) GetByID(ctx context.Context, id uint) (*models.DoctorAvailability, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if w, ok := r.c.windows[id]; ok {
		out := *w
		return &out, nil
	}
	return nil, nil
}

func (r *AvailabilityRepo) Create(ctx context.Context, window *models.DoctorAvailability) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	for _, w := range r.c.windows {
		if w.DoctorID == window.DoctorID && w.DayOfWeek == window.DayOfWeek && w.StartTime == window.StartTime {
			return repositories.ErrWindowExists
		}
	}
	window.ID = r.c.id()
	stored := *window
	r.c.windows[stored.ID] = &stored
	return nil
}

func (r *AvailabilityRepo) Delete(ctx context.Context, id uint) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	delete(r.c.windows, id)
	return nil
}

type DoctorRepo struct{ c *Clinic }

func (c *Clinic) Doctors() *DoctorRepo { return &DoctorRepo{c: c} }

func (r *DoctorRepo) ListAvailable(ctx context.Context) ([]models.DoctorProfile, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	var out []models.DoctorProfile
	for id, d := range r.c.doctors {
		if d.Available {
			out = append(out, *r.c.doctorView(id))
		}
	}
	sortByID(out, func(d models.DoctorProfile) uint { return d.ID })
	return out, nil
}

func (r *DoctorRepo) GetByID(ctx context.Context, id uint) (*models.DoctorProfile, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	return r.c.doctorView(id), nil
}

func (r *DoctorRepo) SetAvailable(ctx context.Context, id uint, available bool) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if d, ok := r.c.doctors[id]; ok {
		d.Available = available
	}
	return nil
}

func (r *DoctorRepo) DeleteAllCache(ctx context.Context) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	r.c.cacheDrops++
	return nil
}

type PatientRepo struct{ c *Clinic }

func (c *Clinic) Patients() *PatientRepo { return &PatientRepo{c: c} }

func (r *PatientRepo) GetByID(ctx context.Context, id uint) (*models.PatientProfile, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	return r.c.patientView(id), nil
}

func (r *PatientRepo) GetAll(ctx context.Context) ([]models.PatientProfile, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	var out []models.PatientProfile
	for id := range r.c.patients {
		out = append(out, *r.c.patientView(id))
	}
	sortByID(out, func(p models.PatientProfile) uint { return p.ID })
	return out, nil
}
