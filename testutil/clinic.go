// Package testutil holds in-memory stand-ins for the repositories and the
// outside services, shared by the service and handler tests.
package testutil

import (
	"CareClinic/models"
	"sort"
	"sync"
	"time"

	"gorm.io/datatypes"
)

// Clinic is one in-memory data set. The repository views below all read and
// write the same maps, so a note created through Consultations completes the
// appointment seen through Appointments.
type Clinic struct {
	mu sync.Mutex

	users      map[uint]*models.User
	profiles   map[uint]*models.UserProfile
	doctors    map[uint]*models.DoctorProfile
	patients   map[uint]*models.PatientProfile
	appts      map[uint]*models.Appointment
	windows    map[uint]*models.DoctorAvailability
	notes      map[uint]*models.ConsultationNote
	messages   []*models.ChatMessage
	videos     map[uint]*models.VideoSession
	records    map[uint]*models.MedicalRecord
	reports    map[uint]*models.Report
	uSettings  map[uint]*models.UserSettings
	sSettings  map[uint]*models.SystemSetting
	nextID     uint
	cacheDrops int

	// Err, when set, is returned by every repository call.
	Err error
}

func NewClinic() *Clinic {
	return &Clinic{
		users:     map[uint]*models.User{},
		profiles:  map[uint]*models.UserProfile{},
		doctors:   map[uint]*models.DoctorProfile{},
		patients:  map[uint]*models.PatientProfile{},
		appts:     map[uint]*models.Appointment{},
		windows:   map[uint]*models.DoctorAvailability{},
		notes:     map[uint]*models.ConsultationNote{},
		videos:    map[uint]*models.VideoSession{},
		records:   map[uint]*models.MedicalRecord{},
		reports:   map[uint]*models.Report{},
		uSettings: map[uint]*models.UserSettings{},
		sSettings: map[uint]*models.SystemSetting{},
	}
}

func (c *Clinic) id() uint {
	c.nextID++
	return c.nextID
}

// AddDoctor stores a doctor account and returns its loaded profile.
func (c *Clinic) AddDoctor(username, first, last string) *models.UserProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	user := &models.User{ID: c.id(), Username: username, Email: username + "@example.com", FirstName: first, LastName: last, IsActive: true}
	profile := &models.UserProfile{ID: c.id(), UserID: user.ID, UserType: models.UserTypeDoctor}
	doctor := &models.DoctorProfile{ID: c.id(), UserProfileID: profile.ID, Specialization: "General", LicenseNumber: "LIC-" + username, Available: true}
	c.users[user.ID] = user
	c.profiles[profile.ID] = profile
	c.doctors[doctor.ID] = doctor
	return c.loadedProfile(profile)
}

// AddPatient stores a patient account and returns its loaded profile.
func (c *Clinic) AddPatient(username, first, last string) *models.UserProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	user := &models.User{ID: c.id(), Username: username, Email: username + "@example.com", FirstName: first, LastName: last, IsActive: true}
	profile := &models.UserProfile{ID: c.id(), UserID: user.ID, UserType: models.UserTypePatient}
	patient := &models.PatientProfile{ID: c.id(), UserProfileID: profile.ID}
	c.users[user.ID] = user
	c.profiles[profile.ID] = profile
	c.patients[patient.ID] = patient
	return c.loadedProfile(profile)
}

// AddUser stores an account without any profile.
func (c *Clinic) AddUser(user models.User) *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	user.ID = c.id()
	c.users[user.ID] = &user
	out := user
	return &out
}

// User returns a copy of the stored account.
func (c *Clinic) User(id uint) *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if u, ok := c.users[id]; ok {
		out := *u
		return &out
	}
	return nil
}

// AddAppointment stores appt as is and returns its id.
func (c *Clinic) AddAppointment(appt models.Appointment) uint {
	c.mu.Lock()
	defer c.mu.Unlock()
	appt.ID = c.id()
	c.appts[appt.ID] = &appt
	return appt.ID
}

func (c *Clinic) Appointment(id uint) *models.Appointment {
	c.mu.Lock()
	defer c.mu.Unlock()
	if a, ok := c.appts[id]; ok {
		out := *a
		return &out
	}
	return nil
}

func (c *Clinic) AddMessage(msg models.ChatMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg.ID = c.id()
	c.messages = append(c.messages, &msg)
}

func (c *Clinic) AddSystemSetting(key, value string) uint {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := &models.SystemSetting{ID: c.id(), SettingKey: key, SettingValue: value}
	c.sSettings[s.ID] = s
	return s.ID
}

func (c *Clinic) SystemSetting(id uint) *models.SystemSetting {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.sSettings[id]; ok {
		out := *s
		return &out
	}
	return nil
}

// CacheDrops counts DeleteAllCache calls on the doctor repository.
func (c *Clinic) CacheDrops() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cacheDrops
}

// loadedProfile copies profile with its user and role profile attached.
func (c *Clinic) loadedProfile(profile *models.UserProfile) *models.UserProfile {
	out := *profile
	if u, ok := c.users[profile.UserID]; ok {
		user := *u
		out.User = &user
	}
	for _, d := range c.doctors {
		if d.UserProfileID == profile.ID {
			doctor := *d
			out.Doctor = &doctor
		}
	}
	for _, p := range c.patients {
		if p.UserProfileID == profile.ID {
			patient := *p
			out.Patient = &patient
		}
	}
	return &out
}

func (c *Clinic) doctorView(id uint) *models.DoctorProfile {
	d, ok := c.doctors[id]
	if !ok {
		return nil
	}
	out := *d
	if p, ok := c.profiles[d.UserProfileID]; ok {
		profile := *p
		if u, ok := c.users[p.UserID]; ok {
			user := *u
			profile.User = &user
		}
		out.UserProfile = &profile
	}
	return &out
}

func (c *Clinic) patientView(id uint) *models.PatientProfile {
	pt, ok := c.patients[id]
	if !ok {
		return nil
	}
	out := *pt
	if p, ok := c.profiles[pt.UserProfileID]; ok {
		profile := *p
		if u, ok := c.users[p.UserID]; ok {
			user := *u
			profile.User = &user
		}
		out.UserProfile = &profile
	}
	return &out
}

func (c *Clinic) appointmentView(a *models.Appointment) models.Appointment {
	out := *a
	out.Doctor = c.doctorView(a.DoctorID)
	out.Patient = c.patientView(a.PatientID)
	return out
}

func dayOf(d datatypes.Date) time.Time {
	t := time.Time(d)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sortByID[T any](items []T, id func(T) uint) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}
