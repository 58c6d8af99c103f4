package database

import (
	"CareClinic/models"
	"CareClinic/utils"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type seedAccount struct {
	user    models.User
	profile models.UserProfile
	doctor  *models.DoctorProfile
	patient *models.PatientProfile
}

// Seed fills an empty database with demo accounts and a little history.
// Running it again leaves existing rows alone, except that the admin password
// and flags are reset.
func Seed(db *gorm.DB, now time.Time) error {
	return db.Transaction(func(tx *gorm.DB) error {
		admin := models.User{Username: "admin", Email: "admin@example.com", FirstName: "Admin", LastName: "User"}
		if err := tx.Where(models.User{Username: admin.Username}).FirstOrCreate(&admin).Error; err != nil {
			return errors.Wrap(err, "failed to seed admin")
		}
		hashed, err := utils.HashPassword("admin123")
		if err != nil {
			return err
		}
		err = tx.Model(&admin).Updates(map[string]interface{}{
			"password": hashed, "is_staff": true, "is_superuser": true, "is_active": true,
		}).Error
		if err != nil {
			return errors.Wrap(err, "failed to update admin")
		}

		smith, err := seedUser(tx, seedAccount{
			user:    models.User{Username: "drsmith", Email: "drsmith@example.com", FirstName: "John", LastName: "Smith"},
			profile: models.UserProfile{UserType: models.UserTypeDoctor, PhoneNumber: "+1234567890", Address: "123 Medical Center, Healthcare City"},
			doctor: &models.DoctorProfile{
				Specialization: "General Physician", Qualification: "MD, MBBS", LicenseNumber: "DOC12345",
				ExperienceYears: 10, ConsultationFee: 100, Available: true,
				Bio: "Experienced general physician with 10 years of practice.",
			},
		}, "doctor123")
		if err != nil {
			return err
		}
		johnson, err := seedUser(tx, seedAccount{
			user:    models.User{Username: "drjohnson", Email: "drjohnson@example.com", FirstName: "Emily", LastName: "Johnson"},
			profile: models.UserProfile{UserType: models.UserTypeDoctor, PhoneNumber: "+1234567891"},
			doctor: &models.DoctorProfile{
				Specialization: "Cardiologist", Qualification: "MD, DM Cardiology", LicenseNumber: "DOC67890",
				ExperienceYears: 15, ConsultationFee: 150, Available: true,
			},
		}, "doctor123")
		if err != nil {
			return err
		}
		alice, err := seedUser(tx, seedAccount{
			user:    models.User{Username: "patient1", Email: "patient1@example.com", FirstName: "Alice", LastName: "Brown"},
			profile: models.UserProfile{UserType: models.UserTypePatient, PhoneNumber: "+1987654321", Address: "456 Residential Area, City"},
			patient: &models.PatientProfile{
				BloodGroup: "A+", EmergencyContact: "+1987654322", EmergencyContactName: "Bob Brown",
				Allergies: "Penicillin", ChronicConditions: "None",
			},
		}, "patient123")
		if err != nil {
			return err
		}
		charlie, err := seedUser(tx, seedAccount{
			user:    models.User{Username: "patient2", Email: "patient2@example.com", FirstName: "Charlie", LastName: "Davis"},
			profile: models.UserProfile{UserType: models.UserTypePatient, PhoneNumber: "+1987654323"},
			patient: &models.PatientProfile{BloodGroup: "O+", EmergencyContact: "+1987654324", EmergencyContactName: "Diana Davis"},
		}, "patient123")
		if err != nil {
			return err
		}

		for day := 0; day < 5; day++ {
			window := models.DoctorAvailability{
				DoctorID: smith.doctor.ID, DayOfWeek: day, StartTime: clock(9),
				EndTime: clock(17), IsAvailable: true,
			}
			err := tx.Where("doctor_id = ? AND day_of_week = ? AND start_time = ?", window.DoctorID, day, window.StartTime).
				FirstOrCreate(&window).Error
			if err != nil {
				return errors.Wrap(err, "failed to seed availability")
			}
		}

		past := models.Appointment{
			PatientID: alice.patient.ID, DoctorID: smith.doctor.ID,
			AppointmentDate: dayOffset(now, -7), AppointmentTime: clock(10),
			Status: models.StatusCompleted, Reason: "Regular checkup and flu symptoms", Notes: "Patient recovered well",
		}
		upcoming := []models.Appointment{
			{
				PatientID: alice.patient.ID, DoctorID: smith.doctor.ID,
				AppointmentDate: dayOffset(now, 3), AppointmentTime: clock(14),
				Status: models.StatusConfirmed, Reason: "Follow-up consultation",
			},
			{
				PatientID: charlie.patient.ID, DoctorID: johnson.doctor.ID,
				AppointmentDate: dayOffset(now, 5), AppointmentTime: clock(11),
				Status: models.StatusScheduled, Reason: "Heart checkup",
			},
		}
		for _, appt := range append([]*models.Appointment{&past}, &upcoming[0], &upcoming[1]) {
			err := tx.Where(models.Appointment{
				PatientID: appt.PatientID, DoctorID: appt.DoctorID,
				AppointmentDate: appt.AppointmentDate, AppointmentTime: appt.AppointmentTime,
			}).FirstOrCreate(appt).Error
			if err != nil {
				return errors.Wrap(err, "failed to seed appointment")
			}
		}

		record := models.MedicalRecord{
			PatientID: alice.patient.ID, DoctorID: &smith.doctor.ID, AppointmentID: &past.ID,
			Diagnosis:    "Common cold with mild fever",
			Symptoms:     "Cough, runny nose, mild fever (100°F)",
			Prescription: "Paracetamol 500mg - 3 times daily for 3 days\nRest and plenty of fluids",
			LabResults:   "No lab tests required",
			Notes:        "Patient advised to return if symptoms persist after 3 days",
			RecordDate:   past.AppointmentDate,
		}
		if err := tx.Where("appointment_id = ?", past.ID).FirstOrCreate(&record).Error; err != nil {
			return errors.Wrap(err, "failed to seed medical record")
		}

		note := models.ConsultationNote{
			AppointmentID: past.ID, DoctorID: smith.doctor.ID, PatientID: alice.patient.ID,
			ChiefComplaint: "Flu-like symptoms for 2 days",
			History:        "No prior medical history. No allergies except Penicillin.",
			Examination:    "Temperature: 100°F, BP: 120/80, Throat: Slightly red",
			Diagnosis:      "Viral upper respiratory tract infection",
			TreatmentPlan:  "Symptomatic treatment with antipyretics and rest",
			FollowUp:       "Follow up if symptoms worsen or persist beyond 5 days",
		}
		if err := tx.Where("appointment_id = ?", past.ID).FirstOrCreate(&note).Error; err != nil {
			return errors.Wrap(err, "failed to seed consultation note")
		}

		report := models.Report{
			PatientID: alice.patient.ID, DoctorID: &smith.doctor.ID, MedicalRecordID: &record.ID,
			ReportType: models.ReportConsultation,
			Title:      "Consultation Summary - Common Cold",
			Content: fmt.Sprintf("Patient: Alice Brown\nDate: %s\nDoctor: Dr. John Smith\n\n"+
				"Chief Complaint: Flu-like symptoms\nDiagnosis: Viral upper respiratory tract infection\n\n"+
				"Treatment:\n- Paracetamol 500mg TDS for 3 days\n- Rest and hydration\n\n"+
				"Follow-up: As needed if symptoms persist", models.FormatDate(past.AppointmentDate)),
		}
		if err := tx.Where("medical_record_id = ?", record.ID).FirstOrCreate(&report).Error; err != nil {
			return errors.Wrap(err, "failed to seed report")
		}

		log.Info().Msg("sample data is in place")
		return nil
	})
}

// seedUser finds or creates the account with its profiles. The password is
// only set on creation.
func seedUser(tx *gorm.DB, account seedAccount, password string) (*seedAccount, error) {
	user := account.user
	if err := tx.Where(models.User{Username: user.Username}).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(err, "failed to look up %s", user.Username)
		}
		hashed, err := utils.HashPassword(password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
		user.IsActive = true
		if err := tx.Create(&user).Error; err != nil {
			return nil, errors.Wrapf(err, "failed to create %s", user.Username)
		}
		log.Info().Str("username", user.Username).Msg("seeded user")
	}

	profile := account.profile
	profile.UserID = user.ID
	profile.EmailNotifications = true
	profile.SmsNotifications = true
	if err := tx.Where(models.UserProfile{UserID: user.ID}).FirstOrCreate(&profile).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to seed profile of %s", user.Username)
	}

	out := &seedAccount{user: user, profile: profile}
	if account.doctor != nil {
		doctor := *account.doctor
		doctor.UserProfileID = profile.ID
		if err := tx.Where(models.DoctorProfile{UserProfileID: profile.ID}).FirstOrCreate(&doctor).Error; err != nil {
			return nil, errors.Wrapf(err, "failed to seed doctor %s", user.Username)
		}
		out.doctor = &doctor
	}
	if account.patient != nil {
		patient := *account.patient
		patient.UserProfileID = profile.ID
		if err := tx.Where(models.PatientProfile{UserProfileID: profile.ID}).FirstOrCreate(&patient).Error; err != nil {
			return nil, errors.Wrapf(err, "failed to seed patient %s", user.Username)
		}
		out.patient = &patient
	}
	return out, nil
}

func clock(hour int) datatypes.Time {
	return datatypes.NewTime(hour, 0, 0, 0)
}

func dayOffset(now time.Time, days int) datatypes.Date {
	d := now.AddDate(0, 0, days)
	return datatypes.Date(time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC))
}
