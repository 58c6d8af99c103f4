package database

import (
	"CareClinic/models"
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// activeSlotIndex keeps at most one scheduled or confirmed appointment per
// doctor, date and time. Completed, cancelled and rescheduled rows do not
// hold the slot.
const activeSlotIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_appointment_active_slot
	ON appointment (doctor_id, appointment_date, appointment_time)
	WHERE status IN ('scheduled', 'confirmed')`

// InitDB opens the database connection and configures it.
func InitDB(ctx context.Context, dsn string, development bool) (*gorm.DB, error) {
	logMode := logger.Silent
	if development {
		logMode = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: false,
		PrepareStmt:                              true,
		TranslateError:                           true,
		Logger:                                   logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database connection")
	}

	if err := configureConnectionPool(db); err != nil {
		return nil, err
	}

	if err := testDatabaseConnection(ctx, db); err != nil {
		return nil, err
	}

	log.Info().Msg("database connection initialized")
	return db, nil
}

// configureConnectionPool sets up the connection pool settings for the database.
func configureConnectionPool(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB from GORM")
	}
	sqlDB.SetMaxOpenConns(40)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
	return nil
}

func testDatabaseConnection(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB from GORM")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errors.Wrap(err, "failed to ping database")
	}
	return nil
}

// Migrate performs the schema migrations and seeds the system settings.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.DoctorProfile{},
		&models.PatientProfile{},
		&models.DoctorAvailability{},
		&models.Appointment{},
		&models.ConsultationNote{},
		&models.ChatMessage{},
		&models.VideoSession{},
		&models.MedicalRecord{},
		&models.Report{},
		&models.UserSettings{},
		&models.SystemSetting{},
	)
	if err != nil {
		return errors.Wrap(err, "failed to migrate schema")
	}
	if err := db.Exec(activeSlotIndex).Error; err != nil {
		return errors.Wrap(err, "failed to create active slot index")
	}
	if err := models.SeedSystemSettings(db); err != nil {
		return errors.Wrap(err, "failed to seed system settings")
	}
	log.Info().Msg("database schema is up to date")
	return nil
}

// Stats is a snapshot of the connection pool used by the health endpoint.
func Stats(db *gorm.DB) (map[string]int, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sql.DB from GORM")
	}
	s := sqlDB.Stats()
	return map[string]int{
		"open":     s.OpenConnections,
		"in_use":   s.InUse,
		"idle":     s.Idle,
		"max_open": s.MaxOpenConnections,
	}, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close database")
	}
}
