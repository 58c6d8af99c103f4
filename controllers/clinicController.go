package controllers

import (
	"CareClinic/handlers"

	"github.com/gin-gonic/gin"
)

// ClinicHandlers groups the handlers behind the clinic routes.
type ClinicHandlers struct {
	Appointments  *handlers.AppointmentHandler
	Availability  *handlers.AvailabilityHandler
	Consultations *handlers.ConsultationHandler
	Reports       *handlers.ReportHandler
	Dashboards    *handlers.DashboardHandler
	Settings      *handlers.SettingsHandler
}

// SetupClinicRoutes registers every route that needs a doctor or patient
// profile. withProfile runs before each of them.
func SetupClinicRoutes(router *gin.Engine, h ClinicHandlers, withProfile ...gin.HandlerFunc) {
	appointments := router.Group("/appointments", withProfile...)
	{
		appointments.GET("/", h.Appointments.List)
		appointments.GET("/doctors/", h.Appointments.Doctors)
		appointments.GET("/book/", h.Appointments.BookForm)
		appointments.POST("/book/", h.Appointments.Book)
		appointments.GET("/:id/", h.Appointments.Detail)
		appointments.POST("/:id/cancel/", h.Appointments.Cancel)
		appointments.POST("/:id/reschedule/", h.Appointments.Reschedule)
		appointments.POST("/:id/update-status/", h.Appointments.UpdateStatus)

		appointments.POST("/availability/", h.Availability.Create)
		appointments.GET("/availability/:id/", h.Availability.List)
		appointments.POST("/availability/:id/delete/", h.Availability.Delete)
	}

	consultation := router.Group("/consultation", withProfile...)
	{
		consultation.GET("/notes/", h.Consultations.ListNotes)
		consultation.GET("/notes/:id/", h.Consultations.NoteDetail)
		consultation.GET("/notes/create/:id/", h.Consultations.NoteForm)
		consultation.POST("/notes/create/:id/", h.Consultations.CreateNote)
		consultation.GET("/chat/:id/", h.Consultations.Chat)
		consultation.POST("/chat/:id/", h.Consultations.PostMessage)
		consultation.GET("/video/:id/", h.Consultations.Video)
		consultation.POST("/video/:id/start/", h.Consultations.StartVideo)
		consultation.POST("/video/:id/end/", h.Consultations.EndVideo)
	}

	reports := router.Group("/reports", withProfile...)
	{
		reports.GET("/", h.Reports.ListReports)
		reports.GET("/generate/", h.Reports.PatientsForm)
		reports.POST("/generate/", h.Reports.GenerateReport)
		reports.GET("/:id/", h.Reports.ReportDetail)
		reports.GET("/:id/export-pdf/", h.Reports.ExportPDF)
		reports.GET("/:id/export-csv/", h.Reports.ExportCSV)
		reports.GET("/medical-records/", h.Reports.ListMedicalRecords)
		reports.GET("/medical-records/create/", h.Reports.PatientsForm)
		reports.POST("/medical-records/create/", h.Reports.CreateMedicalRecord)
		reports.GET("/medical-records/:id/", h.Reports.MedicalRecordDetail)
	}

	dashboards := router.Group("/dashboard", withProfile...)
	{
		dashboards.GET("/doctor/", h.Dashboards.Doctor)
		dashboards.GET("/patient/", h.Dashboards.Patient)
	}

	settings := router.Group("/settings", withProfile...)
	{
		settings.GET("/user/", h.Settings.UserSettings)
		settings.POST("/user/", h.Settings.UpdateUserSettings)
		settings.GET("/change-password/", h.Settings.ChangePasswordForm)
		settings.POST("/change-password/", h.Settings.ChangePassword)
	}
}
