package handlers

import (
	"CareClinic/middlewares"
	"CareClinic/models"
	"CareClinic/services"
	"CareClinic/utils"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	createRecordPath   = "/reports/medical-records/create/"
	generateReportPath = "/reports/generate/"
)

type ReportHandler struct {
	service *services.RecordService
}

func NewReportHandler(service *services.RecordService) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) ListMedicalRecords(c *gin.Context) {
	records, err := h.service.ListMedicalRecords(c.Request.Context(), middlewares.ActorFromContext(c))
	if err != nil {
		failView(c, err)
		return
	}
	render(c, gin.H{"records": records})
}

func (h *ReportHandler) MedicalRecordDetail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	record, err := h.service.GetMedicalRecord(c.Request.Context(), middlewares.ActorFromContext(c), id)
	if err != nil {
		failView(c, err)
		return
	}
	render(c, gin.H{"record": record})
}

// PatientsForm backs both doctor forms, which only need the patient list.
func (h *ReportHandler) PatientsForm(c *gin.Context) {
	patients, err := h.service.Patients(c.Request.Context(), middlewares.ActorFromContext(c))
	if err != nil {
		failView(c, err)
		return
	}
	render(c, gin.H{"patients": patients, "report_types": models.ReportTypes})
}

func (h *ReportHandler) CreateMedicalRecord(c *gin.Context) {
	var in services.MedicalRecordInput
	if err := c.ShouldBind(&in); err != nil {
		redirectWithFlash(c, createRecordPath, utils.FlashError, "Invalid medical record form.")
		return
	}
	record, err := h.service.CreateMedicalRecord(c.Request.Context(), middlewares.ActorFromContext(c), in)
	if err != nil {
		fail(c, err, createRecordPath)
		return
	}
	redirectWithFlash(c, fmt.Sprintf("/reports/medical-records/%d/", record.ID), utils.FlashSuccess, "Medical record created successfully.")
}

func (h *ReportHandler) ListReports(c *gin.Context) {
	reports, err := h.service.ListReports(c.Request.Context(), middlewares.ActorFromContext(c))
	if err != nil {
		failView(c, err)
		return
	}
	render(c, gin.H{"reports": reports})
}

func (h *ReportHandler) ReportDetail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	report, err := h.service.GetReport(c.Request.Context(), middlewares.ActorFromContext(c), id)
	if err != nil {
		failView(c, err)
		return
	}
	render(c, gin.H{"report": report})
}

func (h *ReportHandler) GenerateReport(c *gin.Context) {
	var in services.ReportInput
	if err := c.ShouldBind(&in); err != nil {
		redirectWithFlash(c, generateReportPath, utils.FlashError, "Invalid report form.")
		return
	}
	report, err := h.service.GenerateReport(c.Request.Context(), middlewares.ActorFromContext(c), in)
	if err != nil {
		fail(c, err, generateReportPath)
		return
	}
	redirectWithFlash(c, fmt.Sprintf("/reports/%d/", report.ID), utils.FlashSuccess, "Report generated successfully.")
}

func (h *ReportHandler) ExportPDF(c *gin.Context) {
	h.export(c, "application/pdf", services.PDFFilename, services.RenderReportPDF)
}

func (h *ReportHandler) ExportCSV(c *gin.Context) {
	h.export(c, "text/csv", services.CSVFilename, services.RenderReportCSV)
}

func (h *ReportHandler) export(c *gin.Context, contentType string, filename func(*models.Report) string, renderFn func(*models.Report) ([]byte, error)) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	report, err := h.service.ReportForExport(c.Request.Context(), middlewares.ActorFromContext(c), id)
	if err != nil {
		failView(c, err)
		return
	}
	body, err := renderFn(report)
	if err != nil {
		middlewares.HttpError(c, "Failed to export report", http.StatusInternalServerError, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename(report)))
	c.Data(http.StatusOK, contentType, body)
}
