package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cloud-classroom/internal/models"
	"github.com/noah-isme/cloud-classroom/internal/service"
	"github.com/noah-isme/cloud-classroom/pkg/response"
)

// ReportHandler writes classroom reports to the report directory.
type ReportHandler struct {
	reports *service.ExportService
}

// NewReportHandler constructs the handler.
func NewReportHandler(reports *service.ExportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Export godoc
// @Summary Export a report
// @Description Writes the syllabus or assignments report. The path extension picks CSV or PDF.
// @Tags Reports
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body models.ExportReportRequest true "Report request"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /reports/export [post]
func (h *ReportHandler) Export(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	var req models.ExportReportRequest
	if !bindJSON(c, &req, "invalid report payload") {
		return
	}
	result, err := h.reports.Export(c.Request.Context(), session, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
