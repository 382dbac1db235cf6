package handler

import (
	"net/http"

	"github.com/exenity/portal/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// BOMMissing GET /api/reports/bom-missing
func (h *ReportHandler) BOMMissing(c *gin.Context) {
	report, err := h.svc.BOMMissing(c.Request.Context())
	if err != nil {
		c.Error(err)
		InternalError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, report)
}

// Expenditure GET /api/reports/expenditure
func (h *ReportHandler) Expenditure(c *gin.Context) {
	report, err := h.svc.Expenditure(c.Request.Context())
	if err != nil {
		c.Error(err)
		InternalError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, report)
}

// Export GET /api/reports/export
func (h *ReportHandler) Export(c *gin.Context) {
	f, filename, err := h.svc.ExportWorkbook(c.Request.Context())
	if err != nil {
		c.Error(err)
		InternalError(c, err.Error())
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		c.Error(err)
	}
}
