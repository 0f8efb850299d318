package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/tillbook/internal/domain/models"
	"github.com/mamadbah2/tillbook/internal/service/reporting"
)

// ReportHandler serves derived reports.
type ReportHandler struct {
	svc    *reporting.Service
	logger *zap.Logger
}

// NewReportHandler constructs the report handler.
func NewReportHandler(svc *reporting.Service, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{svc: svc, logger: orNop(logger)}
}

// Chef returns the chef report for ?period=day|week|month&date=.
func (h *ReportHandler) Chef(c *gin.Context) {
	report, err := h.svc.ChefReport(c.Request.Context(), models.Period(c.DefaultQuery("period", string(models.PeriodDay))), c.Query("date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// DailyClosing returns the cash position of ?date=.
func (h *ReportHandler) DailyClosing(c *gin.Context) {
	report, err := h.svc.DailyClosing(c.Request.Context(), c.Query("date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Dashboard returns the summary of ?date=.
func (h *ReportHandler) Dashboard(c *gin.Context) {
	stats, err := h.svc.Dashboard(c.Request.Context(), c.Query("date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
