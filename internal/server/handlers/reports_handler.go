package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dairydesk/backend/internal/domain/models"
	"github.com/dairydesk/backend/internal/server/middleware"
	"github.com/dairydesk/backend/internal/service/export"
	"github.com/dairydesk/backend/internal/service/reporting"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportsHandler exposes the reporting engine over HTTP: dashboard summary,
// monthly consumption, and the file exports.
type ReportsHandler struct {
	svc        *reporting.Service
	aggTimeout time.Duration
	logger     *zap.Logger
}

// NewReportsHandler constructs the HTTP handler adapter. aggTimeout bounds
// every aggregation round-trip a single request may spend.
func NewReportsHandler(svc *reporting.Service, aggTimeout time.Duration, logger *zap.Logger) *ReportsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if aggTimeout <= 0 {
		aggTimeout = 30 * time.Second
	}
	return &ReportsHandler{svc: svc, aggTimeout: aggTimeout, logger: logger}
}

func (h *ReportsHandler) boundedContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.aggTimeout)
}

// scopedBuyerMobile returns the effective counterparty filter: consumers are
// always pinned to their own mobile, whatever the query string says.
func scopedBuyerMobile(c *gin.Context, requested string) string {
	caller := middleware.Caller(c)
	if caller.Role == models.RoleConsumer {
		return caller.Mobile
	}
	return requested
}

// ProfitLoss serves the profit and loss skeleton.
func (h *ReportsHandler) ProfitLoss(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ProfitLoss(c.Query("period")))
}

// DashboardSummary serves the dashboard aggregate for the requested trend
// period, with optional counterparty drill-down.
func (h *ReportsHandler) DashboardSummary(c *gin.Context) {
	ctx, cancel := h.boundedContext(c)
	defer cancel()

	buyerMobile := scopedBuyerMobile(c, c.Query("buyerMobile"))
	summary, err := h.svc.DashboardSummary(ctx, c.Query("trendPeriod"), buyerMobile, time.Now())
	if err != nil {
		h.logger.Error("dashboard summary failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build dashboard summary", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// MonthlyConsumption serves the ranked consumption report for one month.
func (h *ReportsHandler) MonthlyConsumption(c *gin.Context) {
	ctx, cancel := h.boundedContext(c)
	defer cancel()

	report, err := h.svc.MonthlyConsumption(ctx, c.Query("year"), c.Query("month"), time.Now())
	if err != nil {
		h.logger.Error("monthly consumption failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build consumption report", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportsHandler) exportData(c *gin.Context) (*reporting.ExportData, error) {
	ctx, cancel := h.boundedContext(c)
	defer cancel()

	allConsumers := flagSet(c.Query("allConsumers"))
	buyerMobile := c.Query("buyerMobile")
	if middleware.Caller(c).Role == models.RoleConsumer {
		allConsumers = false
		buyerMobile = middleware.Caller(c).Mobile
	}
	upToToday := flagSet(c.Query("upToToday"))

	return h.svc.ConsumptionExportData(ctx, c.Query("year"), c.Query("month"), buyerMobile, allConsumers, upToToday, time.Now())
}

// flagSet reads a boolean query parameter, accepting both "true" and "1".
func flagSet(v string) bool {
	return v == "true" || v == "1"
}

// ExportExcel streams the consumption workbook as an xlsx download.
func (h *ReportsHandler) ExportExcel(c *gin.Context) {
	data, err := h.exportData(c)
	if err != nil {
		h.logger.Error("excel export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build export", "message": err.Error()})
		return
	}

	workbook, filename, err := export.ConsumptionWorkbook(data)
	if err != nil {
		h.logger.Error("excel render failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render workbook", "message": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", xlsxContentType)
	if err := workbook.Write(c.Writer); err != nil {
		h.logger.Error("excel write failed", zap.Error(err))
	}
}

// ExportPDF streams the consumption report as a PDF download.
func (h *ReportsHandler) ExportPDF(c *gin.Context) {
	data, err := h.exportData(c)
	if err != nil {
		h.logger.Error("pdf export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build export", "message": err.Error()})
		return
	}

	doc, filename, err := export.ConsumptionPDF(data)
	if err != nil {
		h.logger.Error("pdf render failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render pdf", "message": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}

// ExportCSV streams the per-transaction buyer consumption rows as CSV,
// including sales with no attributable counterparty.
func (h *ReportsHandler) ExportCSV(c *gin.Context) {
	ctx, cancel := h.boundedContext(c)
	defer cancel()

	buyerMobile := scopedBuyerMobile(c, c.Query("buyerMobile"))
	window, details, names, err := h.svc.TransactionRows(ctx, c.Query("year"), c.Query("month"), buyerMobile, time.Now())
	if err != nil {
		h.logger.Error("csv export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build export", "message": err.Error()})
		return
	}

	body, filename := export.BuyerConsumptionCSV(window, details, names)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", body)
}
