package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dairydesk/backend/internal/domain/models"
	"github.com/dairydesk/backend/internal/server/middleware"
	"github.com/dairydesk/backend/internal/service/payments"
)

// PaymentsHandler exposes payment CRUD over HTTP.
type PaymentsHandler struct {
	svc    *payments.Service
	logger *zap.Logger
}

// NewPaymentsHandler constructs the HTTP handler adapter.
func NewPaymentsHandler(svc *payments.Service, logger *zap.Logger) *PaymentsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentsHandler{svc: svc, logger: logger}
}

// List returns payments, optionally filtered by customer. Consumers are
// scoped to their own mobile regardless of filters.
func (h *PaymentsHandler) List(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context(), middleware.Caller(c), c.Query("customerId"), c.Query("customerMobile"))
	if err != nil {
		h.logger.Error("list payments failed", zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": "failed to list payments"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Create records a payment against a customer.
func (h *PaymentsHandler) Create(c *gin.Context) {
	var input models.PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment body"})
		return
	}

	payment, err := h.svc.Record(c.Request.Context(), input)
	if err != nil {
		h.logger.Error("record payment failed", zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// Get returns one payment by id.
func (h *PaymentsHandler) Get(c *gin.Context) {
	payment, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("get payment failed", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, payment)
}

// Update replaces an existing payment.
func (h *PaymentsHandler) Update(c *gin.Context) {
	var input models.PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment body"})
		return
	}

	payment, err := h.svc.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.logger.Error("update payment failed", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, payment)
}

// Delete removes a payment.
func (h *PaymentsHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.logger.Error("delete payment failed", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
