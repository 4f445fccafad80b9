package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dairydesk/backend/internal/domain/models"
	"github.com/dairydesk/backend/internal/server/middleware"
	"github.com/dairydesk/backend/internal/service/milk"
)

// MilkHandler exposes milk transaction CRUD over HTTP.
type MilkHandler struct {
	svc    *milk.Service
	logger *zap.Logger
}

// NewMilkHandler constructs the HTTP handler adapter.
func NewMilkHandler(svc *milk.Service, logger *zap.Logger) *MilkHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MilkHandler{svc: svc, logger: logger}
}

// List returns transactions visible to the caller. Consumers only ever see
// their own.
func (h *MilkHandler) List(c *gin.Context) {
	txs, err := h.svc.List(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		h.logger.Error("list transactions failed", zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": "failed to list transactions"})
		return
	}
	c.JSON(http.StatusOK, txs)
}

// CreateSale records an outgoing milk sale.
func (h *MilkHandler) CreateSale(c *gin.Context) {
	h.create(c, h.svc.RecordSale)
}

// CreatePurchase records an incoming milk purchase.
func (h *MilkHandler) CreatePurchase(c *gin.Context) {
	h.create(c, h.svc.RecordPurchase)
}

func (h *MilkHandler) create(c *gin.Context, record recordFunc) {
	var input models.TransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction body"})
		return
	}

	tx, err := record(c.Request.Context(), input)
	if err != nil {
		h.logger.Error("record transaction failed", zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, tx)
}

type recordFunc func(ctx context.Context, input models.TransactionInput) (models.MilkTransaction, error)

// Update replaces an existing transaction. Consumers may only touch their own
// records.
func (h *MilkHandler) Update(c *gin.Context) {
	var input models.TransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction body"})
		return
	}

	tx, err := h.svc.Update(c.Request.Context(), middleware.Caller(c), c.Param("id"), input)
	if err != nil {
		h.logger.Error("update transaction failed", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tx)
}

// Delete removes a transaction subject to the same ownership rule as Update.
func (h *MilkHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.Caller(c), c.Param("id")); err != nil {
		h.logger.Error("delete transaction failed", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
