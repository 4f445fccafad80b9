package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dairydesk/backend/internal/domain/models"
	"github.com/dairydesk/backend/internal/service/users"
)

// UsersHandler exposes user administration over HTTP. All routes behind it
// are admin-gated by the router.
type UsersHandler struct {
	svc    *users.Service
	logger *zap.Logger
}

// NewUsersHandler constructs the HTTP handler adapter.
func NewUsersHandler(svc *users.Service, logger *zap.Logger) *UsersHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UsersHandler{svc: svc, logger: logger}
}

// List returns users of the requested role tier, defaulting to consumers.
func (h *UsersHandler) List(c *gin.Context) {
	role := models.RoleConsumer
	if raw := c.Query("role"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "role must be numeric"})
			return
		}
		role = models.Role(n)
	}

	list, err := h.svc.ListByRole(c.Request.Context(), role)
	if err != nil {
		h.logger.Error("list users failed", zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": "failed to list users"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create registers a new user.
func (h *UsersHandler) Create(c *gin.Context) {
	var input users.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user body"})
		return
	}

	user, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		h.logger.Error("create user failed", zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, user)
}

type changePasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// ChangePassword resets a user's password.
func (h *UsersHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), c.Param("id"), req.Password); err != nil {
		h.logger.Error("change password failed", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// Update applies the provided fields to an existing user.
func (h *UsersHandler) Update(c *gin.Context) {
	var input users.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user body"})
		return
	}

	user, err := h.svc.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.logger.Error("update user failed", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}
