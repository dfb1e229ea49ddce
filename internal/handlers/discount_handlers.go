package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vipoffers/consent-api/internal/logging"
	"github.com/vipoffers/consent-api/internal/models"
	"github.com/vipoffers/consent-api/internal/observability"
	"go.uber.org/zap"
)

// discountSender is the surface of services.NotificationService the
// handler depends on
type discountSender interface {
	SendDiscount(ctx context.Context, phone string) error
}

// DiscountHandlers contains the promotional SMS endpoint handler
type DiscountHandlers struct {
	notifications discountSender
	logger        *logging.SafeLogger
}

// NewDiscountHandlers creates a new DiscountHandlers instance
func NewDiscountHandlers(notifications discountSender) *DiscountHandlers {
	return &DiscountHandlers{
		notifications: notifications,
		logger:        observability.Logger(),
	}
}

// SendDiscount handles POST /send-discount
func (h *DiscountHandlers) SendDiscount(c *gin.Context) {
	var req models.SendDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Success: false, Message: "Invalid request body: " + err.Error()})
		return
	}

	logger := h.logger.With(zap.String("phone", observability.MaskPhone(req.Phone)))
	logger.Info("SendDiscount called")

	if err := h.notifications.SendDiscount(c.Request.Context(), req.Phone); err != nil {
		logger.Error("failed to send discount", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Discount sent successfully!"})
}
