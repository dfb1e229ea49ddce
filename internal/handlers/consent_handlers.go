package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vipoffers/consent-api/internal/logging"
	"github.com/vipoffers/consent-api/internal/models"
	"github.com/vipoffers/consent-api/internal/observability"
	"go.uber.org/zap"
)

// consentService is the surface of services.ConsentService the handlers
// depend on; tests substitute a double.
type consentService interface {
	SaveConsent(ctx context.Context, req *models.SaveConsentRequest) (*models.ConsentRecord, error)
	GetConsent(ctx context.Context, customerID string) ([]models.ConsentRecord, error)
	ToggleOptIn(ctx context.Context, customerID string) (models.OptInStatus, error)
}

// ConsentHandlers contains the consent lifecycle endpoint handlers
type ConsentHandlers struct {
	service consentService
	logger  *logging.SafeLogger
}

// NewConsentHandlers creates a new ConsentHandlers instance
func NewConsentHandlers(service consentService) *ConsentHandlers {
	return &ConsentHandlers{
		service: service,
		logger:  observability.Logger(),
	}
}

// SaveConsent handles POST /save-consent
func (h *ConsentHandlers) SaveConsent(c *gin.Context) {
	var req models.SaveConsentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Success: false, Message: "Invalid request body: " + err.Error()})
		return
	}

	logger := h.logger.With(zap.String("customer_id", req.CustomerID))
	logger.Info("SaveConsent called")

	if _, err := h.service.SaveConsent(c.Request.Context(), &req); err != nil {
		switch {
		case errors.Is(err, models.ErrDuplicatePhone):
			c.JSON(http.StatusBadRequest, MessageResponse{Success: false, Message: "Phone number already consented"})
		case errors.Is(err, models.ErrInvalidPhone):
			c.JSON(http.StatusBadRequest, MessageResponse{Success: false, Message: "Invalid phone number"})
		default:
			logger.Error("failed to save consent", zap.Error(err))
			c.JSON(http.StatusInternalServerError, MessageResponse{Success: false, Message: "Failed to save consent information"})
		}
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Consent information saved successfully!"})
}

// GetConsent handles POST /get-consent
func (h *ConsentHandlers) GetConsent(c *gin.Context) {
	var req models.ConsentLookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Success: false, Message: "Invalid request body: " + err.Error()})
		return
	}

	logger := h.logger.With(zap.String("customer_id", req.CustomerID))
	logger.Info("GetConsent called")

	records, err := h.service.GetConsent(c.Request.Context(), req.CustomerID)
	if err != nil {
		logger.Error("failed to fetch consent", zap.Error(err))
		c.JSON(http.StatusInternalServerError, MessageResponse{Success: false, Message: "Failed to fetch consent information"})
		return
	}

	c.JSON(http.StatusOK, DataResponse{Success: true, Data: records})
}

// UpdateConsent handles POST /update-consent
func (h *ConsentHandlers) UpdateConsent(c *gin.Context) {
	var req models.ConsentLookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Success: false, Message: "Invalid request body: " + err.Error()})
		return
	}

	logger := h.logger.With(zap.String("customer_id", req.CustomerID))
	logger.Info("UpdateConsent called")

	newStatus, err := h.service.ToggleOptIn(c.Request.Context(), req.CustomerID)
	if err != nil {
		if errors.Is(err, models.ErrConsentNotFound) {
			c.JSON(http.StatusNotFound, MessageResponse{Success: false, Message: "Consent record not found"})
			return
		}
		logger.Error("failed to update consent", zap.Error(err))
		c.JSON(http.StatusInternalServerError, MessageResponse{Success: false, Message: "Failed to update consent information"})
		return
	}

	logger.Info("consent updated", zap.String("new_status", string(newStatus)))
	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Consent information updated successfully!"})
}
