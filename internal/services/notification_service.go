package services

import (
	"context"
	"fmt"

	"github.com/vipoffers/consent-api/internal/config"
	"github.com/vipoffers/consent-api/internal/logging"
	"github.com/vipoffers/consent-api/internal/observability"
	"github.com/vipoffers/consent-api/internal/sms"
	"github.com/vipoffers/consent-api/internal/utils"
	"go.uber.org/zap"
)

// MessageSender submits an SMS to the messaging provider
type MessageSender interface {
	SendMessage(ctx context.Context, to, body string) (*sms.Message, error)
}

// NotificationService sends the promotional discount SMS. It is
// stateless; success means the provider accepted the submission.
type NotificationService struct {
	sender MessageSender
	logger *logging.SafeLogger
}

// NewNotificationService creates a notification service
func NewNotificationService(sender MessageSender, logger *logging.SafeLogger) *NotificationService {
	return &NotificationService{
		sender: sender,
		logger: logger,
	}
}

// SendDiscount submits the configured coupon message to the given phone
// number. The number is normalized to E.164 when possible; otherwise it
// is submitted as received and the provider decides its fate.
func (s *NotificationService) SendDiscount(ctx context.Context, phone string) error {
	to := phone
	if normalized, err := utils.NormalizePhoneNumber(phone); err == nil {
		to = normalized
	}

	msg, err := s.sender.SendMessage(ctx, to, config.AppConfig.DiscountMessage)
	if err != nil {
		observability.SMSSubmissions.WithLabelValues("failure").Inc()
		s.logger.Error("failed to send discount SMS",
			zap.String("phone", observability.MaskPhone(to)),
			zap.Error(err))
		return fmt.Errorf("failed to send discount: %w", err)
	}
	observability.SMSSubmissions.WithLabelValues("success").Inc()

	s.logger.Info("discount SMS accepted by provider",
		zap.String("phone", observability.MaskPhone(to)),
		zap.String("sid", msg.SID),
		zap.String("status", msg.Status))

	return nil
}
