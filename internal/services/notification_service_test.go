package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vipoffers/consent-api/internal/config"
	"github.com/vipoffers/consent-api/internal/logging"
	"github.com/vipoffers/consent-api/internal/sms"
)

// fakeSender is a MessageSender test double
type fakeSender struct {
	lastTo   string
	lastBody string
	err      error
}

func (f *fakeSender) SendMessage(ctx context.Context, to, body string) (*sms.Message, error) {
	f.lastTo = to
	f.lastBody = body
	if f.err != nil {
		return nil, f.err
	}
	return &sms.Message{SID: "SM123", To: to, Body: body, Status: "queued"}, nil
}

func setupNotificationTest(t *testing.T, sender MessageSender) *NotificationService {
	if config.AppConfig == nil {
		config.AppConfig = &config.Config{
			DiscountMessage: "Here's your 10% off coupon: VIP10. Use it at checkout!",
		}
	}
	return NewNotificationService(sender, logging.Logger)
}

func TestSendDiscount_SubmitsCouponBody(t *testing.T) {
	sender := &fakeSender{}
	service := setupNotificationTest(t, sender)

	err := service.SendDiscount(context.Background(), "+15551234567")
	require.NoError(t, err)
	assert.Equal(t, "+15551234567", sender.lastTo)
	assert.Contains(t, sender.lastBody, "VIP10")
}

func TestSendDiscount_NormalizesNationalFormat(t *testing.T) {
	sender := &fakeSender{}
	service := setupNotificationTest(t, sender)

	err := service.SendDiscount(context.Background(), "(555) 123-4567")
	require.NoError(t, err)
	assert.Equal(t, "+15551234567", sender.lastTo)
}

func TestSendDiscount_UnparseableNumberIsSubmittedAsIs(t *testing.T) {
	sender := &fakeSender{}
	service := setupNotificationTest(t, sender)

	err := service.SendDiscount(context.Background(), "not-a-phone")
	require.NoError(t, err)
	assert.Equal(t, "not-a-phone", sender.lastTo)
}

func TestSendDiscount_ProviderRejection(t *testing.T) {
	sender := &fakeSender{err: errors.New("rate limited")}
	service := setupNotificationTest(t, sender)

	err := service.SendDiscount(context.Background(), "+15551234567")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}
