package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDiscountSender is a discountSender test double
type fakeDiscountSender struct {
	err       error
	lastPhone string
}

func (f *fakeDiscountSender) SendDiscount(ctx context.Context, phone string) error {
	f.lastPhone = phone
	return f.err
}

func TestSendDiscount_Success(t *testing.T) {
	sender := &fakeDiscountSender{}
	h := NewDiscountHandlers(sender)

	w := performRequest(h.SendDiscount, "/send-discount", gin.H{"phone": "+15551234567"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "+15551234567", sender.lastPhone)

	var resp MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Discount sent successfully!", resp.Message)
}

func TestSendDiscount_ProviderRejectionIs500(t *testing.T) {
	sender := &fakeDiscountSender{err: errors.New("twilio: invalid number (code 21211, status 400)")}
	h := NewDiscountHandlers(sender)

	w := performRequest(h.SendDiscount, "/send-discount", gin.H{"phone": "bogus"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "21211")
}

func TestSendDiscount_MissingPhone(t *testing.T) {
	h := NewDiscountHandlers(&fakeDiscountSender{})

	w := performRequest(h.SendDiscount, "/send-discount", gin.H{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
