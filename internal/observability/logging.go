package observability

import (
	"github.com/vipoffers/consent-api/internal/logging"
)

// Logger returns the global safe logger instance
func Logger() *logging.SafeLogger {
	return logging.Logger
}

// MaskPhone masks a phone number for logging, keeping only the last
// four digits visible.
func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	masked := make([]byte, len(phone)-4)
	for i := range masked {
		masked[i] = '*'
	}
	return string(masked) + phone[len(phone)-4:]
}
