package utils

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is assumed for numbers submitted without a country code.
const DefaultRegion = "US"

// NormalizePhoneNumber parses a submitted phone string and returns it in
// E.164 form, which is the storage and Twilio submission format. Only a
// length check is applied beyond parsing; carrier-level validity is the
// provider's call, and test-range numbers such as 555 exchanges must
// pass through.
func NormalizePhoneNumber(phoneString string) (string, error) {
	cleanPhone := strings.TrimSpace(phoneString)
	if cleanPhone == "" {
		return "", fmt.Errorf("empty phone number")
	}

	num, err := phonenumbers.Parse(cleanPhone, DefaultRegion)
	if err != nil {
		return "", fmt.Errorf("failed to parse phone number: %w", err)
	}

	if !phonenumbers.IsPossibleNumber(num) {
		return "", fmt.Errorf("impossible phone number: %s", phoneString)
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}
