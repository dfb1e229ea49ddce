package models

// SendDiscountRequest is the body of POST /send-discount
type SendDiscountRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// SaveConsentRequest is the body of POST /save-consent
type SaveConsentRequest struct {
	CustomerID  string      `json:"customer_id" binding:"required"`
	FirstName   string      `json:"first_name"`
	PhoneNumber string      `json:"phone_number" binding:"required"`
	OptInStatus OptInStatus `json:"opt_in_status"`
	IPAddress   string      `json:"ip_address"`
}

// ConsentLookupRequest is the body of POST /get-consent and
// POST /update-consent
type ConsentLookupRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
}
