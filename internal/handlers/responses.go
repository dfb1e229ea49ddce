package handlers

import "github.com/vipoffers/consent-api/internal/models"

// MessageResponse is the payload for operations that return a status
// message. Success responses and message-style errors share its shape.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DataResponse is the payload for get-consent. Data always holds a
// slice; a customer with no record yields an empty one.
type DataResponse struct {
	Success bool                   `json:"success"`
	Data    []models.ConsentRecord `json:"data"`
}

// ErrorResponse carries the raw provider error detail for
// send-discount failures.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
