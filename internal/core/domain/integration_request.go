// Package domain models a Razorpay payment attempt as an integration request
// and the checkout data that travels with it.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ServiceName identifies this gateway among integration services.
const ServiceName = "Razorpay"

// IntegrationTypeHost marks requests that originate from the hosted checkout page.
const IntegrationTypeHost = "Host"

// RequestStatus is the lifecycle state of an integration request.
type RequestStatus string

const (
	StatusQueued     RequestStatus = ""
	StatusAuthorized RequestStatus = "Authorized"
	StatusCompleted  RequestStatus = "Completed"
	StatusFailed     RequestStatus = "Failed"
)

// IntegrationRequest tracks one payment attempt.
type IntegrationRequest struct {
	Name             uuid.UUID
	IntegrationType  string
	Service          string
	GatewayPaymentID string
	Status           RequestStatus
	Data             json.RawMessage
	Error            string

	// ReferenceNotifiedAt is set once the referenced document accepted the
	// authorization callback.
	ReferenceNotifiedAt *time.Time

	CreatedAt  time.Time
	ModifiedAt time.Time
}

// NewIntegrationRequest builds a queued request for the given payload.
func NewIntegrationRequest(data PaymentData, raw json.RawMessage) *IntegrationRequest {
	now := time.Now().UTC()
	return &IntegrationRequest{
		Name:             uuid.New(),
		IntegrationType:  IntegrationTypeHost,
		Service:          ServiceName,
		GatewayPaymentID: data.RazorpayPaymentID,
		Status:           StatusQueued,
		Data:             raw,
		CreatedAt:        now,
		ModifiedAt:       now,
	}
}

// CanTransitionTo enforces forward-only status changes:
//   - "" -> Authorized, Failed
//   - Authorized -> Completed, Failed
//
// Completed and Failed are terminal.
func (r *IntegrationRequest) CanTransitionTo(target RequestStatus) error {
	switch r.Status {
	case StatusQueued:
		if target == StatusAuthorized || target == StatusFailed {
			return nil
		}
	case StatusAuthorized:
		if target == StatusCompleted || target == StatusFailed {
			return nil
		}
	}
	return NewInvalidTransitionError(r.Status, target)
}

// AwaitsReferenceNotification reports whether the payment was authorized but
// the referenced document has not acknowledged it yet.
func (r *IntegrationRequest) AwaitsReferenceNotification() bool {
	if r.ReferenceNotifiedAt != nil {
		return false
	}
	return r.Status == StatusAuthorized || r.Status == StatusCompleted
}

func (r *IntegrationRequest) IsTerminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusFailed
}

// Payload decodes the stored request data.
func (r *IntegrationRequest) Payload() (PaymentData, error) {
	return DecodePaymentData(r.Data)
}
