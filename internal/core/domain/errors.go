package domain

import (
	"errors"
	"fmt"
	"strings"
)

// DomainError represents a business logic error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeCredential           = "CREDENTIAL_ERROR"
	ErrCodeUnsupportedCurrency  = "UNSUPPORTED_CURRENCY"
	ErrCodeIncompleteRequest    = "INCOMPLETE_REQUEST"
	ErrCodeGatewayCall          = "GATEWAY_CALL_ERROR"
	ErrCodeInvalidTransition    = "INVALID_TRANSITION"
	ErrCodeRequestNotFound      = "REQUEST_NOT_FOUND"
	ErrCodeDuplicateRequest     = "DUPLICATE_REQUEST"
	ErrCodePaymentNotAuthorized = "PAYMENT_NOT_AUTHORIZED"
	ErrCodeInvalidPayload       = "INVALID_PAYLOAD"
	ErrCodeMessageNotFound      = "MESSAGE_NOT_FOUND"
	ErrCodePaymentMismatch      = "PAYMENT_MISMATCH"
)

// CredentialErrorMessage is shown when the gateway rejects the API key pair.
const CredentialErrorMessage = "Seems API Key or API Secret is wrong !!!"

func NewCredentialError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeCredential,
		Message: CredentialErrorMessage,
		Err:     err,
	}
}

func NewSettingsMissingError() *DomainError {
	return &DomainError{
		Code:    ErrCodeCredential,
		Message: fmt.Sprintf("%s is not configured", ServiceName),
	}
}

func NewUnsupportedCurrencyError(currency string) *DomainError {
	return &DomainError{
		Code: ErrCodeUnsupportedCurrency,
		Message: fmt.Sprintf(
			"Please select another payment method. %s does not support transactions in currency '%s'",
			ServiceName, currency,
		),
	}
}

func NewGatewayCallError(operation string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeGatewayCall,
		Message: fmt.Sprintf("%s call to %s failed", operation, ServiceName),
		Err:     err,
	}
}

func NewInvalidTransitionError(from, to RequestStatus) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition from %q to %q", from, to),
	}
}

func NewRequestNotFoundError(name string) *DomainError {
	return &DomainError{
		Code:    ErrCodeRequestNotFound,
		Message: fmt.Sprintf("integration request %s not found", name),
	}
}

func NewDuplicateRequestError(paymentID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeDuplicateRequest,
		Message: fmt.Sprintf("integration request for payment %s already exists", paymentID),
	}
}

func NewPaymentNotAuthorizedError(paymentID, gatewayStatus string) *DomainError {
	return &DomainError{
		Code:    ErrCodePaymentNotAuthorized,
		Message: fmt.Sprintf("payment %s is %q at %s, expected authorized", paymentID, gatewayStatus, ServiceName),
	}
}

func NewPaymentMismatchError(paymentID, field, expected, actual string) *DomainError {
	return &DomainError{
		Code: ErrCodePaymentMismatch,
		Message: fmt.Sprintf("payment %s %s is %s at %s, checkout asked for %s",
			paymentID, field, actual, ServiceName, expected),
	}
}

func NewInvalidPayloadError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidPayload,
		Message: "invalid payment payload",
		Err:     err,
	}
}

func NewMessageNotFoundError(id string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMessageNotFound,
		Message: fmt.Sprintf("message %s not found", id),
	}
}

// IncompleteRequestError lists the checkout fields missing from a request.
type IncompleteRequestError struct {
	Missing []string
}

func (e *IncompleteRequestError) Error() string {
	return "missing checkout fields: " + strings.Join(e.Missing, ", ")
}

// RedirectError stops page rendering and sends the browser elsewhere.
type RedirectError struct {
	Location string
	Err      error
}

func (e *RedirectError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("redirect to %s: %v", e.Location, e.Err)
	}
	return "redirect to " + e.Location
}

func (e *RedirectError) Unwrap() error {
	return e.Err
}

// IsErrorCode checks if an error is a DomainError with a specific code
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
