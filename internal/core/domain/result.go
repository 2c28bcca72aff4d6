package domain

import "net/http"

// DefaultSuccessRedirect is used when the referenced document has no opinion.
const DefaultSuccessRedirect = "payment-success"

// PaymentResult tells the checkout page where to send the payer next.
type PaymentResult struct {
	RedirectTo string `json:"redirect_to"`
	Status     int    `json:"status"`
}

func NewSuccessResult(redirectTo string) *PaymentResult {
	if redirectTo == "" {
		redirectTo = DefaultSuccessRedirect
	}
	return &PaymentResult{RedirectTo: redirectTo, Status: http.StatusOK}
}

// NewServerErrorResult is returned when the creation path fails. The status is
// 401 to match what checkout pages already expect from this endpoint.
func NewServerErrorResult(redirectTo string) *PaymentResult {
	return &PaymentResult{RedirectTo: redirectTo, Status: http.StatusUnauthorized}
}
