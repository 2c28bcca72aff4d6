package domain

import (
	"strconv"
	"strings"
)

// Gateway payment states the integration reacts to.
const (
	GatewayStatusAuthorized = "authorized"
	GatewayStatusCaptured   = "captured"
)

// GatewayPayment is the subset of a Razorpay payment entity used here.
type GatewayPayment struct {
	ID       string
	Status   string
	Amount   int64
	Currency string
	OrderID  string
	Method   string
	Captured bool
	Email    string
}

func (p *GatewayPayment) IsAuthorized() bool {
	return p != nil && p.Status == GatewayStatusAuthorized
}

func (p *GatewayPayment) IsCaptured() bool {
	return p != nil && p.Status == GatewayStatusCaptured
}

// MatchesCheckout compares the gateway's view of the payment with the amount
// and currency the checkout page posted back. Fields the checkout did not
// send are not compared.
func (p *GatewayPayment) MatchesCheckout(data PaymentData) error {
	if data.Amount != "" {
		amount, err := data.AmountInSubunits()
		if err != nil {
			return NewInvalidPayloadError(err)
		}
		if amount != p.Amount {
			return NewPaymentMismatchError(data.RazorpayPaymentID, "amount",
				strconv.FormatInt(amount, 10), strconv.FormatInt(p.Amount, 10))
		}
	}
	if data.Currency != "" && p.Currency != "" && !strings.EqualFold(data.Currency, p.Currency) {
		return NewPaymentMismatchError(data.RazorpayPaymentID, "currency", data.Currency, p.Currency)
	}
	return nil
}
