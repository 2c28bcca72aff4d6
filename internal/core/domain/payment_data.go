package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// PaymentData is the typed view of an integration request payload. The stored
// JSON may carry more keys than these; they are kept verbatim in the record.
type PaymentData struct {
	RazorpayPaymentID string      `json:"razorpay_payment_id"`
	Amount            json.Number `json:"amount,omitempty"`
	Currency          string      `json:"currency,omitempty"`
	Title             string      `json:"title,omitempty"`
	Description       string      `json:"description,omitempty"`
	ReferenceDoctype  string      `json:"reference_doctype"`
	ReferenceDocname  string      `json:"reference_docname"`
	PayerName         string      `json:"payer_name,omitempty"`
	PayerEmail        string      `json:"payer_email,omitempty"`
	OrderID           string      `json:"order_id,omitempty"`
}

// HasReference reports whether the payload names a document to call back.
func (d PaymentData) HasReference() bool {
	return d.ReferenceDoctype != "" && d.ReferenceDocname != ""
}

// AmountInSubunits returns the amount as the gateway expects it for capture.
func (d PaymentData) AmountInSubunits() (int64, error) {
	if d.Amount == "" {
		return 0, errors.New("amount is missing from payment data")
	}
	if n, err := d.Amount.Int64(); err == nil {
		return n, nil
	}
	f, err := d.Amount.Float64()
	if err != nil {
		return 0, fmt.Errorf("amount %q is not a number: %w", d.Amount, err)
	}
	return int64(math.Round(f)), nil
}

// MergePaymentOptions combines the checkout options posted back by the
// browser with the identifying fields. The identifying fields always win.
// options may be a JSON object, a JSON string holding an object, or empty.
func MergePaymentOptions(options json.RawMessage, paymentID, referenceDoctype, referenceDocname string) (json.RawMessage, PaymentData, error) {
	merged, err := decodeOptions(options)
	if err != nil {
		return nil, PaymentData{}, NewInvalidPayloadError(err)
	}

	merged["razorpay_payment_id"] = paymentID
	merged["reference_doctype"] = referenceDoctype
	merged["reference_docname"] = referenceDocname

	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, PaymentData{}, NewInvalidPayloadError(err)
	}

	data, err := DecodePaymentData(raw)
	if err != nil {
		return nil, PaymentData{}, err
	}
	return raw, data, nil
}

// DecodePaymentData reads the typed fields out of a stored payload.
func DecodePaymentData(raw json.RawMessage) (PaymentData, error) {
	var data PaymentData
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		return PaymentData{}, NewInvalidPayloadError(err)
	}
	return data, nil
}

func decodeOptions(options json.RawMessage) (map[string]any, error) {
	merged := map[string]any{}

	trimmed := bytes.TrimSpace(options)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return merged, nil
	}

	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return nil, fmt.Errorf("decode options string: %w", err)
		}
		return decodeOptions(json.RawMessage(inner))
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&merged); err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}
	return merged, nil
}
