package domain

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// CheckoutPath is the hosted checkout page, relative to the site root.
const CheckoutPath = "./integrations/razorpay_checkout"

// CheckoutExpectedKeys must all be present in the checkout page query.
var CheckoutExpectedKeys = []string{
	"amount", "title", "description", "reference_doctype", "reference_docname",
	"payer_name", "payer_email", "order_id",
}

// CheckoutContext is what the checkout template renders.
type CheckoutContext struct {
	APIKey     string
	BrandImage string

	Amount           float64
	Title            string
	Description      string
	ReferenceDoctype string
	ReferenceDocname string
	PayerName        string
	PayerEmail       string
	OrderID          string
}

// BuildCheckoutURL encodes payment metadata into a checkout page link.
// Field presence is checked by the page, not here.
func BuildCheckoutURL(details map[string]any) (string, error) {
	query := url.Values{}
	for key, value := range details {
		s, err := queryValue(value)
		if err != nil {
			return "", fmt.Errorf("encode %q: %w", key, err)
		}
		query.Set(key, s)
	}
	return CheckoutPath + "?" + query.Encode(), nil
}

func queryValue(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(t), nil
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case fmt.Stringer:
		return t.String(), nil
	default:
		return "", fmt.Errorf("unsupported value of type %T", v)
	}
}

// BuildCheckoutContext validates the checkout query and fills the page context.
// When any expected key is absent it returns *IncompleteRequestError and no context.
func BuildCheckoutContext(query url.Values, apiKey, brandImage string) (*CheckoutContext, error) {
	var missing []string
	for _, key := range CheckoutExpectedKeys {
		if _, ok := query[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, &IncompleteRequestError{Missing: missing}
	}

	return &CheckoutContext{
		APIKey:           apiKey,
		BrandImage:       brandImage,
		Amount:           parseFloat(query.Get("amount")),
		Title:            query.Get("title"),
		Description:      query.Get("description"),
		ReferenceDoctype: query.Get("reference_doctype"),
		ReferenceDocname: query.Get("reference_docname"),
		PayerName:        query.Get("payer_name"),
		PayerEmail:       query.Get("payer_email"),
		OrderID:          query.Get("order_id"),
	}, nil
}

// parseFloat is lenient: thousands separators are dropped and anything
// unparsable becomes zero.
func parseFloat(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
