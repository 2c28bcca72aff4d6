package razorpay

import (
	"encoding/json"
	"math"

	"github.com/DanielPopoola/razorpay-integration/internal/core/domain"
)

// toGatewayPayment reads the fields we use from a decoded payment entity.
// Numbers arrive as float64.
func toGatewayPayment(body map[string]interface{}) *domain.GatewayPayment {
	return &domain.GatewayPayment{
		ID:       stringField(body, "id"),
		Status:   stringField(body, "status"),
		Amount:   intField(body, "amount"),
		Currency: stringField(body, "currency"),
		OrderID:  stringField(body, "order_id"),
		Method:   stringField(body, "method"),
		Captured: boolField(body, "captured"),
		Email:    stringField(body, "email"),
	}
}

func stringField(body map[string]interface{}, key string) string {
	if s, ok := body[key].(string); ok {
		return s
	}
	return ""
}

func intField(body map[string]interface{}, key string) int64 {
	switch v := body[key].(type) {
	case float64:
		return int64(math.Round(v))
	case int:
		return int64(v)
	case int64:
		return v
	case json.Number:
		n, _ := v.Int64()
		return n
	}
	return 0
}

func boolField(body map[string]interface{}, key string) bool {
	b, _ := body[key].(bool)
	return b
}
