package domain

import (
	"encoding/json"
	"fmt"
)

// Settings holds the Razorpay API credentials.
type Settings struct {
	APIKey    string `json:"api_key" validate:"required"`
	APISecret string `json:"api_secret" validate:"required"`
}

// ResolveSettings picks the credentials to use for a call. Parameters that
// were just entered take priority over the persisted configuration. A nil
// result with a nil error means neither source has any data.
func ResolveSettings(params *Settings, stored []byte) (*Settings, error) {
	if params != nil {
		s := *params
		return &s, nil
	}

	if len(stored) == 0 || string(stored) == "null" {
		return nil, nil
	}

	var s Settings
	if err := json.Unmarshal(stored, &s); err != nil {
		return nil, fmt.Errorf("decode %s settings: %w", ServiceName, err)
	}
	return &s, nil
}
