package ports

import (
	"context"

	"github.com/DanielPopoola/razorpay-integration/internal/core/domain"
)

// Gateway defines the calls made to the Razorpay REST API. Credentials are
// passed per call because they may be unsaved parameters.
type Gateway interface {
	// ValidateCredentials lists payments to prove the key pair is accepted.
	ValidateCredentials(ctx context.Context, settings domain.Settings) error
	FetchPayment(ctx context.Context, settings domain.Settings, paymentID string) (*domain.GatewayPayment, error)
	CapturePayment(ctx context.Context, settings domain.Settings, paymentID string, amount int64) (*domain.GatewayPayment, error)
}
