package ports

import (
	"context"

	"github.com/DanielPopoola/razorpay-integration/internal/core/domain"
)

// MessageStore keeps message pages between a redirect and its rendering.
type MessageStore interface {
	Save(ctx context.Context, msg *domain.Message) error
	Get(ctx context.Context, id string) (*domain.Message, error)
}

// ReferenceDocuments dispatches the payment callback to the business
// document that started the checkout.
type ReferenceDocuments interface {
	// OnPaymentAuthorized returns an optional redirect target.
	OnPaymentAuthorized(ctx context.Context, doctype, docname, status string) (string, error)
}
