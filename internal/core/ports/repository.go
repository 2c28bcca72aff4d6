package ports

import (
	"context"

	"github.com/DanielPopoola/razorpay-integration/internal/core/domain"
	"github.com/google/uuid"
)

// IntegrationRequestRepository persists payment attempts.
type IntegrationRequestRepository interface {
	Create(ctx context.Context, req *domain.IntegrationRequest) error
	FindByName(ctx context.Context, name uuid.UUID) (*domain.IntegrationRequest, error)
	FindByGatewayPaymentID(ctx context.Context, service, paymentID string) (*domain.IntegrationRequest, error)

	// FindByStatus returns the least recently modified requests first.
	FindByStatus(ctx context.Context, service string, status domain.RequestStatus, limit int) ([]*domain.IntegrationRequest, error)

	// UpdateStatus sets the status; touchModified controls whether modified_at moves.
	UpdateStatus(ctx context.Context, name uuid.UUID, status domain.RequestStatus, touchModified bool) error
	MarkFailed(ctx context.Context, name uuid.UUID, trace string) error
	MarkReferenceNotified(ctx context.Context, name uuid.UUID) error
}

// SettingsStore holds the persisted JSON configuration of integration services.
type SettingsStore interface {
	// LoadSettings returns nil when the service has no stored settings.
	LoadSettings(ctx context.Context, service string) ([]byte, error)
	SaveSettings(ctx context.Context, service string, settings []byte, useTestAccount bool) error
}
