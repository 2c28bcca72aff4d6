package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/DanielPopoola/razorpay-integration/internal/core/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const requestColumns = `name, integration_type, integration_request_service, gateway_payment_id,
	status, data, error, reference_notified_at, created_at, modified_at`

type IntegrationRequestRepository struct {
	q Executor
}

func NewIntegrationRequestRepository(db *DB) *IntegrationRequestRepository {
	return &IntegrationRequestRepository{q: db.Pool}
}

func (r *IntegrationRequestRepository) Create(ctx context.Context, req *domain.IntegrationRequest) error {
	query := `INSERT INTO integration_requests (` + requestColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	data := []byte(req.Data)
	if len(data) == 0 {
		data = []byte("{}")
	}

	_, err := r.q.Exec(ctx, query,
		req.Name,
		req.IntegrationType,
		req.Service,
		req.GatewayPaymentID,
		req.Status,
		data,
		req.Error,
		req.ReferenceNotifiedAt,
		req.CreatedAt,
		req.ModifiedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return domain.NewDuplicateRequestError(req.GatewayPaymentID)
		}
		return fmt.Errorf("failed to create integration request: %w", err)
	}
	return nil
}

func (r *IntegrationRequestRepository) FindByName(ctx context.Context, name uuid.UUID) (*domain.IntegrationRequest, error) {
	query := `SELECT ` + requestColumns + `
			  FROM integration_requests
			  WHERE name = $1`

	row := r.q.QueryRow(ctx, query, name)
	return scanRequest(row, name.String())
}

func (r *IntegrationRequestRepository) FindByGatewayPaymentID(ctx context.Context, service, paymentID string) (*domain.IntegrationRequest, error) {
	query := `SELECT ` + requestColumns + `
			  FROM integration_requests
			  WHERE integration_request_service = $1 AND gateway_payment_id = $2`

	row := r.q.QueryRow(ctx, query, service, paymentID)
	return scanRequest(row, paymentID)
}

// FindByStatus lists requests least recently modified first, so records the
// capture sweep touched without settling move behind the rest.
func (r *IntegrationRequestRepository) FindByStatus(ctx context.Context, service string, status domain.RequestStatus, limit int) ([]*domain.IntegrationRequest, error) {
	query := `SELECT ` + requestColumns + `
			  FROM integration_requests
			  WHERE integration_request_service = $1 AND status = $2
			  ORDER BY modified_at ASC, created_at ASC
			  LIMIT $3`

	rows, err := r.q.Query(ctx, query, service, status, limit)
	if err != nil {
		return nil, fmt.Errorf("query integration requests by status: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.IntegrationRequest, error) {
		return scanRequest(row, "")
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan integration requests: %w", err)
	}
	return results, nil
}

// UpdateStatus writes the status. modified_at is only bumped when
// touchModified is set.
func (r *IntegrationRequestRepository) UpdateStatus(ctx context.Context, name uuid.UUID, status domain.RequestStatus, touchModified bool) error {
	query := `UPDATE integration_requests
			  SET status = $1,
			      modified_at = CASE WHEN $2 THEN NOW() ELSE modified_at END
			  WHERE name = $3`

	cmdTag, err := r.q.Exec(ctx, query, status, touchModified, name)
	if err != nil {
		return fmt.Errorf("failed to update integration request status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.NewRequestNotFoundError(name.String())
	}
	return nil
}

func (r *IntegrationRequestRepository) MarkFailed(ctx context.Context, name uuid.UUID, trace string) error {
	query := `UPDATE integration_requests
			  SET status = $1, error = $2, modified_at = NOW()
			  WHERE name = $3`

	cmdTag, err := r.q.Exec(ctx, query, domain.StatusFailed, trace, name)
	if err != nil {
		return fmt.Errorf("failed to mark integration request failed: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.NewRequestNotFoundError(name.String())
	}
	return nil
}

// MarkReferenceNotified records that the referenced document accepted the
// authorization callback. modified_at is left alone.
func (r *IntegrationRequestRepository) MarkReferenceNotified(ctx context.Context, name uuid.UUID) error {
	query := `UPDATE integration_requests
			  SET reference_notified_at = NOW()
			  WHERE name = $1`

	cmdTag, err := r.q.Exec(ctx, query, name)
	if err != nil {
		return fmt.Errorf("failed to mark reference notified: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.NewRequestNotFoundError(name.String())
	}
	return nil
}

func scanRequest(row pgx.Row, key string) (*domain.IntegrationRequest, error) {
	var req domain.IntegrationRequest
	var data []byte
	err := row.Scan(
		&req.Name,
		&req.IntegrationType,
		&req.Service,
		&req.GatewayPaymentID,
		&req.Status,
		&data,
		&req.Error,
		&req.ReferenceNotifiedAt,
		&req.CreatedAt,
		&req.ModifiedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewRequestNotFoundError(key)
		}
		return nil, fmt.Errorf("failed to scan integration request: %w", err)
	}
	req.Data = data
	return &req, nil
}
