package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/DanielPopoola/razorpay-integration/internal/core/domain"
	"github.com/DanielPopoola/razorpay-integration/internal/core/ports"
)

// MakePaymentCommand is what the checkout page posts back after the payer
// completes the Razorpay widget.
type MakePaymentCommand struct {
	RazorpayPaymentID string
	Options           json.RawMessage
	ReferenceDoctype  string
	ReferenceDocname  string
}

type AuthorizationService struct {
	repo       ports.IntegrationRequestRepository
	gateway    ports.Gateway
	settings   *SettingsService
	references ports.ReferenceDocuments
	messenger  *Messenger
	logger     *slog.Logger
}

func NewAuthorizationService(
	repo ports.IntegrationRequestRepository,
	gateway ports.Gateway,
	settings *SettingsService,
	references ports.ReferenceDocuments,
	messenger *Messenger,
	logger *slog.Logger,
) *AuthorizationService {
	return &AuthorizationService{
		repo:       repo,
		gateway:    gateway,
		settings:   settings,
		references: references,
		messenger:  messenger,
		logger:     logger,
	}
}

// CreateRequest records the payment attempt and authorizes it. It never fails:
// any error, panics included, becomes a 401 result pointing at a server error
// message.
func (s *AuthorizationService) CreateRequest(ctx context.Context, cmd MakePaymentCommand) (result *domain.PaymentResult) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("payment creation panicked",
				"razorpay_payment_id", cmd.RazorpayPaymentID,
				"panic", rec,
				"stack", string(debug.Stack()))
			result = s.serverError(ctx)
		}
	}()

	result, err := s.createRequest(ctx, cmd)
	if err != nil {
		s.logger.Error("payment creation failed",
			"razorpay_payment_id", cmd.RazorpayPaymentID,
			"reference_doctype", cmd.ReferenceDoctype,
			"reference_docname", cmd.ReferenceDocname,
			"error", err)
		return s.serverError(ctx)
	}
	return result
}

func (s *AuthorizationService) createRequest(ctx context.Context, cmd MakePaymentCommand) (*domain.PaymentResult, error) {
	if cmd.RazorpayPaymentID == "" {
		return nil, domain.NewInvalidPayloadError(errors.New("razorpay_payment_id is required"))
	}

	raw, data, err := domain.MergePaymentOptions(cmd.Options, cmd.RazorpayPaymentID, cmd.ReferenceDoctype, cmd.ReferenceDocname)
	if err != nil {
		return nil, err
	}

	req, err := s.findOrCreate(ctx, data, raw)
	if err != nil {
		return nil, err
	}

	// A reused record carries the payload from its first submission.
	stored, err := req.Payload()
	if err != nil {
		return nil, err
	}
	return s.AuthorizePayment(ctx, req, stored)
}

// findOrCreate returns the record already tracking this payment id, creating
// one when none exists.
func (s *AuthorizationService) findOrCreate(ctx context.Context, data domain.PaymentData, raw json.RawMessage) (*domain.IntegrationRequest, error) {
	existing, err := s.repo.FindByGatewayPaymentID(ctx, domain.ServiceName, data.RazorpayPaymentID)
	if err == nil {
		s.logger.Info("reusing integration request",
			"name", existing.Name,
			"razorpay_payment_id", data.RazorpayPaymentID,
			"status", existing.Status)
		return existing, nil
	}
	if !domain.IsErrorCode(err, domain.ErrCodeRequestNotFound) {
		return nil, err
	}

	req := domain.NewIntegrationRequest(data, raw)
	if err := s.repo.Create(ctx, req); err != nil {
		if domain.IsErrorCode(err, domain.ErrCodeDuplicateRequest) {
			// Lost the insert race to a concurrent submission.
			return s.repo.FindByGatewayPaymentID(ctx, domain.ServiceName, data.RazorpayPaymentID)
		}
		return nil, err
	}

	s.logger.Info("integration request created",
		"name", req.Name,
		"razorpay_payment_id", data.RazorpayPaymentID)
	return req, nil
}

// AuthorizePayment confirms with the gateway that the payment is authorized,
// records it, and notifies the referenced document. A request already past
// authorization only notifies again when the earlier callback did not go
// through.
func (s *AuthorizationService) AuthorizePayment(ctx context.Context, req *domain.IntegrationRequest, data domain.PaymentData) (*domain.PaymentResult, error) {
	statusChangedTo, err := s.authorize(ctx, req, data)
	if err != nil {
		return nil, err
	}
	if statusChangedTo != domain.StatusAuthorized && !req.AwaitsReferenceNotification() {
		return domain.NewSuccessResult(""), nil
	}

	redirectTo, err := s.notifyReference(ctx, req, data)
	if err != nil {
		return nil, err
	}
	return domain.NewSuccessResult(redirectTo), nil
}

// authorize returns the status the request moved to during this call, or
// StatusQueued when nothing changed.
func (s *AuthorizationService) authorize(ctx context.Context, req *domain.IntegrationRequest, data domain.PaymentData) (domain.RequestStatus, error) {
	switch req.Status {
	case domain.StatusAuthorized, domain.StatusCompleted:
		return domain.StatusQueued, nil
	case domain.StatusFailed:
		return domain.StatusQueued, domain.NewInvalidTransitionError(req.Status, domain.StatusAuthorized)
	}

	settings, err := s.settings.Require(ctx)
	if err != nil {
		return domain.StatusQueued, err
	}

	payment, err := s.gateway.FetchPayment(ctx, *settings, data.RazorpayPaymentID)
	if err != nil {
		return domain.StatusQueued, err
	}
	if !payment.IsAuthorized() {
		return domain.StatusQueued, domain.NewPaymentNotAuthorizedError(data.RazorpayPaymentID, payment.Status)
	}
	if err := payment.MatchesCheckout(data); err != nil {
		return domain.StatusQueued, err
	}

	if err := req.CanTransitionTo(domain.StatusAuthorized); err != nil {
		return domain.StatusQueued, err
	}
	if err := s.repo.UpdateStatus(ctx, req.Name, domain.StatusAuthorized, false); err != nil {
		return domain.StatusQueued, fmt.Errorf("mark %s authorized: %w", req.Name, err)
	}
	req.Status = domain.StatusAuthorized

	s.logger.Info("payment authorized",
		"name", req.Name,
		"razorpay_payment_id", data.RazorpayPaymentID,
		"amount", payment.Amount,
		"currency", payment.Currency)
	return domain.StatusAuthorized, nil
}

// notifyReference runs the authorization callback and remembers that it went
// through, so a resubmission after a failed callback tries again.
func (s *AuthorizationService) notifyReference(ctx context.Context, req *domain.IntegrationRequest, data domain.PaymentData) (string, error) {
	if !data.HasReference() {
		return "", nil
	}
	if s.references == nil {
		s.logger.Warn("no reference callback configured, using default redirect",
			"reference_doctype", data.ReferenceDoctype,
			"reference_docname", data.ReferenceDocname)
		return "", nil
	}

	redirectTo, err := s.references.OnPaymentAuthorized(ctx, data.ReferenceDoctype, data.ReferenceDocname, string(domain.StatusAuthorized))
	if err != nil {
		return "", fmt.Errorf("notify %s %s: %w", data.ReferenceDoctype, data.ReferenceDocname, err)
	}

	// The document already has the event.
	if err := s.repo.MarkReferenceNotified(ctx, req.Name); err != nil {
		s.logger.Error("failed to record reference notification",
			"name", req.Name,
			"reference_doctype", data.ReferenceDoctype,
			"reference_docname", data.ReferenceDocname,
			"error", err)
	} else {
		now := time.Now().UTC()
		req.ReferenceNotifiedAt = &now
	}
	return redirectTo, nil
}

func (s *AuthorizationService) serverError(ctx context.Context) *domain.PaymentResult {
	location := s.messenger.RedirectTo(ctx,
		domain.MsgServerErrorTitle, domain.MsgServerErrorBody, http.StatusInternalServerError)
	return domain.NewServerErrorResult(location)
}
