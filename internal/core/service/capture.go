package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/DanielPopoola/razorpay-integration/internal/core/domain"
	"github.com/DanielPopoola/razorpay-integration/internal/core/ports"
)

// SweepOptions controls a capture sweep. In sandbox mode the gateway is not
// called and SandboxResponse stands in for its answer.
type SweepOptions struct {
	Sandbox         bool
	SandboxResponse *domain.GatewayPayment
}

type SweepSummary struct {
	Processed int
	Completed int
	Failed    int
	// Pending counts records the gateway did not report as captured.
	Pending int
}

type CaptureService struct {
	repo      ports.IntegrationRequestRepository
	gateway   ports.Gateway
	settings  *SettingsService
	batchSize int
	logger    *slog.Logger
}

func NewCaptureService(
	repo ports.IntegrationRequestRepository,
	gateway ports.Gateway,
	settings *SettingsService,
	batchSize int,
	logger *slog.Logger,
) *CaptureService {
	return &CaptureService{
		repo:      repo,
		gateway:   gateway,
		settings:  settings,
		batchSize: batchSize,
		logger:    logger,
	}
}

// CaptureAuthorized captures every Authorized request. A failure on one record
// marks it Failed and the sweep moves on; only listing errors and missing
// credentials abort the sweep.
func (s *CaptureService) CaptureAuthorized(ctx context.Context, opts SweepOptions) (SweepSummary, error) {
	var summary SweepSummary

	requests, err := s.repo.FindByStatus(ctx, domain.ServiceName, domain.StatusAuthorized, s.batchSize)
	if err != nil {
		return summary, fmt.Errorf("list authorized requests: %w", err)
	}
	if len(requests) == 0 {
		return summary, nil
	}

	var settings *domain.Settings
	if !opts.Sandbox {
		settings, err = s.settings.Require(ctx)
		if err != nil {
			return summary, err
		}
	}

	for _, req := range requests {
		if ctx.Err() != nil {
			s.logger.Info("capture sweep interrupted", "processed", summary.Processed)
			return summary, ctx.Err()
		}

		summary.Processed++
		captured, err := s.captureOne(ctx, req, settings, opts)
		switch {
		case err != nil:
			s.logger.Error("capture failed",
				"name", req.Name,
				"razorpay_payment_id", req.GatewayPaymentID,
				"error", err)
			if s.markFailed(ctx, req, err) {
				summary.Failed++
			}
		case captured:
			summary.Completed++
		default:
			summary.Pending++
			s.requeue(ctx, req)
		}
	}

	s.logger.Info("capture sweep finished",
		"processed", summary.Processed,
		"completed", summary.Completed,
		"failed", summary.Failed,
		"pending", summary.Pending)
	return summary, nil
}

func (s *CaptureService) captureOne(ctx context.Context, req *domain.IntegrationRequest, settings *domain.Settings, opts SweepOptions) (captured bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &panicError{value: rec, stack: debug.Stack()}
		}
	}()

	data, err := req.Payload()
	if err != nil {
		return false, err
	}

	var resp *domain.GatewayPayment
	if opts.Sandbox {
		resp = opts.SandboxResponse
		if resp == nil {
			return false, errors.New("sandbox sweep has no gateway response")
		}
	} else {
		amount, err := data.AmountInSubunits()
		if err != nil {
			return false, err
		}
		resp, err = s.gateway.CapturePayment(ctx, *settings, data.RazorpayPaymentID, amount)
		if err != nil {
			return false, err
		}
	}

	if !resp.IsCaptured() {
		s.logger.Warn("payment not captured, leaving authorized",
			"name", req.Name,
			"razorpay_payment_id", data.RazorpayPaymentID,
			"gateway_status", resp.Status)
		return false, nil
	}

	if err := req.CanTransitionTo(domain.StatusCompleted); err != nil {
		return false, err
	}
	if err := s.repo.UpdateStatus(ctx, req.Name, domain.StatusCompleted, true); err != nil {
		return false, fmt.Errorf("mark %s completed: %w", req.Name, err)
	}
	req.Status = domain.StatusCompleted

	s.logger.Info("payment captured",
		"name", req.Name,
		"razorpay_payment_id", data.RazorpayPaymentID)
	return true, nil
}

// requeue touches an uncaptured record so the next sweep reaches the records
// behind it before retrying this one.
func (s *CaptureService) requeue(ctx context.Context, req *domain.IntegrationRequest) {
	if err := s.repo.UpdateStatus(ctx, req.Name, domain.StatusAuthorized, true); err != nil {
		s.logger.Error("failed to requeue uncaptured request", "name", req.Name, "error", err)
	}
}

// markFailed re-reads the record so the failure lands on its current state.
func (s *CaptureService) markFailed(ctx context.Context, req *domain.IntegrationRequest, cause error) bool {
	current, err := s.repo.FindByName(ctx, req.Name)
	if err != nil {
		s.logger.Error("failed to reload request for failure", "name", req.Name, "error", err)
		return false
	}
	if err := current.CanTransitionTo(domain.StatusFailed); err != nil {
		s.logger.Warn("request can no longer fail", "name", req.Name, "status", current.Status)
		return false
	}

	if err := s.repo.MarkFailed(ctx, req.Name, errorTrace(cause)); err != nil {
		s.logger.Error("failed to mark request failed", "name", req.Name, "error", err)
		return false
	}
	req.Status = domain.StatusFailed
	return true
}

type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

// errorTrace renders the error chain. A recovered panic also carries the stack
// of the goroutine that panicked.
func errorTrace(err error) string {
	var b strings.Builder
	for e := err; e != nil; e = errors.Unwrap(e) {
		b.WriteString(e.Error())
		b.WriteString("\n")
	}

	var p *panicError
	if errors.As(err, &p) {
		b.Write(p.stack)
	}
	return b.String()
}
