// Package razorpay talks to the Razorpay payments API through razorpay-go.
package razorpay

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DanielPopoola/razorpay-integration/internal/core/domain"
	rzp "github.com/razorpay/razorpay-go"
)

// PaymentsAPI is the slice of the razorpay-go payment resource used here.
type PaymentsAPI interface {
	All(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
	Fetch(paymentID string, queryParams map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
	Capture(paymentID string, amount int, data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// ClientFactory returns the payments API for a key pair.
type ClientFactory func(settings domain.Settings) PaymentsAPI

func SDKClient(settings domain.Settings) PaymentsAPI {
	return rzp.NewClient(settings.APIKey, settings.APISecret).Payment
}

// Gateway builds a fresh client per call since credentials can change at runtime.
type Gateway struct {
	newClient ClientFactory
	logger    *slog.Logger
}

func NewGateway(newClient ClientFactory, logger *slog.Logger) *Gateway {
	if newClient == nil {
		newClient = SDKClient
	}
	return &Gateway{
		newClient: newClient,
		logger:    logger,
	}
}

// ValidateCredentials lists payments, which any valid key pair may do.
func (g *Gateway) ValidateCredentials(ctx context.Context, settings domain.Settings) error {
	_, err := call(ctx, func() (map[string]interface{}, error) {
		return g.newClient(settings).All(map[string]interface{}{"count": 1}, nil)
	})
	if err != nil {
		return domain.NewGatewayCallError("list payments", err)
	}
	return nil
}

func (g *Gateway) FetchPayment(ctx context.Context, settings domain.Settings, paymentID string) (*domain.GatewayPayment, error) {
	resp, err := call(ctx, func() (map[string]interface{}, error) {
		return g.newClient(settings).Fetch(paymentID, nil, nil)
	})
	if err != nil {
		return nil, domain.NewGatewayCallError("fetch payment", err)
	}

	payment := toGatewayPayment(resp)
	g.logger.Debug("fetched payment",
		"razorpay_payment_id", paymentID,
		"status", payment.Status)
	return payment, nil
}

func (g *Gateway) CapturePayment(ctx context.Context, settings domain.Settings, paymentID string, amount int64) (*domain.GatewayPayment, error) {
	resp, err := call(ctx, func() (map[string]interface{}, error) {
		return g.newClient(settings).Capture(paymentID, int(amount), map[string]interface{}{}, nil)
	})
	if err != nil {
		return nil, domain.NewGatewayCallError("capture payment", err)
	}

	payment := toGatewayPayment(resp)
	g.logger.Debug("capture response",
		"razorpay_payment_id", paymentID,
		"amount", amount,
		"status", payment.Status)
	return payment, nil
}

type result struct {
	body map[string]interface{}
	err  error
}

// call runs a blocking SDK request but gives up when ctx is done. The SDK has
// no context support, so the request itself keeps running in the background.
func call(ctx context.Context, fn func() (map[string]interface{}, error)) (map[string]interface{}, error) {
	done := make(chan result, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- result{err: fmt.Errorf("razorpay client panic: %v", rec)}
			}
		}()
		body, err := fn()
		done <- result{body: body, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.body, r.err
	}
}
