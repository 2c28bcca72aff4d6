package service

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/DanielPopoola/razorpay-integration/internal/core/domain"
)

type CheckoutService struct {
	settings   *SettingsService
	messenger  *Messenger
	brandImage string
}

func NewCheckoutService(settings *SettingsService, messenger *Messenger, brandImage string) *CheckoutService {
	return &CheckoutService{
		settings:   settings,
		messenger:  messenger,
		brandImage: brandImage,
	}
}

func (s *CheckoutService) GetPaymentURL(details map[string]any) (string, error) {
	return domain.BuildCheckoutURL(details)
}

func (s *CheckoutService) ValidateTransactionCurrency(currency string) error {
	return domain.ValidateTransactionCurrency(currency)
}

// CheckoutContext builds the page context from the checkout query. An
// incomplete query yields a *domain.RedirectError pointing at a message page.
func (s *CheckoutService) CheckoutContext(ctx context.Context, query url.Values) (*domain.CheckoutContext, error) {
	page, err := domain.BuildCheckoutContext(query, "", s.brandImage)
	if err != nil {
		var incomplete *domain.IncompleteRequestError
		if errors.As(err, &incomplete) {
			location := s.messenger.RedirectTo(ctx,
				domain.MsgMissingInfoTitle, domain.MsgMissingInfoBody, http.StatusBadRequest)
			return nil, &domain.RedirectError{Location: location, Err: err}
		}
		return nil, err
	}

	settings, err := s.settings.Require(ctx)
	if err != nil {
		return nil, err
	}
	page.APIKey = settings.APIKey
	return page, nil
}
