package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/DanielPopoola/razorpay-integration/internal/core/domain"
	"github.com/DanielPopoola/razorpay-integration/internal/core/ports"
	"github.com/go-playground/validator"
)

type SettingsService struct {
	store    ports.SettingsStore
	gateway  ports.Gateway
	validate *validator.Validate
	logger   *slog.Logger
}

func NewSettingsService(store ports.SettingsStore, gateway ports.Gateway, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		store:    store,
		gateway:  gateway,
		validate: validator.New(),
		logger:   logger,
	}
}

// Get returns params when given, otherwise the stored credentials.
// A nil result with no error means nothing is configured.
func (s *SettingsService) Get(ctx context.Context, params *domain.Settings) (*domain.Settings, error) {
	if params != nil {
		return domain.ResolveSettings(params, nil)
	}

	stored, err := s.store.LoadSettings(ctx, domain.ServiceName)
	if err != nil {
		return nil, fmt.Errorf("load %s settings: %w", domain.ServiceName, err)
	}
	return domain.ResolveSettings(nil, stored)
}

// Require is Get(ctx, nil) that treats missing credentials as an error.
func (s *SettingsService) Require(ctx context.Context) (*domain.Settings, error) {
	settings, err := s.Get(ctx, nil)
	if err != nil {
		return nil, err
	}
	if settings == nil || settings.APIKey == "" {
		return nil, domain.NewSettingsMissingError()
	}
	return settings, nil
}

// ValidateCredentials checks the key pair against the gateway. Nothing is checked
// when no API key is supplied.
func (s *SettingsService) ValidateCredentials(ctx context.Context, params domain.Settings) error {
	if params.APIKey == "" {
		return nil
	}

	if err := s.gateway.ValidateCredentials(ctx, params); err != nil {
		s.logger.Warn("gateway rejected credentials",
			"api_key", params.APIKey,
			"error", err)
		return domain.NewCredentialError(err)
	}
	return nil
}

// Enable validates and stores the credentials for the service.
func (s *SettingsService) Enable(ctx context.Context, params domain.Settings, useTestAccount bool) error {
	if err := s.validate.Struct(params); err != nil {
		return domain.NewCredentialError(err)
	}
	if err := s.ValidateCredentials(ctx, params); err != nil {
		return err
	}

	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.store.SaveSettings(ctx, domain.ServiceName, raw, useTestAccount); err != nil {
		return fmt.Errorf("save %s settings: %w", domain.ServiceName, err)
	}

	s.logger.Info("integration enabled",
		"service", domain.ServiceName,
		"use_test_account", useTestAccount)
	return nil
}
