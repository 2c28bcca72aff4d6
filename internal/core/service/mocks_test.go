package service_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/DanielPopoola/razorpay-integration/internal/core/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, req *domain.IntegrationRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockRepository) FindByName(ctx context.Context, name uuid.UUID) (*domain.IntegrationRequest, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IntegrationRequest), args.Error(1)
}

func (m *MockRepository) FindByGatewayPaymentID(ctx context.Context, service, paymentID string) (*domain.IntegrationRequest, error) {
	args := m.Called(ctx, service, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IntegrationRequest), args.Error(1)
}

func (m *MockRepository) FindByStatus(ctx context.Context, service string, status domain.RequestStatus, limit int) ([]*domain.IntegrationRequest, error) {
	args := m.Called(ctx, service, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.IntegrationRequest), args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, name uuid.UUID, status domain.RequestStatus, touchModified bool) error {
	args := m.Called(ctx, name, status, touchModified)
	return args.Error(0)
}

func (m *MockRepository) MarkReferenceNotified(ctx context.Context, name uuid.UUID) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockRepository) MarkFailed(ctx context.Context, name uuid.UUID, trace string) error {
	args := m.Called(ctx, name, trace)
	return args.Error(0)
}

type MockSettingsStore struct {
	mock.Mock
}

func (m *MockSettingsStore) LoadSettings(ctx context.Context, service string) ([]byte, error) {
	args := m.Called(ctx, service)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSettingsStore) SaveSettings(ctx context.Context, service string, settings []byte, useTestAccount bool) error {
	args := m.Called(ctx, service, settings, useTestAccount)
	return args.Error(0)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) ValidateCredentials(ctx context.Context, settings domain.Settings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *MockGateway) FetchPayment(ctx context.Context, settings domain.Settings, paymentID string) (*domain.GatewayPayment, error) {
	args := m.Called(ctx, settings, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GatewayPayment), args.Error(1)
}

func (m *MockGateway) CapturePayment(ctx context.Context, settings domain.Settings, paymentID string, amount int64) (*domain.GatewayPayment, error) {
	args := m.Called(ctx, settings, paymentID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GatewayPayment), args.Error(1)
}

type MockMessageStore struct {
	mock.Mock
}

func (m *MockMessageStore) Save(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageStore) Get(ctx context.Context, id string) (*domain.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

type MockReferences struct {
	mock.Mock
}

func (m *MockReferences) OnPaymentAuthorized(ctx context.Context, doctype, docname, status string) (string, error) {
	args := m.Called(ctx, doctype, docname, status)
	return args.String(0), args.Error(1)
}
