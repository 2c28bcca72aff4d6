package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/DanielPopoola/razorpay-integration/internal/core/domain"
	"github.com/DanielPopoola/razorpay-integration/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testAdminToken = "admin-token-0123456789"

type mockCheckout struct{ mock.Mock }

func (m *mockCheckout) GetPaymentURL(details map[string]any) (string, error) {
	args := m.Called(details)
	return args.String(0), args.Error(1)
}

func (m *mockCheckout) CheckoutContext(ctx context.Context, query url.Values) (*domain.CheckoutContext, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckoutContext), args.Error(1)
}

func (m *mockCheckout) ValidateTransactionCurrency(currency string) error {
	return m.Called(currency).Error(0)
}

type mockPayments struct{ mock.Mock }

func (m *mockPayments) CreateRequest(ctx context.Context, cmd service.MakePaymentCommand) *domain.PaymentResult {
	return m.Called(ctx, cmd).Get(0).(*domain.PaymentResult)
}

type mockSettings struct{ mock.Mock }

func (m *mockSettings) Enable(ctx context.Context, params domain.Settings, useTestAccount bool) error {
	return m.Called(ctx, params, useTestAccount).Error(0)
}

type mockMessages struct{ mock.Mock }

func (m *mockMessages) Get(ctx context.Context, id string) (*domain.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

type fixture struct {
	checkout *mockCheckout
	payments *mockPayments
	settings *mockSettings
	messages *mockMessages
	mux      *http.ServeMux
}

func newFixture() *fixture {
	f := &fixture{
		checkout: new(mockCheckout),
		payments: new(mockPayments),
		settings: new(mockSettings),
		messages: new(mockMessages),
		mux:      http.NewServeMux(),
	}
	h := NewRazorpayHandler(f.checkout, f.payments, f.settings, f.messages, testAdminToken,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	h.RegisterRoutes(f.mux)
	return f
}

func (f *fixture) do(r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, r)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleCheckoutPage(t *testing.T) {
	t.Run("renders page", func(t *testing.T) {
		f := newFixture()
		f.checkout.On("CheckoutContext", mock.Anything, mock.Anything).Return(&domain.CheckoutContext{
			APIKey:           "rzp_test_key",
			BrandImage:       "./brand.svg",
			Amount:           600,
			Title:            "Payment for bill : 111",
			ReferenceDoctype: "Payment Request",
			ReferenceDocname: "PR0001",
			PayerEmail:       "NuranVerkleij@example.com",
		}, nil)

		w := f.do(httptest.NewRequest(http.MethodGet, "/integrations/razorpay_checkout?amount=600", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Cache-Control"), "no-cache")
		body := w.Body.String()
		assert.Contains(t, body, "rzp_test_key")
		assert.Contains(t, body, "Payment for bill : 111")
		assert.Contains(t, body, "600.00")
		assert.Contains(t, body, "/api/method/razorpay/make_payment")
	})

	t.Run("incomplete link redirects", func(t *testing.T) {
		f := newFixture()
		f.checkout.On("CheckoutContext", mock.Anything, mock.Anything).
			Return(nil, &domain.RedirectError{Location: "/message?id=abc"})

		w := f.do(httptest.NewRequest(http.MethodGet, "/integrations/razorpay_checkout", nil))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/message?id=abc", w.Header().Get("Location"))
	})

	t.Run("configuration error shows message page", func(t *testing.T) {
		f := newFixture()
		f.checkout.On("CheckoutContext", mock.Anything, mock.Anything).Return(nil, domain.NewSettingsMissingError())

		w := f.do(httptest.NewRequest(http.MethodGet, "/integrations/razorpay_checkout", nil))

		assert.Equal(t, http.StatusExpectationFailed, w.Code)
		assert.Contains(t, w.Body.String(), domain.MsgSomethingWrongTitle)
	})
}

func TestHandleGetCheckoutURL(t *testing.T) {
	t.Run("query parameters", func(t *testing.T) {
		f := newFixture()
		f.checkout.On("GetPaymentURL", map[string]any{"amount": "600", "order_id": "111"}).
			Return(domain.CheckoutPath+"?amount=600&order_id=111", nil)

		w := f.do(httptest.NewRequest(http.MethodGet, "/api/method/razorpay/get_checkout_url?amount=600&order_id=111", nil))

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeEnvelope(t, w)
		assert.True(t, resp.Success)
		assert.Equal(t, map[string]any{"url": domain.CheckoutPath + "?amount=600&order_id=111"}, resp.Data)
	})

	t.Run("json body keeps numbers", func(t *testing.T) {
		f := newFixture()
		f.checkout.On("GetPaymentURL", map[string]any{"amount": json.Number("600"), "currency": "INR"}).
			Return("./integrations/razorpay_checkout?amount=600&currency=INR", nil)

		r := httptest.NewRequest(http.MethodPost, "/api/method/razorpay/get_checkout_url",
			strings.NewReader(`{"amount":600,"currency":"INR"}`))
		r.Header.Set("Content-Type", "application/json")
		w := f.do(r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("failure renders something went wrong", func(t *testing.T) {
		f := newFixture()
		f.checkout.On("GetPaymentURL", mock.Anything).Return("", errors.New(`encode "prefill": unsupported value`))

		r := httptest.NewRequest(http.MethodPost, "/api/method/razorpay/get_checkout_url",
			strings.NewReader(`{"prefill":{"email":"x@example.com"}}`))
		r.Header.Set("Content-Type", "application/json")
		w := f.do(r)

		assert.Equal(t, http.StatusExpectationFailed, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "No payment has been made.")
	})
}

func TestHandleMakePayment(t *testing.T) {
	t.Run("form post", func(t *testing.T) {
		f := newFixture()
		f.payments.On("CreateRequest", mock.Anything, service.MakePaymentCommand{
			RazorpayPaymentID: "pay_1",
			Options:           json.RawMessage(`{"amount":60000}`),
			ReferenceDoctype:  "Payment Request",
			ReferenceDocname:  "PR0001",
		}).Return(domain.NewSuccessResult("/orders/111"))

		form := url.Values{}
		form.Set("razorpay_payment_id", "pay_1")
		form.Set("options", `{"amount":60000}`)
		form.Set("reference_doctype", "Payment Request")
		form.Set("reference_docname", "PR0001")
		r := httptest.NewRequest(http.MethodPost, "/api/method/razorpay/make_payment", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		w := f.do(r)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeEnvelope(t, w)
		assert.Equal(t, map[string]any{"redirect_to": "/orders/111", "status": float64(200)}, resp.Data)
	})

	t.Run("json post with failure result", func(t *testing.T) {
		f := newFixture()
		f.payments.On("CreateRequest", mock.Anything, mock.MatchedBy(func(cmd service.MakePaymentCommand) bool {
			return cmd.RazorpayPaymentID == "pay_2" && string(cmd.Options) == `"{\"amount\":100}"`
		})).Return(domain.NewServerErrorResult("/message?id=err"))

		body, err := json.Marshal(map[string]any{
			"razorpay_payment_id": "pay_2",
			"options":             `{"amount":100}`,
		})
		require.NoError(t, err)
		r := httptest.NewRequest(http.MethodPost, "/api/method/razorpay/make_payment", bytes.NewReader(body))
		r.Header.Set("Content-Type", "application/json")

		w := f.do(r)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeEnvelope(t, w)
		assert.Equal(t, map[string]any{"redirect_to": "/message?id=err", "status": float64(401)}, resp.Data)
	})

	t.Run("malformed json", func(t *testing.T) {
		f := newFixture()
		r := httptest.NewRequest(http.MethodPost, "/api/method/razorpay/make_payment", strings.NewReader(`{`))
		r.Header.Set("Content-Type", "application/json")

		w := f.do(r)

		assert.Equal(t, http.StatusExpectationFailed, w.Code)
		f.payments.AssertNotCalled(t, "CreateRequest", mock.Anything, mock.Anything)
	})
}

func TestHandleMessage(t *testing.T) {
	t.Run("stored message keeps its status", func(t *testing.T) {
		f := newFixture()
		f.messages.On("Get", mock.Anything, "abc").
			Return(&domain.Message{ID: "abc", Title: domain.MsgServerErrorTitle, Body: domain.MsgServerErrorBody, HTTPStatus: 500}, nil)

		w := f.do(httptest.NewRequest(http.MethodGet, "/message?id=abc", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), domain.MsgServerErrorTitle)
	})

	t.Run("inline message", func(t *testing.T) {
		f := newFixture()
		msg := domain.NewMessage(domain.MsgMissingInfoTitle, domain.MsgMissingInfoBody, http.StatusBadRequest)

		w := f.do(httptest.NewRequest(http.MethodGet, msg.InlineLocation(), nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), domain.MsgMissingInfoTitle)
	})

	t.Run("expired message", func(t *testing.T) {
		f := newFixture()
		f.messages.On("Get", mock.Anything, "gone").Return(nil, domain.NewMessageNotFoundError("gone"))

		w := f.do(httptest.NewRequest(http.MethodGet, "/message?id=gone", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandlePaymentSuccess(t *testing.T) {
	w := newFixture().do(httptest.NewRequest(http.MethodGet, "/payment-success", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), domain.MsgPaymentSuccessTitle)
}

func TestAdminEndpoints(t *testing.T) {
	enableBody := `{"api_key":"rzp_test_key","api_secret":"rzp_test_secret","use_test_account":true}`

	t.Run("missing token", func(t *testing.T) {
		f := newFixture()
		r := httptest.NewRequest(http.MethodPost, "/api/integrations/razorpay/enable", strings.NewReader(enableBody))

		w := f.do(r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		f.settings.AssertNotCalled(t, "Enable", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("enable", func(t *testing.T) {
		f := newFixture()
		f.settings.On("Enable", mock.Anything, domain.Settings{APIKey: "rzp_test_key", APISecret: "rzp_test_secret"}, true).Return(nil)

		r := httptest.NewRequest(http.MethodPost, "/api/integrations/razorpay/enable", strings.NewReader(enableBody))
		r.Header.Set("Authorization", "Bearer "+testAdminToken)

		w := f.do(r)

		require.Equal(t, http.StatusOK, w.Code)
		f.settings.AssertExpectations(t)
	})

	t.Run("enable with rejected credentials", func(t *testing.T) {
		f := newFixture()
		f.settings.On("Enable", mock.Anything, mock.Anything, mock.Anything).
			Return(domain.NewCredentialError(errors.New("401")))

		r := httptest.NewRequest(http.MethodPost, "/api/integrations/razorpay/enable", strings.NewReader(enableBody))
		r.Header.Set("X-Admin-Token", testAdminToken)

		w := f.do(r)

		assert.Equal(t, http.StatusExpectationFailed, w.Code)
		resp := decodeEnvelope(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, domain.CredentialErrorMessage, resp.Error.Message)
	})

	t.Run("enable requires both fields", func(t *testing.T) {
		f := newFixture()
		r := httptest.NewRequest(http.MethodPost, "/api/integrations/razorpay/enable", strings.NewReader(`{"api_key":"k"}`))
		r.Header.Set("X-Admin-Token", testAdminToken)

		w := f.do(r)

		assert.Equal(t, http.StatusExpectationFailed, w.Code)
		assert.Equal(t, errCodeValidation, decodeEnvelope(t, w).Error.Code)
	})

	t.Run("validate currency", func(t *testing.T) {
		f := newFixture()
		f.checkout.On("ValidateTransactionCurrency", "USD").Return(domain.NewUnsupportedCurrencyError("USD"))

		r := httptest.NewRequest(http.MethodPost, "/api/integrations/razorpay/validate_currency", strings.NewReader(`{"currency":"USD"}`))
		r.Header.Set("X-Admin-Token", testAdminToken)

		w := f.do(r)

		assert.Equal(t, http.StatusExpectationFailed, w.Code)
		resp := decodeEnvelope(t, w)
		assert.Equal(t, domain.ErrCodeUnsupportedCurrency, resp.Error.Code)
		assert.Contains(t, resp.Error.Message, "'USD'")
	})
}

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{domain.NewGatewayCallError("fetch payment", errors.New("timeout")), http.StatusBadGateway},
		{domain.NewRequestNotFoundError("x"), http.StatusNotFound},
		{domain.NewInvalidTransitionError(domain.StatusFailed, domain.StatusAuthorized), http.StatusConflict},
		{domain.NewPaymentMismatchError("pay_1", "amount", "60000", "100"), http.StatusConflict},
		{errors.New("pq: connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		respondWithError(w, tt.err)
		assert.Equal(t, tt.status, w.Code, tt.err.Error())
	}

	w := httptest.NewRecorder()
	respondWithError(w, errors.New("pq: connection reset"))
	assert.NotContains(t, w.Body.String(), "pq:")
}
