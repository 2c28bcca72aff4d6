package handler

import (
	"context"
	"crypto/subtle"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/DanielPopoola/razorpay-integration/internal/core/domain"
	"github.com/DanielPopoola/razorpay-integration/internal/core/service"
	"github.com/go-playground/validator"
)

// MakePaymentPath receives the checkout page's post-back.
const MakePaymentPath = "/api/method/razorpay/make_payment"

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type CheckoutService interface {
	GetPaymentURL(details map[string]any) (string, error)
	CheckoutContext(ctx context.Context, query url.Values) (*domain.CheckoutContext, error)
	ValidateTransactionCurrency(currency string) error
}

type PaymentService interface {
	CreateRequest(ctx context.Context, cmd service.MakePaymentCommand) *domain.PaymentResult
}

type SettingsService interface {
	Enable(ctx context.Context, params domain.Settings, useTestAccount bool) error
}

type MessageService interface {
	Get(ctx context.Context, id string) (*domain.Message, error)
}

type RazorpayHandler struct {
	checkout   CheckoutService
	payments   PaymentService
	settings   SettingsService
	messages   MessageService
	adminToken string
	validate   *validator.Validate
	logger     *slog.Logger
}

func NewRazorpayHandler(
	checkout CheckoutService,
	payments PaymentService,
	settings SettingsService,
	messages MessageService,
	adminToken string,
	logger *slog.Logger,
) *RazorpayHandler {
	return &RazorpayHandler{
		checkout:   checkout,
		payments:   payments,
		settings:   settings,
		messages:   messages,
		adminToken: adminToken,
		validate:   validator.New(),
		logger:     logger,
	}
}

func (h *RazorpayHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /integrations/razorpay_checkout", h.HandleCheckoutPage)
	mux.HandleFunc("GET /api/method/razorpay/get_checkout_url", h.HandleGetCheckoutURL)
	mux.HandleFunc("POST /api/method/razorpay/get_checkout_url", h.HandleGetCheckoutURL)
	mux.HandleFunc("POST "+MakePaymentPath, h.HandleMakePayment)
	mux.HandleFunc("GET "+domain.MessagePath, h.HandleMessage)
	mux.HandleFunc("GET /"+domain.DefaultSuccessRedirect, h.HandlePaymentSuccess)
	mux.HandleFunc("GET /health", h.HandleHealth)

	mux.Handle("POST /api/integrations/razorpay/enable", h.requireAdmin(http.HandlerFunc(h.HandleEnable)))
	mux.Handle("POST /api/integrations/razorpay/validate_currency", h.requireAdmin(http.HandlerFunc(h.HandleValidateCurrency)))
}

func (h *RazorpayHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireAdmin accepts the token as a bearer credential or X-Admin-Token.
func (h *RazorpayHandler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-Admin-Token")
		if bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
			token = bearer
		}

		if h.adminToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.adminToken)) != 1 {
			h.logger.Warn("rejected admin request", "path", r.URL.Path, "remote_addr", r.RemoteAddr)
			respondWithJSON(w, http.StatusUnauthorized, &APIError{
				Code:    "UNAUTHORIZED",
				Message: "admin token required",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
