package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/DanielPopoola/razorpay-integration/internal/core/domain"
)

const maxBodyBytes = 1 << 20

type checkoutPage struct {
	*domain.CheckoutContext
	MakePaymentPath string
}

// HandleCheckoutPage renders the hosted checkout page. An incomplete link is
// redirected to a message page.
func (h *RazorpayHandler) HandleCheckoutPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.checkout.CheckoutContext(r.Context(), r.URL.Query())
	if err != nil {
		var redirect *domain.RedirectError
		if errors.As(err, &redirect) {
			http.Redirect(w, r, redirect.Location, http.StatusFound)
			return
		}

		h.logger.Error("failed to build checkout page", "error", err)
		h.renderMessage(w, domain.NewMessage(domain.MsgSomethingWrongTitle, domain.MsgSomethingWrongBody, http.StatusExpectationFailed))
		return
	}

	if err := renderPage(w, "checkout.html", http.StatusOK, checkoutPage{
		CheckoutContext: page,
		MakePaymentPath: MakePaymentPath,
	}); err != nil {
		h.logger.Error("failed to render checkout page", "error", err)
	}
}

// HandleGetCheckoutURL turns the request parameters into a checkout link.
// Any failure is shown to the caller as an HTML page.
func (h *RazorpayHandler) HandleGetCheckoutURL(w http.ResponseWriter, r *http.Request) {
	details, err := readDetails(r)
	if err == nil {
		var link string
		link, err = h.checkout.GetPaymentURL(details)
		if err == nil {
			respondWithJSON(w, http.StatusOK, map[string]string{"url": link})
			return
		}
	}

	h.logger.Warn("failed to build checkout url", "error", err)
	h.renderMessage(w, domain.NewMessage(domain.MsgSomethingWrongTitle, domain.MsgSomethingWrongBody, http.StatusExpectationFailed))
}

// readDetails accepts a JSON object body, or query and form values.
func readDetails(r *http.Request) (map[string]any, error) {
	if isJSON(r) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			return nil, err
		}
		details := map[string]any{}
		if len(bytes.TrimSpace(body)) == 0 {
			return details, nil
		}
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		if err := dec.Decode(&details); err != nil {
			return nil, fmt.Errorf("decode checkout details: %w", err)
		}
		return details, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	details := make(map[string]any, len(r.Form))
	for key := range r.Form {
		details[key] = r.Form.Get(key)
	}
	return details, nil
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}
