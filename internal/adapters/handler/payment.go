package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/DanielPopoola/razorpay-integration/internal/core/service"
)

type MakePaymentRequest struct {
	RazorpayPaymentID string          `json:"razorpay_payment_id"`
	Options           json.RawMessage `json:"options"`
	ReferenceDoctype  string          `json:"reference_doctype"`
	ReferenceDocname  string          `json:"reference_docname"`
}

// HandleMakePayment is called by the checkout page once the payer completes
// the Razorpay widget. The outcome travels in the body; the HTTP status is
// 200 whenever the request could be read.
func (h *RazorpayHandler) HandleMakePayment(w http.ResponseWriter, r *http.Request) {
	var req MakePaymentRequest

	if isJSON(r) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			respondWithError(w, err)
			return
		}
		if err := json.Unmarshal(body, &req); err != nil {
			respondWithError(w, validationError(err))
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			respondWithError(w, validationError(err))
			return
		}
		req = MakePaymentRequest{
			RazorpayPaymentID: r.PostForm.Get("razorpay_payment_id"),
			ReferenceDoctype:  r.PostForm.Get("reference_doctype"),
			ReferenceDocname:  r.PostForm.Get("reference_docname"),
		}
		if options := r.PostForm.Get("options"); options != "" {
			req.Options = json.RawMessage(options)
		}
	}

	result := h.payments.CreateRequest(r.Context(), service.MakePaymentCommand{
		RazorpayPaymentID: req.RazorpayPaymentID,
		Options:           req.Options,
		ReferenceDoctype:  req.ReferenceDoctype,
		ReferenceDocname:  req.ReferenceDocname,
	})

	respondWithJSON(w, http.StatusOK, result)
}
