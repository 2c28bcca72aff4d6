package handler

import (
	"encoding/json"
	"net/http"

	"github.com/DanielPopoola/razorpay-integration/internal/core/domain"
)

type EnableRequest struct {
	APIKey         string `json:"api_key" validate:"required"`
	APISecret      string `json:"api_secret" validate:"required"`
	UseTestAccount bool   `json:"use_test_account"`
}

type ValidateCurrencyRequest struct {
	Currency string `json:"currency" validate:"required"`
}

// HandleEnable checks the key pair against Razorpay and stores it.
func (h *RazorpayHandler) HandleEnable(w http.ResponseWriter, r *http.Request) {
	var req EnableRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondWithError(w, validationError(err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithError(w, validationError(err))
		return
	}

	settings := domain.Settings{APIKey: req.APIKey, APISecret: req.APISecret}
	if err := h.settings.Enable(r.Context(), settings, req.UseTestAccount); err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"service":          domain.ServiceName,
		"enabled":          true,
		"use_test_account": req.UseTestAccount,
	})
}

func (h *RazorpayHandler) HandleValidateCurrency(w http.ResponseWriter, r *http.Request) {
	var req ValidateCurrencyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondWithError(w, validationError(err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithError(w, validationError(err))
		return
	}

	if err := h.checkout.ValidateTransactionCurrency(req.Currency); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"currency": req.Currency})
}
