package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/DanielPopoola/razorpay-integration/internal/core/domain"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondWithJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := APIResponse{
		Success: status >= 200 && status < 300,
	}

	if response.Success {
		response.Data = data
	} else {
		if apiErr, ok := data.(*APIError); ok {
			response.Error = apiErr
		}
	}

	_ = json.NewEncoder(w).Encode(response)
}

func respondWithError(w http.ResponseWriter, err error) {
	var domainErr *domain.DomainError
	code := "INTERNAL_ERROR"
	message := "internal server error"
	status := http.StatusInternalServerError

	if errors.As(err, &domainErr) {
		code = domainErr.Code
		message = domainErr.Message

		switch domainErr.Code {
		case domain.ErrCodeCredential, domain.ErrCodeUnsupportedCurrency,
			domain.ErrCodeIncompleteRequest, domain.ErrCodeInvalidPayload, errCodeValidation:
			status = http.StatusExpectationFailed
		case domain.ErrCodeRequestNotFound, domain.ErrCodeMessageNotFound:
			status = http.StatusNotFound
		case domain.ErrCodeInvalidTransition, domain.ErrCodeDuplicateRequest, domain.ErrCodePaymentNotAuthorized,
			domain.ErrCodePaymentMismatch:
			status = http.StatusConflict
		case domain.ErrCodeGatewayCall:
			status = http.StatusBadGateway
		}
	}

	respondWithJSON(w, status, &APIError{
		Code:    code,
		Message: message,
	})
}

const errCodeValidation = "VALIDATION_ERROR"

func validationError(err error) error {
	return &domain.DomainError{
		Code:    errCodeValidation,
		Message: err.Error(),
	}
}

// renderPage writes an HTML page with the given status.
func renderPage(w http.ResponseWriter, name string, status int, data any) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	return pages.ExecuteTemplate(w, name, data)
}
