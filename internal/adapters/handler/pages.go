package handler

import (
	"net/http"

	"github.com/DanielPopoola/razorpay-integration/internal/core/domain"
)

func (h *RazorpayHandler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if id := query.Get("id"); id != "" {
		msg, err := h.messages.Get(r.Context(), id)
		if err != nil {
			if !domain.IsErrorCode(err, domain.ErrCodeMessageNotFound) {
				h.logger.Error("failed to load message", "id", id, "error", err)
			}
			h.renderMessage(w, &domain.Message{Title: "Not Found", Body: "This message has expired.", HTTPStatus: http.StatusNotFound})
			return
		}
		h.renderMessage(w, msg)
		return
	}

	if msg := domain.MessageFromQuery(query); msg != nil {
		h.renderMessage(w, msg)
		return
	}

	h.renderMessage(w, &domain.Message{Title: "Not Found", Body: "Nothing to show here.", HTTPStatus: http.StatusNotFound})
}

func (h *RazorpayHandler) HandlePaymentSuccess(w http.ResponseWriter, r *http.Request) {
	h.renderMessage(w, domain.NewMessage(domain.MsgPaymentSuccessTitle, domain.MsgPaymentSuccessBody, http.StatusOK))
}

func (h *RazorpayHandler) renderMessage(w http.ResponseWriter, msg *domain.Message) {
	status := msg.HTTPStatus
	if status == 0 {
		status = http.StatusOK
	}
	if err := renderPage(w, "message.html", status, msg); err != nil {
		h.logger.Error("failed to render message page", "title", msg.Title, "error", err)
	}
}
