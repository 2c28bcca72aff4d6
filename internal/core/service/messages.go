package service

import (
	"context"
	"log/slog"

	"github.com/DanielPopoola/razorpay-integration/internal/core/domain"
	"github.com/DanielPopoola/razorpay-integration/internal/core/ports"
)

// Messenger stores user-facing messages and hands back the page to redirect to.
type Messenger struct {
	store  ports.MessageStore
	logger *slog.Logger
}

func NewMessenger(store ports.MessageStore, logger *slog.Logger) *Messenger {
	return &Messenger{
		store:  store,
		logger: logger,
	}
}

// RedirectTo saves the message and returns its location. If the store is down
// the message travels in the query string instead.
func (m *Messenger) RedirectTo(ctx context.Context, title, body string, httpStatus int) string {
	msg := domain.NewMessage(title, body, httpStatus)
	if m.store == nil {
		return msg.InlineLocation()
	}

	if err := m.store.Save(ctx, msg); err != nil {
		m.logger.Warn("failed to store message, falling back to inline",
			"title", title,
			"error", err)
		return msg.InlineLocation()
	}
	return msg.Location()
}

func (m *Messenger) Get(ctx context.Context, id string) (*domain.Message, error) {
	if m.store == nil {
		return nil, domain.NewMessageNotFoundError(id)
	}
	return m.store.Get(ctx, id)
}
