// Package redis keeps short-lived user-facing messages shown after redirects.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DanielPopoola/razorpay-integration/internal/core/domain"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "razorpay:message:"

type MessageStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewMessageStore(client *redis.Client, ttl time.Duration) *MessageStore {
	return &MessageStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *MessageStore) Save(ctx context.Context, msg *domain.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+msg.ID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("store message %s: %w", msg.ID, err)
	}
	return nil
}

func (s *MessageStore) Get(ctx context.Context, id string) (*domain.Message, error) {
	payload, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.NewMessageNotFoundError(id)
		}
		return nil, fmt.Errorf("load message %s: %w", id, err)
	}

	var msg domain.Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("decode message %s: %w", id, err)
	}
	return &msg, nil
}

// Connect builds a client and checks the server answers.
func Connect(ctx context.Context, opts *redis.Options) (*redis.Client, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}
	return client, nil
}
