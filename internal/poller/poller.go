package poller

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/segmentio/kafka-go"
	c "github.com/webstore/cart-service/internal/cache"
	r "github.com/webstore/cart-service/internal/repository"
)

// Poller consumes order-created events and deletes the corresponding
// cart; the order flow owns that transition, not the cart API.
type Poller struct {
	repo   r.CartRepository
	reader *kafka.Reader
	cache  c.CartCache
}

func NewPoller(repo r.CartRepository, cache c.CartCache, brokers ...string) *Poller {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    "order-events",
		GroupID:  "cart-service-consumer",
		MaxBytes: 10e6, // 10MB
	})
	return &Poller{repo, reader, cache}
}

func (p *Poller) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		p.consumeAndClearCart(ctx)
	}
}

func (p *Poller) Close() {
	if err := p.reader.Close(); err != nil {
		log.Printf("error closing reader: %v", err)
	}
}

func (p *Poller) consumeAndClearCart(ctx context.Context) {
	m, err := p.reader.ReadMessage(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Printf("error reading message: %v", err)
		}
		return
	}

	var payload struct {
		UserID string `json:"user_id"`
	}
	if errUnMarshal := json.Unmarshal(m.Value, &payload); errUnMarshal != nil {
		log.Printf("error parsing message: %v", errUnMarshal)
		return
	}
	if payload.UserID == "" {
		log.Println("missing or invalid user_id")
		return
	}

	if errDelete := p.repo.DeleteCart(ctx, payload.UserID); errDelete != nil {
		// Nothing to do when the user checked out an already-empty cart
		if errors.Is(errDelete, r.ErrCartNotFound) {
			return
		}
		log.Printf("error deleting cart for user %s: %v", payload.UserID, errDelete)
		return
	}

	if errCache := p.cache.Delete(ctx, payload.UserID); errCache != nil {
		log.Printf("error invalidating cache for user %s: %v", payload.UserID, errCache)
	}
}
