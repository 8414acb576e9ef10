// Package events publishes product change notifications for other services.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Name string

const (
	ProductCreated Name = "product.created"
	ProductUpdated Name = "product.updated"
	ProductDeleted Name = "product.deleted"
)

// Event is the message body published for every successful write.
type Event struct {
	Name       Name      `json:"event"`
	ProductID  uuid.UUID `json:"id_product"`
	OccurredAt time.Time `json:"occurred_at"`
}

func New(name Name, productID uuid.UUID) Event {
	return Event{
		Name:       name,
		ProductID:  productID,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
