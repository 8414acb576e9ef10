package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestEvent_JSON(t *testing.T) {
	id := uuid.New()
	event := New(ProductUpdated, id)

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body["event"] != "product.updated" {
		t.Errorf("expected event product.updated, got %v", body["event"])
	}
	if body["id_product"] != id.String() {
		t.Errorf("expected id_product %s, got %v", id, body["id_product"])
	}
	if _, ok := body["occurred_at"]; !ok {
		t.Error("expected occurred_at")
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}

	if err := p.Publish(context.Background(), New(ProductCreated, uuid.New())); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewAMQPPublisher_InvalidURL(t *testing.T) {
	if _, err := NewAMQPPublisher("not-a-url", "products.events"); err == nil {
		t.Error("expected an error for an invalid url")
	}
}
