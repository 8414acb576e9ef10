package models

import (
	"encoding/json"
	"testing"
)

func TestUpdateProductRequest_Decode(t *testing.T) {
	var req UpdateProductRequest
	if err := json.Unmarshal([]byte(`{"price":999,"description":null}`), &req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.Name.Set {
		t.Error("absent name reported as set")
	}
	if !req.Price.Set || req.Price.Null || req.Price.Value != 999 {
		t.Errorf("unexpected price %+v", req.Price)
	}
	if !req.Description.Set || !req.Description.Null {
		t.Errorf("expected explicit null description, got %+v", req.Description)
	}
	if req.Description.Any() != nil {
		t.Errorf("expected nil for null, got %v", req.Description.Any())
	}
	if req.Price.Any() != 999 {
		t.Errorf("expected 999, got %v", req.Price.Any())
	}
}

func TestOptional_WrongType(t *testing.T) {
	var req UpdateProductRequest
	if err := json.Unmarshal([]byte(`{"quantity":"ten"}`), &req); err == nil {
		t.Error("expected an error for a string quantity")
	}
}

func TestOptional_Marshal(t *testing.T) {
	tests := []struct {
		name     string
		value    Optional[string]
		expected string
	}{
		{"unset", Optional[string]{}, "null"},
		{"null", Null[string](), "null"},
		{"value", Some("Tools"), `"Tools"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.value)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(data) != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, data)
			}
		})
	}
}
