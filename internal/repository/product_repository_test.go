package repository

import (
	"errors"
	"reflect"
	"testing"
)

func TestBuildUpdate(t *testing.T) {
	tests := []struct {
		name          string
		set           []Assignment
		expectedQuery string
		expectedArgs  []any
	}{
		{
			name:          "single column",
			set:           []Assignment{{Column: ColumnPrice, Value: 999}},
			expectedQuery: "UPDATE products SET price = ? WHERE id_product = ?",
			expectedArgs:  []any{999, "key"},
		},
		{
			name: "columns keep request order",
			set: []Assignment{
				{Column: ColumnCategory, Value: "Garden"},
				{Column: ColumnName, Value: "Rake"},
				{Column: ColumnQuantity, Value: 3},
			},
			expectedQuery: "UPDATE products SET category = ?, name = ?, quantity = ? WHERE id_product = ?",
			expectedArgs:  []any{"Garden", "Rake", 3, "key"},
		},
		{
			name:          "null clears column",
			set:           []Assignment{{Column: ColumnDescription, Value: nil}},
			expectedQuery: "UPDATE products SET description = ? WHERE id_product = ?",
			expectedArgs:  []any{nil, "key"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := BuildUpdate("key", tt.set)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if query != tt.expectedQuery {
				t.Errorf("expected query %q, got %q", tt.expectedQuery, query)
			}
			if !reflect.DeepEqual(args, tt.expectedArgs) {
				t.Errorf("expected args %v, got %v", tt.expectedArgs, args)
			}
		})
	}
}

func TestBuildUpdate_Errors(t *testing.T) {
	if _, _, err := BuildUpdate("key", nil); !errors.Is(err, ErrNoAssignments) {
		t.Errorf("expected ErrNoAssignments, got %v", err)
	}

	for _, column := range []string{ColumnID, "price; DROP TABLE products", ""} {
		_, _, err := BuildUpdate("key", []Assignment{{Column: column, Value: 1}})
		if !errors.Is(err, ErrUnknownColumn) {
			t.Errorf("column %q: expected ErrUnknownColumn, got %v", column, err)
		}
	}
}

func TestWriteAck_Served(t *testing.T) {
	if (WriteAck{}).Served() {
		t.Error("empty ack reported as served")
	}
	if !(WriteAck{Host: "10.0.0.1"}).Served() {
		t.Error("ack with host reported as not served")
	}
}
