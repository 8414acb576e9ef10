package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Lixing-Zhang/products-api/internal/models"
	"github.com/google/uuid"
)

// Column names of the products table.
const (
	TableName = "products"

	ColumnID          = "id_product"
	ColumnName        = "name"
	ColumnDescription = "description"
	ColumnQuantity    = "quantity"
	ColumnPrice       = "price"
	ColumnCategory    = "category"
)

var (
	ErrNoAssignments = errors.New("update has no assignments")
	ErrUnknownColumn = errors.New("unknown column")
)

// WriteAck is the store's acknowledgment of a write. Host names the node that
// served it and is empty when no node did.
type WriteAck struct {
	Host string
}

// Served reports whether some host accepted the write.
func (a WriteAck) Served() bool {
	return a.Host != ""
}

// Assignment is a single "column = value" pair of an UPDATE. A nil Value
// clears the column.
type Assignment struct {
	Column string
	Value  any
}

// ProductRepository defines the interface for product data access.
// Reads return raw rows; an empty slice is not an error.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) ([]models.Product, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Insert(ctx context.Context, product models.Product) (WriteAck, error)
	Update(ctx context.Context, id uuid.UUID, set []Assignment) (WriteAck, error)
	Delete(ctx context.Context, id uuid.UUID) (WriteAck, error)
	Ping(ctx context.Context) error
}

var updatableColumns = map[string]bool{
	ColumnName:        true,
	ColumnDescription: true,
	ColumnQuantity:    true,
	ColumnPrice:       true,
	ColumnCategory:    true,
}

// BuildUpdate renders a parameterized UPDATE touching only the given columns.
// The key is bound last, as given, so callers pass it in the driver's type.
func BuildUpdate(key any, set []Assignment) (string, []any, error) {
	if len(set) == 0 {
		return "", nil, ErrNoAssignments
	}

	setClauses := make([]string, 0, len(set))
	queryParams := make([]any, 0, len(set)+1)

	for _, a := range set {
		if !updatableColumns[a.Column] {
			return "", nil, fmt.Errorf("%w: %q", ErrUnknownColumn, a.Column)
		}
		setClauses = append(setClauses, a.Column+" = ?")
		queryParams = append(queryParams, a.Value)
	}

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = ?",
		TableName,
		strings.Join(setClauses, ", "),
		ColumnID,
	)
	queryParams = append(queryParams, key)

	return query, queryParams, nil
}
