package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/Lixing-Zhang/products-api/internal/models"
	"github.com/google/uuid"
)

// memoryHost is reported as the serving host of every in-memory write.
const memoryHost = "memory"

// InMemoryProductRepository implements ProductRepository with in-memory storage.
// Rows are returned in insertion order.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products map[uuid.UUID]models.Product
	order    []uuid.UUID
}

// NewInMemoryProductRepository creates an empty in-memory product repository
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: make(map[uuid.UUID]models.Product),
	}
}

// GetAll returns all products
func (r *InMemoryProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]models.Product, 0, len(r.order))
	for _, id := range r.order {
		products = append(products, r.products[id])
	}
	return products, nil
}

// GetByID returns the rows matching id: zero or one.
func (r *InMemoryProductRepository) GetByID(ctx context.Context, id uuid.UUID) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	product, exists := r.products[id]
	if !exists {
		return []models.Product{}, nil
	}
	return []models.Product{product}, nil
}

func (r *InMemoryProductRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.products[id]
	return exists, nil
}

// Insert stores product, replacing any row with the same id like a CQL insert.
func (r *InMemoryProductRepository) Insert(ctx context.Context, product models.Product) (WriteAck, error) {
	if err := ctx.Err(); err != nil {
		return WriteAck{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[product.ID]; !exists {
		r.order = append(r.order, product.ID)
	}
	r.products[product.ID] = product
	return WriteAck{Host: memoryHost}, nil
}

func (r *InMemoryProductRepository) Update(ctx context.Context, id uuid.UUID, set []Assignment) (WriteAck, error) {
	if err := ctx.Err(); err != nil {
		return WriteAck{}, err
	}
	if len(set) == 0 {
		return WriteAck{}, ErrNoAssignments
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	product, exists := r.products[id]
	if !exists {
		product = models.Product{ID: id}
		r.order = append(r.order, id)
	}

	for _, a := range set {
		if err := apply(&product, a); err != nil {
			return WriteAck{}, err
		}
	}

	r.products[id] = product
	return WriteAck{Host: memoryHost}, nil
}

func (r *InMemoryProductRepository) Delete(ctx context.Context, id uuid.UUID) (WriteAck, error) {
	if err := ctx.Err(); err != nil {
		return WriteAck{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[id]; exists {
		delete(r.products, id)
		for i, v := range r.order {
			if v == id {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	return WriteAck{Host: memoryHost}, nil
}

func (r *InMemoryProductRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func apply(p *models.Product, a Assignment) error {
	switch a.Column {
	case ColumnName:
		return assign(&p.Name, a)
	case ColumnDescription:
		return assign(&p.Description, a)
	case ColumnQuantity:
		return assign(&p.Quantity, a)
	case ColumnPrice:
		return assign(&p.Price, a)
	case ColumnCategory:
		return assign(&p.Category, a)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownColumn, a.Column)
	}
}

// assign mirrors how the driver reads a cleared column back: as the zero value.
func assign[T any](dst *T, a Assignment) error {
	if a.Value == nil {
		var zero T
		*dst = zero
		return nil
	}
	v, ok := a.Value.(T)
	if !ok {
		return fmt.Errorf("column %s: cannot assign %T", a.Column, a.Value)
	}
	*dst = v
	return nil
}
