package service

import (
	"context"
	"log/slog"

	"github.com/Lixing-Zhang/products-api/internal/events"
	"github.com/Lixing-Zhang/products-api/internal/models"
	"github.com/Lixing-Zhang/products-api/internal/repository"
	"github.com/Lixing-Zhang/products-api/internal/servererrors"
	"github.com/google/uuid"
)

// Messages returned to clients.
const (
	MsgNoProducts      = "There are no products to get."
	MsgProductNotFound = "Product not found."
	MsgGuardFailed     = "Guard failed."
	MsgNoFieldsToSet   = "No fields to update."

	MsgGetFailed    = "Error trying to get the products."
	MsgCreateFailed = "Error trying to create the product."
	MsgUpdateFailed = "Error trying to update the product."
	MsgDeleteFailed = "Error trying to delete the product."
)

// ProductService is the data-access layer for products. Every method returns
// either rows from the store or a *servererrors.ServerError; store faults are
// never returned as-is.
type ProductService struct {
	repo      repository.ProductRepository
	publisher events.Publisher
	logger    *slog.Logger
}

// NewProductService creates a new product service. A nil publisher disables
// change events.
func NewProductService(repo repository.ProductRepository, publisher events.Publisher, logger *slog.Logger) *ProductService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// ListProducts returns every product. An empty table is reported as not found.
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, classify(err, MsgGetFailed)
	}

	if len(products) == 0 {
		return nil, servererrors.NotFound(MsgNoProducts)
	}
	return products, nil
}

// GetProduct returns the rows matching id. An id that does not parse as a
// UUID cannot match and is reported as not found.
func (s *ProductService) GetProduct(ctx context.Context, rawID string) ([]models.Product, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	products, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, classify(err, MsgGetFailed)
	}

	if len(products) == 0 {
		return nil, servererrors.NotFound(MsgProductNotFound)
	}
	return products, nil
}

// CreateProduct stores a new product under a freshly generated id.
func (s *ProductService) CreateProduct(ctx context.Context, req models.CreateProductRequest) (models.Product, repository.WriteAck, error) {
	product := models.Product{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Quantity:    req.Quantity,
		Price:       req.Price,
		Category:    req.Category,
	}

	ack, err := s.repo.Insert(ctx, product)
	if err != nil {
		s.logger.DebugContext(ctx, "failed to create product", "error", err)
		return models.Product{}, ack, classify(err, MsgCreateFailed)
	}

	if !ack.Served() {
		return models.Product{}, ack, servererrors.BadRequest(MsgGuardFailed)
	}

	s.publish(ctx, events.ProductCreated, product.ID)
	return product, ack, nil
}

// UpdateProduct changes only the fields present in req.
func (s *ProductService) UpdateProduct(ctx context.Context, rawID string, req models.UpdateProductRequest) (repository.WriteAck, error) {
	id, err := parseID(rawID)
	if err != nil {
		return repository.WriteAck{}, err
	}

	if err := s.mustExist(ctx, id, MsgUpdateFailed); err != nil {
		return repository.WriteAck{}, err
	}

	set := assignments(req)
	if len(set) == 0 {
		return repository.WriteAck{}, servererrors.BadRequest(MsgNoFieldsToSet)
	}

	ack, err := s.repo.Update(ctx, id, set)
	if err != nil {
		return ack, classify(err, MsgUpdateFailed)
	}

	if !ack.Served() {
		return ack, servererrors.BadRequest(MsgGuardFailed)
	}

	s.publish(ctx, events.ProductUpdated, id)
	return ack, nil
}

// DeleteProduct removes the product with the given id.
func (s *ProductService) DeleteProduct(ctx context.Context, rawID string) (repository.WriteAck, error) {
	id, err := parseID(rawID)
	if err != nil {
		return repository.WriteAck{}, err
	}

	if err := s.mustExist(ctx, id, MsgDeleteFailed); err != nil {
		return repository.WriteAck{}, err
	}

	ack, err := s.repo.Delete(ctx, id)
	if err != nil {
		return ack, classify(err, MsgDeleteFailed)
	}

	if !ack.Served() {
		return ack, servererrors.BadRequest(MsgGuardFailed)
	}

	s.publish(ctx, events.ProductDeleted, id)
	return ack, nil
}

// Ping reports whether the store is reachable.
func (s *ProductService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// mustExist returns not found for a missing id; a failing lookup is reported
// with failMsg.
func (s *ProductService) mustExist(ctx context.Context, id uuid.UUID, failMsg string) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return classify(err, failMsg)
	}
	if !exists {
		return servererrors.NotFound(MsgProductNotFound)
	}
	return nil
}

func (s *ProductService) publish(ctx context.Context, name events.Name, id uuid.UUID) {
	if err := s.publisher.Publish(ctx, events.New(name, id)); err != nil {
		s.logger.WarnContext(ctx, "failed to publish product event",
			"event", name,
			"id_product", id,
			"error", err,
		)
	}
}

// classify keeps errors that already carry a status and turns everything
// else into an internal error with message.
func classify(err error, message string) error {
	if _, ok := servererrors.As(err); ok {
		return err
	}
	return servererrors.Internal(message, err)
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, servererrors.NotFound(MsgProductNotFound)
	}
	return id, nil
}

func assignments(req models.UpdateProductRequest) []repository.Assignment {
	var set []repository.Assignment

	if req.Name.Set {
		set = append(set, repository.Assignment{Column: repository.ColumnName, Value: req.Name.Any()})
	}
	if req.Description.Set {
		set = append(set, repository.Assignment{Column: repository.ColumnDescription, Value: req.Description.Any()})
	}
	if req.Quantity.Set {
		set = append(set, repository.Assignment{Column: repository.ColumnQuantity, Value: req.Quantity.Any()})
	}
	if req.Price.Set {
		set = append(set, repository.Assignment{Column: repository.ColumnPrice, Value: req.Price.Any()})
	}
	if req.Category.Set {
		set = append(set, repository.Assignment{Column: repository.ColumnCategory, Value: req.Category.Any()})
	}

	return set
}
