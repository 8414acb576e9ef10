package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"path"

	"github.com/Lixing-Zhang/products-api/internal/models"
	"github.com/Lixing-Zhang/products-api/internal/repository"
	"github.com/Lixing-Zhang/products-api/internal/servererrors"
	"github.com/go-chi/chi/v5"
)

// productService is the data-access layer the handlers delegate to
type productService interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) ([]models.Product, error)
	CreateProduct(ctx context.Context, req models.CreateProductRequest) (models.Product, repository.WriteAck, error)
	UpdateProduct(ctx context.Context, id string, req models.UpdateProductRequest) (repository.WriteAck, error)
	DeleteProduct(ctx context.Context, id string) (repository.WriteAck, error)
}

// ProductHandler handles product-related HTTP requests. Its methods never
// write error responses; failures are returned to the error middleware.
type ProductHandler struct {
	service productService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service productService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// ListProducts handles GET /products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) error {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		return err
	}

	WriteJSON(w, http.StatusOK, products, h.logger)
	return nil
}

// GetProduct handles GET /products/{id}
// The body is an array holding the matching row.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) error {
	products, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}

	WriteJSON(w, http.StatusOK, products, h.logger)
	return nil
}

// CreateProduct handles POST /products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) error {
	var req models.CreateProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	product, _, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		return err
	}

	h.logger.InfoContext(r.Context(), "product created", "id_product", product.ID)

	w.Header().Set("Location", path.Join(r.URL.Path, product.ID.String()))
	WriteText(w, http.StatusCreated, "Product created.", h.logger)
	return nil
}

// UpdateProduct handles PUT /products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) error {
	var req models.UpdateProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	id := chi.URLParam(r, "id")
	if _, err := h.service.UpdateProduct(r.Context(), id, req); err != nil {
		return err
	}

	h.logger.InfoContext(r.Context(), "product updated", "id_product", id)

	WriteText(w, http.StatusCreated, "Product updated.", h.logger)
	return nil
}

// DeleteProduct handles DELETE /products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")
	if _, err := h.service.DeleteProduct(r.Context(), id); err != nil {
		return err
	}

	h.logger.InfoContext(r.Context(), "product deleted", "id_product", id)

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// MissingID handles PUT and DELETE on the collection, which need an id.
func (h *ProductHandler) MissingID(w http.ResponseWriter, r *http.Request) error {
	return servererrors.BadRequest(msgIDNotProvided)
}
