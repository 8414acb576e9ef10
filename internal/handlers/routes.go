package handlers

import (
	"net/http"

	"github.com/Lixing-Zhang/products-api/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// Routes returns the product route table, meant to be mounted at /products.
// Every handler goes through middleware.ErrorHandler. writeGuard, if not nil,
// protects the routes that modify products.
func (h *ProductHandler) Routes(writeGuard func(http.Handler) http.Handler) chi.Router {
	wrap := middleware.ErrorHandler(h.logger)

	r := chi.NewRouter()

	r.Get("/", wrap(h.ListProducts))
	r.Get("/{id}", wrap(h.GetProduct))

	// no id: always 400, whatever the credentials or body
	r.Put("/", wrap(h.MissingID))
	r.Delete("/", wrap(h.MissingID))

	r.Group(func(r chi.Router) {
		if writeGuard != nil {
			r.Use(writeGuard)
		}

		r.Post("/", wrap(h.CreateProduct))
		r.Put("/{id}", wrap(h.UpdateProduct))
		r.Delete("/{id}", wrap(h.DeleteProduct))
	})

	return r
}
