package models

import (
	"github.com/google/uuid"
)

// Product is a row of the products table. JSON keys follow the column names.
type Product struct {
	ID          uuid.UUID `json:"id_product"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
	Price       int       `json:"price"`
	Category    string    `json:"category"`
}

// CreateProductRequest is the body of POST /products.
// Missing keys are stored as their zero value.
type CreateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Price       int    `json:"price"`
	Category    string `json:"category"`
}

// UpdateProductRequest is the body of PUT /products/{id}.
// A key left out of the body keeps the stored value, a key set to null
// clears the column.
type UpdateProductRequest struct {
	Name        Optional[string] `json:"name"`
	Description Optional[string] `json:"description"`
	Quantity    Optional[int]    `json:"quantity"`
	Price       Optional[int]    `json:"price"`
	Category    Optional[string] `json:"category"`
}
