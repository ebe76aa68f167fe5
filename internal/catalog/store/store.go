// Package store provides an interface for catalog storage operations.
package store

import (
	"context"

	"github.com/evergreen/nursery/internal/catalog/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PageQuery describes one page of a sorted product listing.
type PageQuery struct {
	Skip  int64
	Limit int64
	Sort  string
	Desc  bool
}

// ProductStore is an interface for product storage operations.
// It abstracts the underlying document store, allowing for different implementations.
type ProductStore interface {
	// FindAll returns the entire products collection in natural order.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]model.Product, error)

	// FindPage returns one sorted page of products plus the total unfiltered
	// document count.
	FindPage(ctx context.Context, q PageQuery) ([]model.Product, int64, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error)

	// SearchByTitle returns products whose title contains the term,
	// case-insensitively.
	SearchByTitle(ctx context.Context, term string) ([]model.Product, error)

	// Insert adds a new document verbatim and returns the assigned identifier.
	Insert(ctx context.Context, doc model.Document) (primitive.ObjectID, error)

	// Update merges the supplied top-level fields into an existing document.
	// Returns the matched count; zero matched is not an error.
	Update(ctx context.Context, id primitive.ObjectID, fields model.Document) (int64, error)

	// Delete removes a document by its identifier and returns the deleted
	// count; zero deleted is not an error.
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)

	// DecrementQuantity atomically decrements a product's quantity field by
	// the given amount. Returns the matched count. Quantity may go negative.
	DecrementQuantity(ctx context.Context, id primitive.ObjectID, by int64) (int64, error)
}

// CategoryStore is an interface for category storage operations.
type CategoryStore interface {
	// FindAll returns the entire category collection in natural order.
	FindAll(ctx context.Context) ([]model.Category, error)

	// Insert adds a new document verbatim and returns the assigned identifier.
	Insert(ctx context.Context, doc model.Document) (primitive.ObjectID, error)

	// Update merges the supplied top-level fields into an existing document.
	// Returns the matched count; zero matched is not an error.
	Update(ctx context.Context, id primitive.ObjectID, fields model.Document) (int64, error)

	// Delete removes a document by its identifier and returns the deleted count.
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}
