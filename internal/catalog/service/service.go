// Package service provides the implementation of catalog business logic.
package service

import (
	"context"
	"fmt"

	"github.com/evergreen/nursery/internal/catalog/model"
	"github.com/evergreen/nursery/internal/catalog/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultSortField orders product pages when the client does not name a field.
const DefaultSortField = "price"

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindAll returns the entire products collection.
	FindAll(ctx context.Context) ([]model.Product, error)

	// FindPage returns one sorted page of products plus the total unfiltered
	// document count.
	FindPage(ctx context.Context, q PageRequest) (*ProductPage, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error)

	// Search returns products whose title contains the term, case-insensitively.
	Search(ctx context.Context, term string) ([]model.Product, error)

	// Create inserts a client-supplied document verbatim and returns the
	// assigned identifier.
	Create(ctx context.Context, doc model.Document) (primitive.ObjectID, error)

	// Update merges the supplied top-level fields into an existing product.
	// Returns the matched count; zero matched is reported as success.
	Update(ctx context.Context, id primitive.ObjectID, fields model.Document) (int64, error)

	// Delete removes a product by its ID and returns the deleted count.
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)

	// DecrementQuantities applies the decrements strictly sequentially in
	// input order. On a store failure the remaining items are skipped and the
	// returned report still lists the items already applied.
	DecrementQuantities(ctx context.Context, items []DecrementItem) (*DecrementReport, error)
}

// PageRequest describes a paginated product listing request.
// Page and PageSize are both positive; Sort names the order field.
type PageRequest struct {
	Page     int64
	PageSize int64
	Sort     string
	Desc     bool
}

// ProductPage is one page of products plus the total unfiltered count used by
// client-side pagination.
type ProductPage struct {
	Items      []model.Product
	TotalCount int64
}

// DecrementItem is one entry of a bulk stock decrement.
type DecrementItem struct {
	ProductID string `json:"productId" validate:"required,len=24,hexadecimal"`
	Quantity  int64  `json:"quantity"  validate:"required,gt=0"`
}

// DecrementResult reports one applied decrement. Matched is zero when no
// product with the given ID exists; the delta is then a no-op.
type DecrementResult struct {
	ProductID string `json:"productId"`
	Matched   int64  `json:"matched"`
}

// DecrementReport lists the decrements that were applied, in input order.
type DecrementReport struct {
	Applied []DecrementResult `json:"applied"`
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository store.ProductStore
}

// NewService creates a new instance of ProductService with the provided repository.
func NewService(repo store.ProductStore) *Service {
	return &Service{
		repository: repo,
	}
}

// FindAll returns the entire products collection.
func (s *Service) FindAll(ctx context.Context) ([]model.Product, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, nil
}

// FindPage returns one sorted page of products plus the total unfiltered count.
func (s *Service) FindPage(ctx context.Context, q PageRequest) (*ProductPage, error) {
	sort := q.Sort
	if sort == "" {
		sort = DefaultSortField
	}
	items, totalCount, err := s.repository.FindPage(ctx, store.PageQuery{
		Skip:  (q.Page - 1) * q.PageSize,
		Limit: q.PageSize,
		Sort:  sort,
		Desc:  q.Desc,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product page: %w", err)
	}
	return &ProductPage{Items: items, TotalCount: totalCount}, nil
}

// FindByID retrieves a product by its ID.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", id.Hex(), err)
	}
	return product, nil
}

// Search returns products whose title contains the term, case-insensitively.
func (s *Service) Search(ctx context.Context, term string) ([]model.Product, error) {
	products, err := s.repository.SearchByTitle(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// Create inserts a client-supplied document verbatim.
func (s *Service) Create(ctx context.Context, doc model.Document) (primitive.ObjectID, error) {
	id, err := s.repository.Insert(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to create product: %w", err)
	}
	return id, nil
}

// Update merges the supplied top-level fields into an existing product.
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, fields model.Document) (int64, error) {
	matched, err := s.repository.Update(ctx, id, fields)
	if err != nil {
		return 0, fmt.Errorf("failed to update product with ID %s: %w", id.Hex(), err)
	}
	return matched, nil
}

// Delete removes a product by its ID.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	deleted, err := s.repository.Delete(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete product with ID %s: %w", id.Hex(), err)
	}
	return deleted, nil
}

// DecrementQuantities applies the decrements strictly sequentially in input
// order, each as one atomic store-level increment. The first store failure
// stops the batch; the report returned alongside the error lists the items
// already applied, which stay committed.
func (s *Service) DecrementQuantities(ctx context.Context, items []DecrementItem) (*DecrementReport, error) {
	report := &DecrementReport{Applied: make([]DecrementResult, 0, len(items))}
	for _, item := range items {
		id, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return report, fmt.Errorf("invalid product ID %q: %w", item.ProductID, err)
		}
		matched, err := s.repository.DecrementQuantity(ctx, id, item.Quantity)
		if err != nil {
			return report, fmt.Errorf("failed to decrement quantity for product %s: %w", item.ProductID, err)
		}
		report.Applied = append(report.Applied, DecrementResult{ProductID: item.ProductID, Matched: matched})
	}
	return report, nil
}
