package service

import (
	"context"
	"fmt"

	"github.com/evergreen/nursery/internal/catalog/model"
	"github.com/evergreen/nursery/internal/catalog/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CategoryService defines the methods for managing categories.
// Categories are independent of products: deleting one does not cascade.
type CategoryService interface {
	// FindAll returns the entire category collection.
	FindAll(ctx context.Context) ([]model.Category, error)

	// Create inserts a client-supplied document verbatim and returns the
	// assigned identifier.
	Create(ctx context.Context, doc model.Document) (primitive.ObjectID, error)

	// Update merges the supplied top-level fields into an existing category.
	// Returns the matched count; zero matched is reported as success.
	Update(ctx context.Context, id primitive.ObjectID, fields model.Document) (int64, error)

	// Delete removes a category by its ID and returns the deleted count.
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// CategorySvc implements CategoryService.
type CategorySvc struct {
	repository store.CategoryStore
}

// NewCategoryService creates a new instance of CategoryService with the provided repository.
func NewCategoryService(repo store.CategoryStore) *CategorySvc {
	return &CategorySvc{
		repository: repo,
	}
}

// FindAll returns the entire category collection.
func (s *CategorySvc) FindAll(ctx context.Context) ([]model.Category, error) {
	categories, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

// Create inserts a client-supplied document verbatim.
func (s *CategorySvc) Create(ctx context.Context, doc model.Document) (primitive.ObjectID, error) {
	id, err := s.repository.Insert(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to create category: %w", err)
	}
	return id, nil
}

// Update merges the supplied top-level fields into an existing category.
func (s *CategorySvc) Update(ctx context.Context, id primitive.ObjectID, fields model.Document) (int64, error) {
	matched, err := s.repository.Update(ctx, id, fields)
	if err != nil {
		return 0, fmt.Errorf("failed to update category with ID %s: %w", id.Hex(), err)
	}
	return matched, nil
}

// Delete removes a category by its ID.
func (s *CategorySvc) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	deleted, err := s.repository.Delete(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete category with ID %s: %w", id.Hex(), err)
	}
	return deleted, nil
}
