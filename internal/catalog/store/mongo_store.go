package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	cerrors "github.com/evergreen/nursery/internal/catalog/errors"
	"github.com/evergreen/nursery/internal/catalog/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names as used by the nursery database.
const (
	productsCollection = "products"
	categoryCollection = "category"
)

// MongoProductStore implements ProductStore on a MongoDB collection.
type MongoProductStore struct {
	col *mongo.Collection
}

// NewMongoProductStore creates a product store backed by the products collection.
func NewMongoProductStore(db *mongo.Database) *MongoProductStore {
	return &MongoProductStore{col: db.Collection(productsCollection)}
}

// FindAll returns the entire products collection.
func (s *MongoProductStore) FindAll(ctx context.Context) ([]model.Product, error) {
	cursor, err := s.col.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	products := make([]model.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// FindPage returns one sorted page of products plus the total unfiltered count.
func (s *MongoProductStore) FindPage(ctx context.Context, q PageQuery) ([]model.Product, int64, error) {
	totalCount, err := s.col.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	order := 1
	if q.Desc {
		order = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: q.Sort, Value: order}}).
		SetSkip(q.Skip).
		SetLimit(q.Limit)

	cursor, err := s.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find product page: %w", err)
	}
	products := make([]model.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("failed to decode product page: %w", err)
	}
	return products, totalCount, nil
}

// FindByID retrieves a product by its identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *MongoProductStore) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	var product model.Product
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, cerrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return &product, nil
}

// SearchByTitle matches the term as a case-insensitive substring of the title
// field. The term is quoted so regex metacharacters in user input stay literal.
func (s *MongoProductStore) SearchByTitle(ctx context.Context, term string) ([]model.Product, error) {
	filter := bson.M{"title": primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}}
	cursor, err := s.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search products by title: %w", err)
	}
	products := make([]model.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}
	return products, nil
}

// Insert adds a new document verbatim and returns the assigned identifier.
func (s *MongoProductStore) Insert(ctx context.Context, doc model.Document) (primitive.ObjectID, error) {
	res, err := s.col.InsertOne(ctx, doc.WithoutID())
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert product: %w", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted ID type %T", res.InsertedID)
	}
	return id, nil
}

// Update merges the supplied top-level fields into an existing document via $set.
func (s *MongoProductStore) Update(ctx context.Context, id primitive.ObjectID, fields model.Document) (int64, error) {
	res, err := s.col.UpdateByID(ctx, id, bson.M{"$set": bson.M(fields.WithoutID())})
	if err != nil {
		return 0, fmt.Errorf("failed to update product: %w", err)
	}
	return res.MatchedCount, nil
}

// Delete removes a product by its identifier.
func (s *MongoProductStore) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("failed to delete product: %w", err)
	}
	return res.DeletedCount, nil
}

// DecrementQuantity applies one atomic $inc of -by to the quantity field.
// There is no floor at zero; quantity may go negative.
func (s *MongoProductStore) DecrementQuantity(ctx context.Context, id primitive.ObjectID, by int64) (int64, error) {
	res, err := s.col.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"quantity": -by}})
	if err != nil {
		return 0, fmt.Errorf("failed to decrement product quantity: %w", err)
	}
	return res.MatchedCount, nil
}

// MongoCategoryStore implements CategoryStore on a MongoDB collection.
type MongoCategoryStore struct {
	col *mongo.Collection
}

// NewMongoCategoryStore creates a category store backed by the category collection.
func NewMongoCategoryStore(db *mongo.Database) *MongoCategoryStore {
	return &MongoCategoryStore{col: db.Collection(categoryCollection)}
}

// FindAll returns the entire category collection.
func (s *MongoCategoryStore) FindAll(ctx context.Context) ([]model.Category, error) {
	cursor, err := s.col.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to find categories: %w", err)
	}
	categories := make([]model.Category, 0)
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return categories, nil
}

// Insert adds a new document verbatim and returns the assigned identifier.
func (s *MongoCategoryStore) Insert(ctx context.Context, doc model.Document) (primitive.ObjectID, error) {
	res, err := s.col.InsertOne(ctx, doc.WithoutID())
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert category: %w", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted ID type %T", res.InsertedID)
	}
	return id, nil
}

// Update merges the supplied top-level fields into an existing document via $set.
func (s *MongoCategoryStore) Update(ctx context.Context, id primitive.ObjectID, fields model.Document) (int64, error) {
	res, err := s.col.UpdateByID(ctx, id, bson.M{"$set": bson.M(fields.WithoutID())})
	if err != nil {
		return 0, fmt.Errorf("failed to update category: %w", err)
	}
	return res.MatchedCount, nil
}

// Delete removes a category by its identifier.
func (s *MongoCategoryStore) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("failed to delete category: %w", err)
	}
	return res.DeletedCount, nil
}
