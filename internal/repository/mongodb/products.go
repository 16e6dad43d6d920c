package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/cctvstore/internal/domain/models"
)

// ProductRepository persists the catalog and stock levels.
type ProductRepository struct {
	coll *mongo.Collection
}

// NewProductRepository builds a repository over the products collection.
func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{coll: db.Collection(productsCollection)}
}

// Create inserts the product and sets its generated id.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	res, err := r.coll.InsertOne(ctx, product)
	if err != nil {
		return fmt.Errorf("insert product: %w", translate(err))
	}
	product.ID = insertedID(res)
	return nil
}

// FindByID loads a product by hex id.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (models.Product, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.Product{}, err
	}

	var product models.Product
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&product); err != nil {
		return models.Product{}, fmt.Errorf("find product %s: %w", id, translate(err))
	}
	return product, nil
}

// List returns products matching the filter, newest first.
func (r *ProductRepository) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Brand != "" {
		query["brand"] = filter.Brand
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"model_number": pattern},
		}
	}
	if !filter.CreatedSince.IsZero() {
		query["created_at"] = bson.M{"$gte": filter.CreatedSince}
	}
	if filter.MaxQuantity != nil {
		query["quantity"] = bson.M{"$lte": *filter.MaxQuantity}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// Update replaces the stored product document.
func (r *ProductRepository) Update(ctx context.Context, product models.Product) error {
	return replaceByID(ctx, r.coll, product.ID, product, "product")
}

// Delete removes a product by hex id.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id, "product")
}

// DecrementStock takes qty units out of stock in a single conditional update.
// It fails with ErrInsufficientStock when fewer than qty units remain, so two
// concurrent orders can never drive the quantity negative.
func (r *ProductRepository) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	filter := bson.M{"_id": id, "quantity": bson.M{"$gte": qty}}
	update := bson.M{
		"$inc": bson.M{"quantity": -qty},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("decrement stock %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("decrement stock %s by %d: %w", id.Hex(), qty, ErrInsufficientStock)
	}
	return nil
}

// IncrementStock puts qty units back into stock.
func (r *ProductRepository) IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	update := bson.M{
		"$inc": bson.M{"quantity": qty},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("increment stock %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("increment stock %s: %w", id.Hex(), ErrNotFound)
	}
	return nil
}
