package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/cctvstore/internal/domain/models"
)

// SupplierRepository persists supplier master records.
type SupplierRepository struct {
	coll *mongo.Collection
}

// NewSupplierRepository builds a repository over the suppliers collection.
func NewSupplierRepository(db *mongo.Database) *SupplierRepository {
	return &SupplierRepository{coll: db.Collection(suppliersCollection)}
}

func (r *SupplierRepository) Create(ctx context.Context, supplier *models.Supplier) error {
	res, err := r.coll.InsertOne(ctx, supplier)
	if err != nil {
		return fmt.Errorf("insert supplier: %w", translate(err))
	}
	supplier.ID = insertedID(res)
	return nil
}

func (r *SupplierRepository) FindByID(ctx context.Context, id string) (models.Supplier, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.Supplier{}, err
	}

	var supplier models.Supplier
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&supplier); err != nil {
		return models.Supplier{}, fmt.Errorf("find supplier %s: %w", id, translate(err))
	}
	return supplier, nil
}

// List returns suppliers ordered by name, optionally restricted to a status.
func (r *SupplierRepository) List(ctx context.Context, status models.SupplierStatus) ([]models.Supplier, error) {
	query := bson.M{}
	if status != "" {
		query["status"] = status
	}

	cur, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find suppliers: %w", err)
	}

	suppliers := []models.Supplier{}
	if err := cur.All(ctx, &suppliers); err != nil {
		return nil, fmt.Errorf("decode suppliers: %w", err)
	}
	return suppliers, nil
}

func (r *SupplierRepository) Update(ctx context.Context, supplier models.Supplier) error {
	return replaceByID(ctx, r.coll, supplier.ID, supplier, "supplier")
}

func (r *SupplierRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id, "supplier")
}
