package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/cctvstore/internal/domain/models"
)

// OrderRepository persists sales orders.
type OrderRepository struct {
	coll *mongo.Collection
}

// NewOrderRepository builds a repository over the sales_orders collection.
func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(ordersCollection)}
}

func (r *OrderRepository) Create(ctx context.Context, order *models.SalesOrder) error {
	res, err := r.coll.InsertOne(ctx, order)
	if err != nil {
		return fmt.Errorf("insert sales order: %w", translate(err))
	}
	order.ID = insertedID(res)
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (models.SalesOrder, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.SalesOrder{}, err
	}

	var order models.SalesOrder
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&order); err != nil {
		return models.SalesOrder{}, fmt.Errorf("find sales order %s: %w", id, translate(err))
	}
	return order, nil
}

// List returns orders matching the filter, newest first.
func (r *OrderRepository) List(ctx context.Context, filter models.OrderFilter) ([]models.SalesOrder, error) {
	query := bson.M{}
	if filter.PaymentStatus != "" {
		query["payment_status"] = filter.PaymentStatus
	}
	if filter.OrderStatus != "" {
		query["order_status"] = filter.OrderStatus
	}
	if !filter.From.IsZero() || !filter.To.IsZero() {
		window := bson.M{}
		if !filter.From.IsZero() {
			window["$gte"] = filter.From
		}
		if !filter.To.IsZero() {
			window["$lt"] = filter.To
		}
		query["created_at"] = window
	}

	cur, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find sales orders: %w", err)
	}

	orders := []models.SalesOrder{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode sales orders: %w", err)
	}
	return orders, nil
}

func (r *OrderRepository) Update(ctx context.Context, order models.SalesOrder) error {
	return replaceByID(ctx, r.coll, order.ID, order, "sales order")
}
