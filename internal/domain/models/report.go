package models

import "time"

// DailySummary represents the aggregated sales data for one day, stored in MongoDB.
type DailySummary struct {
	Date            string       `bson:"date" json:"date"`
	OrderCount      int          `bson:"order_count" json:"order_count"`
	ItemsSold       int          `bson:"items_sold" json:"items_sold"`
	Revenue         float64      `bson:"revenue" json:"revenue"`
	TaxCollected    float64      `bson:"tax_collected" json:"tax_collected"`
	DiscountGiven   float64      `bson:"discount_given" json:"discount_given"`
	PendingPayments float64      `bson:"pending_payments" json:"pending_payments"`
	LowStock        []StockAlert `bson:"low_stock" json:"low_stock"`
	CreatedAt       time.Time    `bson:"created_at" json:"created_at"`
}

// StockAlert flags a product whose quantity is at or under the threshold.
type StockAlert struct {
	ProductID   string `bson:"product_id" json:"product_id"`
	Name        string `bson:"name" json:"name"`
	ModelNumber string `bson:"model_number" json:"model_number"`
	Quantity    int    `bson:"quantity" json:"quantity"`
}
