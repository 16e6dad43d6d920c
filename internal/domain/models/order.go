package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentStatus tracks whether an order has been paid.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentPaid      PaymentStatus = "Paid"
	PaymentCancelled PaymentStatus = "Cancelled"
)

func (s PaymentStatus) Validate() error {
	switch s {
	case PaymentPending, PaymentPaid, PaymentCancelled:
		return nil
	}
	return errors.New("invalid payment status")
}

// OrderStatus tracks fulfilment.
type OrderStatus string

const (
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
)

func (s OrderStatus) Validate() error {
	switch s {
	case OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return nil
	}
	return errors.New("invalid order status")
}

// OrderItem is one line of a sales order. Product name and model number are
// copied at order time.
type OrderItem struct {
	ProductID       primitive.ObjectID `bson:"product_id" json:"product_id"`
	ProductName     string             `bson:"product_name" json:"product_name"`
	ModelNumber     string             `bson:"model_number" json:"model_number"`
	Quantity        int                `bson:"quantity" json:"quantity"`
	Price           float64            `bson:"price" json:"price"`
	LineTotal       float64            `bson:"line_total" json:"line_total"`
	DiscountPercent float64            `bson:"discount_percent" json:"discount_percent"`
	TaxPercent      float64            `bson:"tax_percent" json:"tax_percent"`
	LineDiscount    float64            `bson:"line_discount" json:"line_discount"`
	LineTax         float64            `bson:"line_tax" json:"line_tax"`
	FinalTotal      float64            `bson:"final_total" json:"final_total"`
}

// SalesOrder is a customer order with its computed totals.
type SalesOrder struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderNumber     string             `bson:"order_number" json:"order_number"`
	CustomerName    string             `bson:"customer_name" json:"customer_name"`
	CustomerPhone   string             `bson:"customer_phone" json:"customer_phone"`
	CustomerEmail   string             `bson:"customer_email,omitempty" json:"customer_email,omitempty"`
	CustomerAddress string             `bson:"customer_address,omitempty" json:"customer_address,omitempty"`
	Items           []OrderItem        `bson:"items" json:"items"`
	Subtotal        float64            `bson:"subtotal" json:"subtotal"`
	TaxPercent      float64            `bson:"tax_percent" json:"tax_percent"`
	TaxAmount       float64            `bson:"tax_amount" json:"tax_amount"`
	DiscountAmount  float64            `bson:"discount_amount" json:"discount_amount"`
	GrandTotal      float64            `bson:"grand_total" json:"grand_total"`
	PaymentStatus   PaymentStatus      `bson:"payment_status" json:"payment_status"`
	OrderStatus     OrderStatus        `bson:"order_status" json:"order_status"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	PaymentStatus PaymentStatus
	OrderStatus   OrderStatus
	From          time.Time
	To            time.Time
}
