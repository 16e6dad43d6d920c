package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DebitNoteStatus is the approval state of a debit note.
type DebitNoteStatus string

const (
	DebitNotePending  DebitNoteStatus = "Pending"
	DebitNoteApproved DebitNoteStatus = "Approved"
	DebitNoteRejected DebitNoteStatus = "Rejected"
)

func (s DebitNoteStatus) Validate() error {
	switch s {
	case DebitNotePending, DebitNoteApproved, DebitNoteRejected:
		return nil
	}
	return errors.New("invalid debit note status")
}

// DebitNoteItem is a claimed line against the referenced order.
type DebitNoteItem struct {
	ProductID   string  `bson:"product_id,omitempty" json:"product_id,omitempty"`
	Description string  `bson:"description" json:"description"`
	Quantity    int     `bson:"quantity" json:"quantity"`
	Price       float64 `bson:"price" json:"price"`
	Total       float64 `bson:"total" json:"total"`
}

// DebitNote records an adjustment or claim against a prior sales order.
type DebitNote struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Number        string             `bson:"number" json:"number"`
	SalesOrderID  primitive.ObjectID `bson:"sales_order_id" json:"sales_order_id"`
	OrderNumber   string             `bson:"order_number" json:"order_number"`
	CustomerName  string             `bson:"customer_name" json:"customer_name"`
	CustomerPhone string             `bson:"customer_phone" json:"customer_phone"`
	Reason        string             `bson:"reason" json:"reason"`
	Items         []DebitNoteItem    `bson:"items" json:"items"`
	TotalAmount   float64            `bson:"total_amount" json:"total_amount"`
	Status        DebitNoteStatus    `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}
