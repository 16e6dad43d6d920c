package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SupplierStatus is the lifecycle state of a supplier.
type SupplierStatus string

const (
	SupplierActive   SupplierStatus = "active"
	SupplierInactive SupplierStatus = "inactive"
)

func (s SupplierStatus) Validate() error {
	switch s {
	case SupplierActive, SupplierInactive:
		return nil
	}
	return errors.New("invalid supplier status")
}

// BankDetails holds the supplier payout account.
type BankDetails struct {
	AccountName   string `bson:"account_name" json:"account_name"`
	AccountNumber string `bson:"account_number" json:"account_number"`
	BankName      string `bson:"bank_name" json:"bank_name"`
	IFSC          string `bson:"ifsc" json:"ifsc"`
	Branch        string `bson:"branch" json:"branch"`
}

// Supplier is a vendor the reseller buys stock from.
type Supplier struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SupplierID    string             `bson:"supplier_id" json:"supplier_id"`
	Name          string             `bson:"name" json:"name"`
	ContactPerson string             `bson:"contact_person" json:"contact_person"`
	Email         string             `bson:"email" json:"email"`
	Phone         string             `bson:"phone" json:"phone"`
	Address       string             `bson:"address" json:"address"`
	GSTNumber     string             `bson:"gst_number" json:"gst_number"`
	PANNumber     string             `bson:"pan_number" json:"pan_number"`
	Bank          BankDetails        `bson:"bank" json:"bank"`
	Status        SupplierStatus     `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}
