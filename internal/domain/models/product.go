package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry with its stock on hand.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	ModelNumber string             `bson:"model_number" json:"model_number"`
	Brand       string             `bson:"brand" json:"brand"`
	Category    string             `bson:"category" json:"category"`
	Price       float64            `bson:"price" json:"price"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Resolution  string             `bson:"resolution,omitempty" json:"resolution,omitempty"`
	LensSpec    string             `bson:"lens_spec,omitempty" json:"lens_spec,omitempty"`
	PoE         bool               `bson:"poe" json:"poe"`
	NightVision bool               `bson:"night_vision" json:"night_vision"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// ProductFilter narrows product listings. Empty fields match everything.
type ProductFilter struct {
	Category     string
	Brand        string
	Search       string
	CreatedSince time.Time
	MaxQuantity  *int
}
