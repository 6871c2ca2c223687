package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Photo is stored inside the product document and served through the
// dedicated photo endpoint; list projections always exclude it.
type Photo struct {
	Data        []byte `bson:"data,omitempty" json:"-"`
	ContentType string `bson:"contentType,omitempty" json:"-"`
}

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Category    primitive.ObjectID `bson:"category" json:"category"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Photo       Photo              `bson:"photo,omitempty" json:"-"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
