package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus enumerates the only values an order status may hold.
type OrderStatus string

const (
	StatusNotProcess OrderStatus = "Not Process"
	StatusProcessing OrderStatus = "Processing"
	StatusDone       OrderStatus = "Done"
)

// ParseOrderStatus rejects anything outside the enumeration before it can
// reach a write.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	switch OrderStatus(raw) {
	case StatusNotProcess, StatusProcessing, StatusDone:
		return OrderStatus(raw), nil
	}
	return "", fmt.Errorf("invalid order status %q", raw)
}

// Payment is an opaque sub-record written at checkout; only Success is
// interpreted by the rest of the system.
type Payment struct {
	Success       bool    `bson:"success" json:"success"`
	TransactionID string  `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	Method        string  `bson:"method,omitempty" json:"method,omitempty"`
	Amount        float64 `bson:"amount,omitempty" json:"amount,omitempty"`
}

// Order references products by id. The same product may appear more than
// once; repetition stands in for quantity.
type Order struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Products  []primitive.ObjectID `bson:"products" json:"products"`
	Payment   Payment              `bson:"payment" json:"payment"`
	Buyer     primitive.ObjectID   `bson:"buyer" json:"buyer"`
	Status    OrderStatus          `bson:"status" json:"status"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}
