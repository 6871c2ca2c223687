package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the coarse permission tag stored with the user record.
type Role int

const (
	RoleBuyer         Role = 0
	RoleAdministrator Role = 1
)

// IsAdmin is the single authorization predicate; callers must not compare
// the numeric value directly.
func (r Role) IsAdmin() bool {
	return r == RoleAdministrator
}

// User is the persisted account document. PasswordHash holds the bcrypt
// digest and never leaves the server.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName    string             `bson:"firstname" json:"firstname"`
	LastName     string             `bson:"lastname" json:"lastname"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Street       string             `bson:"street,omitempty" json:"street,omitempty"`
	City         string             `bson:"city,omitempty" json:"city,omitempty"`
	PostalCode   string             `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
	Country      string             `bson:"country,omitempty" json:"country,omitempty"`
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UserProjection is the subset of a user record safe to return to clients.
type UserProjection struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"firstname"`
	LastName   string    `json:"lastname"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Street     string    `json:"street,omitempty"`
	City       string    `json:"city,omitempty"`
	PostalCode string    `json:"postalCode,omitempty"`
	Country    string    `json:"country,omitempty"`
	Role       Role      `json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (u User) Projection() UserProjection {
	return UserProjection{
		ID:         u.ID.Hex(),
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Phone:      u.Phone,
		Street:     u.Street,
		City:       u.City,
		PostalCode: u.PostalCode,
		Country:    u.Country,
		Role:       u.Role,
		CreatedAt:  u.CreatedAt,
	}
}
