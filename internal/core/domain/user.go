package domain

import (
	"errors"
	"time"
)

// Role is the actor kind encoded in auth tokens and enforced per route group.
type Role string

const (
	RoleUser       Role = "user"
	RoleSalonOwner Role = "salonOwner"
	RoleAdmin      Role = "admin"
)

// Valid reports whether the role is one an account may carry.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleSalonOwner || r == RoleAdmin
}

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")

// User models an account in the system. Bookings and Favorites hold document
// IDs referencing the bookings and salons collections.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password"`
	Role         Role      `json:"role" bson:"role"`
	Phone        string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Bookings     []string  `json:"bookings" bson:"bookings"`
	Favorites    []string  `json:"favorites" bson:"favorites"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}
