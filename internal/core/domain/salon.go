package domain

import (
	"errors"
	"time"
)

var ErrSalonNotFound = errors.New("salon not found")
var ErrServiceNotFound = errors.New("service not found")

// Location is a salon's physical address.
type Location struct {
	City        string     `json:"city" bson:"city"`
	Address     string     `json:"address" bson:"address"`
	Coordinates [2]float64 `json:"coordinates" bson:"coordinates"`
}

// Service is an offering embedded in its parent salon. The ID is unique only
// within the parent's service list.
type Service struct {
	ID          string  `json:"id" bson:"_id"`
	Name        string  `json:"name" bson:"name"`
	Price       float64 `json:"price" bson:"price"`
	Duration    int     `json:"duration" bson:"duration"`
	Description string  `json:"description,omitempty" bson:"description,omitempty"`
}

// DayHours describes opening hours for a single weekday.
type DayHours struct {
	Open   string `json:"open" bson:"open"`
	Close  string `json:"close" bson:"close"`
	Closed bool   `json:"closed,omitempty" bson:"closed,omitempty"`
}

// DateSlots maps a calendar date to the time slots offered on it.
type DateSlots struct {
	Date  string   `json:"date" bson:"date"`
	Slots []string `json:"slots" bson:"slots"`
}

// Salon is the directory aggregate root. Rating and TotalReviews are derived
// values, overwritten together from a full recompute of the reviews collection.
type Salon struct {
	ID             string              `json:"id" bson:"_id,omitempty"`
	Name           string              `json:"name" bson:"name"`
	Location       Location            `json:"location" bson:"location"`
	Services       []Service           `json:"services" bson:"services"`
	Rating         float64             `json:"rating" bson:"rating"`
	TotalReviews   int64               `json:"total_reviews" bson:"total_reviews"`
	Images         []string            `json:"images" bson:"images"`
	Description    string              `json:"description" bson:"description"`
	Phone          string              `json:"phone" bson:"phone"`
	Hours          map[string]DayHours `json:"hours" bson:"hours"`
	AvailableSlots []DateSlots         `json:"available_slots" bson:"available_slots"`
	OwnerID        string              `json:"owner_id" bson:"owner_id"`
	IsActive       bool                `json:"is_active" bson:"is_active"`
	CreatedAt      time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at" bson:"updated_at"`
}

// ServiceByID returns the embedded service with the given sub-id.
func (s *Salon) ServiceByID(id string) (Service, bool) {
	for _, svc := range s.Services {
		if svc.ID == id {
			return svc, true
		}
	}
	return Service{}, false
}
