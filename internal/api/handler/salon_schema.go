package handler

import "github.com/harshpalas/GlamBook/internal/core/domain"

type locationRequest struct {
	City        string     `json:"city"    validate:"required"`
	Address     string     `json:"address" validate:"required"`
	Coordinates [2]float64 `json:"coordinates"`
}

type dayHoursRequest struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}

type serviceRequest struct {
	Name        string  `json:"name"     validate:"required"`
	Price       float64 `json:"price"    validate:"required,gt=0"`
	Duration    int     `json:"duration" validate:"required,gt=0"`
	Description string  `json:"description"`
}

type createSalonRequest struct {
	Name        string                     `json:"name"     validate:"required"`
	Description string                     `json:"description"`
	Phone       string                     `json:"phone"`
	Location    locationRequest            `json:"location" validate:"required"`
	Images      []string                   `json:"images"`
	Hours       map[string]dayHoursRequest `json:"hours"`
	Services    []serviceRequest           `json:"services" validate:"dive"`
}

// updateSalonRequest is a partial update; absent fields are left untouched.
type updateSalonRequest struct {
	Name        *string                     `json:"name"`
	Description *string                     `json:"description"`
	Phone       *string                     `json:"phone"`
	Location    *locationRequest            `json:"location"`
	Images      *[]string                   `json:"images"`
	Hours       *map[string]dayHoursRequest `json:"hours"`
	IsActive    *bool                       `json:"is_active"`
}

// updateServiceRequest is a partial update of one embedded service.
type updateServiceRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"    validate:"omitempty,gt=0"`
	Duration    *int     `json:"duration" validate:"omitempty,gt=0"`
	Description *string  `json:"description"`
}

type slotsRequest struct {
	Date  string   `json:"date"  validate:"required"`
	Slots []string `json:"slots" validate:"required"`
}

type salonDetailResponse struct {
	Salon   *domain.Salon    `json:"salon"`
	Reviews []*domain.Review `json:"reviews"`
	Rating  float64          `json:"rating"`
}
