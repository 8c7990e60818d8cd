package handler

import (
	"github.com/harshpalas/GlamBook/internal/core/domain"
	"github.com/harshpalas/GlamBook/internal/core/ports"
)

func toLocation(r locationRequest) domain.Location {
	return domain.Location{City: r.City, Address: r.Address, Coordinates: r.Coordinates}
}

func toHours(r map[string]dayHoursRequest) map[string]domain.DayHours {
	if r == nil {
		return nil
	}
	hours := make(map[string]domain.DayHours, len(r))
	for day, h := range r {
		hours[day] = domain.DayHours{Open: h.Open, Close: h.Close, Closed: h.Closed}
	}
	return hours
}

func toCreateSalonInput(r createSalonRequest, ownerID string) ports.CreateSalonInput {
	services := make([]ports.ServiceInput, 0, len(r.Services))
	for _, s := range r.Services {
		services = append(services, ports.ServiceInput{
			Name:        s.Name,
			Price:       s.Price,
			Duration:    s.Duration,
			Description: s.Description,
		})
	}
	return ports.CreateSalonInput{
		Name:        r.Name,
		Description: r.Description,
		Phone:       r.Phone,
		Location:    toLocation(r.Location),
		Images:      r.Images,
		Hours:       toHours(r.Hours),
		Services:    services,
		OwnerID:     ownerID,
	}
}

func toSalonUpdate(r updateSalonRequest) ports.SalonUpdate {
	upd := ports.SalonUpdate{
		Name:        r.Name,
		Description: r.Description,
		Phone:       r.Phone,
		Images:      r.Images,
		IsActive:    r.IsActive,
	}
	if r.Location != nil {
		loc := toLocation(*r.Location)
		upd.Location = &loc
	}
	if r.Hours != nil {
		hours := toHours(*r.Hours)
		upd.Hours = &hours
	}
	return upd
}
