package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/harshpalas/GlamBook/internal/core/ports"
)

// SalonHandler handles the salon directory routes.
type SalonHandler struct {
	salonService ports.SalonService
}

func NewSalonHandler(salonService ports.SalonService) *SalonHandler {
	return &SalonHandler{salonService: salonService}
}

// List returns active salons: by owner, by search query, or by city.
// Without any filter it serves the homepage listing.
//
// @Summary      List salons
// @Tags         salons
// @Produce      json
// @Param        city     query  string  false  "Filter by city"
// @Param        search   query  string  false  "Search name, description and services"
// @Param        ownerId  query  string  false  "Filter by owner"
// @Success      200  {array}  domain.Salon
// @Router       /salons [get]
func (h *SalonHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	if ownerID := c.QueryParam("ownerId"); ownerID != "" {
		salons, err := h.salonService.ListByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, salons)
	}

	if query := c.QueryParam("search"); query != "" {
		salons, err := h.salonService.Search(ctx, query, c.QueryParam("city"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, salons)
	}

	salons, err := h.salonService.ListByCity(ctx, c.QueryParam("city"), parseLimit(c, 0))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, salons)
}

// GetByID returns the salon detail view: profile, latest reviews, live rating.
//
// @Summary      Get a salon
// @Tags         salons
// @Produce      json
// @Param        id  path  string  true  "Salon ID"
// @Success      200  {object}  salonDetailResponse
// @Failure      404  {object}  map[string]string
// @Router       /salons/{id} [get]
func (h *SalonHandler) GetByID(c echo.Context) error {
	detail, err := h.salonService.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, salonDetailResponse{
		Salon:   detail.Salon,
		Reviews: detail.Reviews,
		Rating:  detail.Rating,
	})
}

// Create registers a new salon owned by the caller.
//
// @Summary      Create a salon
// @Tags         salons
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createSalonRequest  true  "Salon details"
// @Success      201   {object}  domain.Salon
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /salons [post]
func (h *SalonHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createSalonRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	salon, err := h.salonService.Create(c.Request().Context(), toCreateSalonInput(req, actor.UserID))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, salon)
}

// Update patches a salon profile. Only the owning salonOwner or an admin may
// call it.
//
// @Summary      Update a salon
// @Tags         salons
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string              true  "Salon ID"
// @Param        body  body  updateSalonRequest  true  "Fields to update"
// @Success      200   {object}  domain.Salon
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /salons/{id} [put]
func (h *SalonHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateSalonRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	salon, err := h.salonService.Update(c.Request().Context(), c.Param("id"), actor, toSalonUpdate(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, salon)
}

// AddService adds a service offering to a salon.
//
// @Summary      Add a service
// @Tags         salons
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string          true  "Salon ID"
// @Param        body  body  serviceRequest  true  "Service details"
// @Success      201   {object}  domain.Service
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /salons/{id}/services [post]
func (h *SalonHandler) AddService(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req serviceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	svc, err := h.salonService.AddService(c.Request().Context(), c.Param("id"), actor, ports.ServiceInput{
		Name:        req.Name,
		Price:       req.Price,
		Duration:    req.Duration,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, svc)
}

// UpdateService patches one embedded service.
//
// @Summary      Update a service
// @Tags         salons
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id         path  string                true  "Salon ID"
// @Param        serviceId  path  string                true  "Service ID"
// @Param        body       body  updateServiceRequest  true  "Fields to update"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /salons/{id}/services/{serviceId} [put]
func (h *SalonHandler) UpdateService(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err = h.salonService.UpdateService(c.Request().Context(), c.Param("id"), c.Param("serviceId"), actor, ports.ServicePatch{
		Name:        req.Name,
		Price:       req.Price,
		Duration:    req.Duration,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveService deletes one embedded service.
//
// @Summary      Remove a service
// @Tags         salons
// @Produce      json
// @Security     BearerAuth
// @Param        id         path  string  true  "Salon ID"
// @Param        serviceId  path  string  true  "Service ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /salons/{id}/services/{serviceId} [delete]
func (h *SalonHandler) RemoveService(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.salonService.RemoveService(c.Request().Context(), c.Param("id"), c.Param("serviceId"), actor); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SetSlots replaces the bookable slot list for one date.
//
// @Summary      Set available slots
// @Tags         salons
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string        true  "Salon ID"
// @Param        body  body  slotsRequest  true  "Date and slot list"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /salons/{id}/slots [put]
func (h *SalonHandler) SetSlots(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req slotsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.salonService.SetAvailableSlots(c.Request().Context(), c.Param("id"), actor, req.Date, req.Slots); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
