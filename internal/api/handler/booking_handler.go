package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/harshpalas/GlamBook/internal/api/metrics"
	"github.com/harshpalas/GlamBook/internal/core/domain"
	"github.com/harshpalas/GlamBook/internal/core/ports"
)

// BookingHandler handles the booking lifecycle routes.
type BookingHandler struct {
	bookingService ports.BookingService
}

func NewBookingHandler(bookingService ports.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Create books a slot. Authenticated callers get the booking linked to their
// account; anonymous callers get a guest session token back.
//
// @Summary      Create a booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        body  body      createBookingRequest  true  "Booking details"
// @Success      201   {object}  bookingResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actor := ctxOptionalActor(c)
	result, err := h.bookingService.Create(c.Request().Context(), ports.CreateBookingInput{
		SalonID:       req.SalonID,
		ServiceIDs:    req.ServiceIDs,
		Date:          req.Date,
		TimeSlot:      req.TimeSlot,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Notes:         req.Notes,
		UserID:        actor.UserID,
		GuestToken:    req.GuestToken,
	})
	if err != nil {
		if errors.Is(err, domain.ErrSlotTaken) {
			metrics.SlotConflictsTotal.Inc()
		}
		return err
	}

	channel := "user"
	if actor.UserID == "" {
		channel = "guest"
	}
	metrics.BookingsCreatedTotal.WithLabelValues(channel).Inc()

	return c.JSON(http.StatusCreated, bookingResponse{
		Booking:    result.Booking,
		GuestToken: result.GuestToken,
	})
}

// List returns bookings filtered by exactly one of userId, salonId, or
// guestToken. The guestToken path needs no account; the others do.
//
// @Summary      List bookings
// @Tags         bookings
// @Produce      json
// @Param        userId      query  string  false  "Filter by user"
// @Param        salonId     query  string  false  "Filter by salon"
// @Param        guestToken  query  string  false  "Filter by guest session"
// @Success      200  {array}   domain.Booking
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /bookings [get]
func (h *BookingHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	if token := c.QueryParam("guestToken"); token != "" {
		bookings, err := h.bookingService.ListByGuest(ctx, token)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, bookings)
	}

	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if salonID := c.QueryParam("salonId"); salonID != "" {
		bookings, err := h.bookingService.ListBySalon(ctx, salonID, actor)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, bookings)
	}

	userID := c.QueryParam("userId")
	if userID == "" {
		userID = actor.UserID
	}
	// A user may only read their own bookings.
	if actor.Role == domain.RoleUser && userID != actor.UserID {
		return domain.ErrForbidden
	}

	bookings, err := h.bookingService.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookings)
}

// GetByID returns one booking.
//
// @Summary      Get a booking
// @Tags         bookings
// @Produce      json
// @Param        id  path  string  true  "Booking ID"
// @Success      200  {object}  domain.Booking
// @Failure      404  {object}  map[string]string
// @Router       /bookings/{id} [get]
func (h *BookingHandler) GetByID(c echo.Context) error {
	booking, err := h.bookingService.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

// Availability reports whether a (salon, date, timeSlot) tuple is free.
//
// @Summary      Check slot availability
// @Tags         bookings
// @Produce      json
// @Param        salonId   query  string  true  "Salon ID"
// @Param        date      query  string  true  "Date (YYYY-MM-DD)"
// @Param        timeSlot  query  string  true  "Time slot (HH:MM)"
// @Success      200  {object}  availabilityResponse
// @Failure      400  {object}  map[string]string
// @Router       /bookings/availability [get]
func (h *BookingHandler) Availability(c echo.Context) error {
	salonID := c.QueryParam("salonId")
	date := c.QueryParam("date")
	timeSlot := c.QueryParam("timeSlot")
	if salonID == "" || date == "" || timeSlot == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "salonId, date and timeSlot are required")
	}

	available, err := h.bookingService.CheckSlotAvailability(c.Request().Context(), salonID, date, timeSlot)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, availabilityResponse{Available: available})
}

// Patch applies a status or payment status change.
//
// @Summary      Update booking status
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string               true  "Booking ID"
// @Param        body  body  patchBookingRequest  true  "New status"
// @Success      200   {object}  domain.Booking
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /bookings/{id} [patch]
func (h *BookingHandler) Patch(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req patchBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if (req.Status == "") == (req.PaymentStatus == "") {
		return echo.NewHTTPError(http.StatusBadRequest, "exactly one of status or payment_status is required")
	}

	ctx := c.Request().Context()
	id := c.Param("id")

	// Ownership is enforced in the service: customers may only cancel their
	// own bookings, owners only act on bookings of salons they own.
	var updated *domain.Booking
	if req.Status != "" {
		updated, err = h.bookingService.UpdateStatus(ctx, id, domain.BookingStatus(req.Status), actor)
		if err == nil {
			metrics.BookingStatusTotal.WithLabelValues(req.Status).Inc()
		}
	} else {
		updated, err = h.bookingService.UpdatePaymentStatus(ctx, id, domain.PaymentStatus(req.PaymentStatus), actor)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// RequestReschedule records a proposed date/time change on a confirmed booking.
//
// @Summary      Request a reschedule
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string             true  "Booking ID"
// @Param        body  body  rescheduleRequest  true  "Proposed change"
// @Success      200   {object}  domain.Booking
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /bookings/{id}/reschedule [post]
func (h *BookingHandler) RequestReschedule(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req rescheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	booking, err := h.bookingService.RequestReschedule(c.Request().Context(), c.Param("id"), domain.RescheduleRequest{
		NewDate: req.NewDate,
		NewTime: req.NewTime,
		Reason:  req.Reason,
	}, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

// ResolveReschedule approves or denies a pending reschedule request.
//
// @Summary      Resolve a reschedule request
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                    true  "Booking ID"
// @Param        body  body  resolveRescheduleRequest  true  "Decision"
// @Success      200   {object}  domain.Booking
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /bookings/{id}/reschedule/resolve [post]
func (h *BookingHandler) ResolveReschedule(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req resolveRescheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	booking, err := h.bookingService.ResolveReschedule(c.Request().Context(), c.Param("id"), *req.Approve, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

// Stats returns the per-salon booking aggregates for dashboards.
//
// @Summary      Salon booking stats
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        salonId  path  string  true  "Salon ID"
// @Success      200  {object}  domain.BookingStats
// @Failure      403  {object}  map[string]string
// @Router       /admin/stats/{salonId} [get]
func (h *BookingHandler) Stats(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	stats, err := h.bookingService.Stats(c.Request().Context(), c.Param("salonId"), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// parseLimit reads a positive limit query parameter, falling back to def.
func parseLimit(c echo.Context, def int64) int64 {
	raw := c.QueryParam("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
