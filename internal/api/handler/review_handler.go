package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/harshpalas/GlamBook/internal/api/metrics"
	"github.com/harshpalas/GlamBook/internal/core/ports"
)

// ReviewHandler handles review creation and listing.
type ReviewHandler struct {
	reviewService ports.ReviewService
}

func NewReviewHandler(reviewService ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

type createReviewRequest struct {
	SalonID   string `json:"salon_id"   validate:"required"`
	BookingID string `json:"booking_id" validate:"required"`
	UserName  string `json:"user_name"  validate:"required"`
	Rating    int    `json:"rating"     validate:"required,min=1,max=5"`
	Comment   string `json:"comment"    validate:"required"`
}

// Create records a review for a booking and schedules the salon's rating
// recompute.
//
// @Summary      Create a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createReviewRequest  true  "Review details"
// @Success      201   {object}  domain.Review
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	review, err := h.reviewService.Create(c.Request().Context(), ports.CreateReviewInput{
		UserID:    actor.UserID,
		SalonID:   req.SalonID,
		BookingID: req.BookingID,
		UserName:  req.UserName,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		return err
	}

	metrics.ReviewsCreatedTotal.WithLabelValues(strconv.Itoa(review.Rating)).Inc()
	return c.JSON(http.StatusCreated, review)
}

// List returns reviews for a salon or a user.
//
// @Summary      List reviews
// @Tags         reviews
// @Produce      json
// @Param        salonId  query  string  false  "Filter by salon"
// @Param        userId   query  string  false  "Filter by user"
// @Success      200  {array}   domain.Review
// @Failure      400  {object}  map[string]string
// @Router       /reviews [get]
func (h *ReviewHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	if salonID := c.QueryParam("salonId"); salonID != "" {
		reviews, err := h.reviewService.ListBySalon(ctx, salonID, parseLimit(c, 20))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, reviews)
	}

	if userID := c.QueryParam("userId"); userID != "" {
		reviews, err := h.reviewService.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, reviews)
	}

	return echo.NewHTTPError(http.StatusBadRequest, "salonId or userId is required")
}
