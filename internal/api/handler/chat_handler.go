package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/harshpalas/GlamBook/internal/api/metrics"
	"github.com/harshpalas/GlamBook/internal/core/ports"
)

// ChatHandler handles the per-booking chat routes.
type ChatHandler struct {
	chatService ports.ChatService
}

func NewChatHandler(chatService ports.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type sendMessageRequest struct {
	SenderName string `json:"sender_name" validate:"required"`
	Message    string `json:"message"     validate:"required"`
}

// Send appends a message to the booking's conversation.
//
// @Summary      Send a chat message
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        bookingId  path  string              true  "Booking ID"
// @Param        body       body  sendMessageRequest  true  "Message"
// @Success      201  {object}  domain.ChatMessage
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /chat/{bookingId} [post]
func (h *ChatHandler) Send(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	msg, err := h.chatService.Send(c.Request().Context(), ports.SendMessageInput{
		BookingID:  c.Param("bookingId"),
		SenderID:   actor.UserID,
		SenderName: req.SenderName,
		SenderRole: actor.Role,
		Message:    req.Message,
	})
	if err != nil {
		return err
	}

	metrics.ChatMessagesTotal.WithLabelValues(string(actor.Role)).Inc()
	return c.JSON(http.StatusCreated, msg)
}

// History returns the booking's messages oldest first.
//
// @Summary      Chat history for a booking
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        bookingId  path  string  true  "Booking ID"
// @Success      200  {array}   domain.ChatMessage
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /chat/{bookingId} [get]
func (h *ChatHandler) History(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	messages, err := h.chatService.History(c.Request().Context(), c.Param("bookingId"), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messages)
}
