package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/harshpalas/GlamBook/internal/core/domain"
	"github.com/harshpalas/GlamBook/internal/core/ports"
)

// ctxActor extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: both user_id and role
// must be present (presence proves the middleware ran and the token carried
// a usable identity).
func ctxActor(c echo.Context) (ports.Actor, error) {
	userID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	if userID == "" || role == "" {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return ports.Actor{UserID: userID, Role: domain.Role(role)}, nil
}

// ctxOptionalActor is ctxActor for routes behind OptionalAuth: an anonymous
// request yields a zero Actor rather than an error.
func ctxOptionalActor(c echo.Context) ports.Actor {
	userID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	return ports.Actor{UserID: userID, Role: domain.Role(role)}
}
