package handlers

import (
	"errors"
	"net/http"

	"github.com/dairydesk/backend/internal/repository/mongodb"
	"github.com/dairydesk/backend/internal/service/milk"
	"github.com/dairydesk/backend/internal/service/payments"
	"github.com/dairydesk/backend/internal/service/users"
)

// statusFor converts service-layer errors to HTTP statuses. Anything not
// recognized is a server fault.
func statusFor(err error) int {
	switch {
	case errors.Is(err, mongodb.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, milk.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, users.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, milk.ErrInvalid),
		errors.Is(err, payments.ErrInvalid),
		errors.Is(err, users.ErrInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
