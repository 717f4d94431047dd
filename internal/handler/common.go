package handler // handler defines http handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sitzy/sitzy/internal/i18n"
	"github.com/sitzy/sitzy/internal/reconcile"
)

// getUserID extracts the user_id from echo.Context and converts it to
// uint64.  JWT numeric claims arrive as float64; older tokens may carry the
// subject as a string.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// lang reads the response language resolved by the Language middleware.
func lang(c echo.Context) string {
	if v, ok := c.Get("lang").(string); ok && v != "" {
		return v
	}
	return i18n.LangCS
}

// localized builds the standard error body: a stable machine-readable code
// plus the message in the request's language.
func localized(c echo.Context, status int, code string) error {
	return c.JSON(status, echo.Map{"error": code, "message": i18n.T(lang(c), code)})
}

// validationError maps a reconciler precondition failure onto an HTTP
// response.  duplicate_pending collides with existing state and maps to 409;
// the remaining reasons are plain bad requests except not_found.
func validationError(c echo.Context, err error) error {
	var ve *reconcile.ValidationError
	if !errors.As(err, &ve) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal"})
	}
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, reconcile.ErrDuplicatePending):
		status = http.StatusConflict
	case errors.Is(err, reconcile.ErrNotFound):
		status = http.StatusNotFound
	}
	return localized(c, status, ve.Reason)
}
