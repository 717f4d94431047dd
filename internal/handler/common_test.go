package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitzy/sitzy/internal/reconcile"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestGetUserID(t *testing.T) {
	cases := []struct {
		name  string
		value interface{}
		want  uint64
		ok    bool
	}{
		{"float64 claim", float64(42), 42, true},
		{"uint64", uint64(7), 7, true},
		{"int", 7, 7, true},
		{"numeric string", "19", 19, true},
		{"garbage string", "abc", 0, false},
		{"missing", nil, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestContext(t)
			if tc.value != nil {
				c.Set("user_id", tc.value)
			}
			got, err := getUserID(c)
			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidationErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{reconcile.ErrInvalidEmail, http.StatusBadRequest, "invalid_email"},
		{reconcile.ErrSelfInvite, http.StatusBadRequest, "self_invite"},
		{reconcile.ErrDuplicatePending, http.StatusConflict, "duplicate_pending"},
		{reconcile.ErrNotFound, http.StatusNotFound, "not_found"},
		{reconcile.ErrNotPending, http.StatusBadRequest, "not_pending"},
		{reconcile.ErrInvalidPosition, http.StatusBadRequest, "invalid_position"},
		{reconcile.ErrSeatTaken, http.StatusBadRequest, "seat_taken"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			c, rec := newTestContext(t)
			c.Set("lang", "en")
			require.NoError(t, validationError(c, tc.err))
			assert.Equal(t, tc.status, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body["error"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestLocalizedDefaultsToCzech(t *testing.T) {
	c, rec := newTestContext(t)
	require.NoError(t, localized(c, http.StatusNotFound, "car_not_found"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Auto nenalezeno", body["message"])
}
