package handler

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitzy/sitzy/internal/repository"
)

func newSeatHandler(t *testing.T) (*SeatHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSeatHandler(
		repository.NewSeatRepo(db),
		repository.NewCarRepo(db),
		repository.NewUserRepo(db),
		repository.NewPassengerRepo(db),
	), mock
}

func seatContext(t *testing.T, method string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/v1/seats", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(3))
	return c, rec
}

func userRows(id uint64, email string, ts time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at", "updated_at"}).
		AddRow(id, email, "x", ts, ts)
}

// expectRiderCar queues the lookups FreeSeat runs before touching seats: the
// caller's passenger link, the car, the caller and the car's owner.
func expectRiderCar(mock sqlmock.Sqlmock, ts time.Time) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT car_id FROM passengers WHERE user_id = ? LIMIT 1`)).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"car_id"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM cars WHERE id = ?`)).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name", "layout", "departs_at", "created_at", "updated_at"}).
			AddRow(7, 2, "Ranní spoj", "SEDAN", ts, ts, ts))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id=? LIMIT 1`)).
		WithArgs(uint64(3)).
		WillReturnRows(userRows(3, "rider@example.com", ts))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id=? LIMIT 1`)).
		WithArgs(uint64(2)).
		WillReturnRows(userRows(2, "owner@example.com", ts))
}

func TestFreeSeatWithoutSeat(t *testing.T) {
	h, mock := newSeatHandler(t)
	ts := time.Now()

	expectRiderCar(mock, ts)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE s.car_id = ?`)).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"position", "user_id", "email"}))

	c, rec := seatContext(t, http.MethodDelete)
	require.NoError(t, h.FreeSeat(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "user_not_in_seat")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFreeSeat(t *testing.T) {
	h, mock := newSeatHandler(t)
	ts := time.Now()

	expectRiderCar(mock, ts)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE s.car_id = ?`)).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"position", "user_id", "email"}).
			AddRow(2, 3, "rider@example.com"))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM seats WHERE car_id = ? AND user_id = ?`)).
		WithArgs(uint64(7), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := seatContext(t, http.MethodDelete)
	require.NoError(t, h.FreeSeat(c))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
