package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	acceptSelectInvitation = `SELECT car_id FROM invitations WHERE token = ? AND status = 'PENDING' FOR UPDATE`
	acceptSelectPassenger  = `SELECT car_id FROM passengers WHERE user_id = ? FOR UPDATE`
	acceptInsertPassenger  = `INSERT INTO passengers (car_id, user_id) VALUES (?, ?)`
	acceptUpdateInvitation = `UPDATE invitations SET status = 'ACCEPTED' WHERE token = ? AND status = 'PENDING'`
)

func newMockInvitationRepo(t *testing.T) (*InvitationRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewInvitationRepo(db), mock
}

func TestAcceptByToken(t *testing.T) {
	repo, mock := newMockInvitationRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(acceptSelectInvitation)).
		WithArgs("tok-1").
		WillReturnRows(sqlmock.NewRows([]string{"car_id"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta(acceptSelectPassenger)).
		WithArgs(uint64(3)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta(acceptInsertPassenger)).
		WithArgs(uint64(7), uint64(3)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(acceptUpdateInvitation)).
		WithArgs("tok-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.AcceptByToken(context.Background(), "tok-1", 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptByTokenRiderInAnotherCar(t *testing.T) {
	repo, mock := newMockInvitationRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(acceptSelectInvitation)).
		WithArgs("tok-1").
		WillReturnRows(sqlmock.NewRows([]string{"car_id"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta(acceptSelectPassenger)).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"car_id"}).AddRow(5))
	mock.ExpectRollback()

	err := repo.AcceptByToken(context.Background(), "tok-1", 3)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptByTokenSameCarAgain(t *testing.T) {
	repo, mock := newMockInvitationRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(acceptSelectInvitation)).
		WithArgs("tok-1").
		WillReturnRows(sqlmock.NewRows([]string{"car_id"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta(acceptSelectPassenger)).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"car_id"}).AddRow(7))
	mock.ExpectExec(regexp.QuoteMeta(acceptUpdateInvitation)).
		WithArgs("tok-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.AcceptByToken(context.Background(), "tok-1", 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptByTokenNotPending(t *testing.T) {
	repo, mock := newMockInvitationRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(acceptSelectInvitation)).
		WithArgs("tok-1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := repo.AcceptByToken(context.Background(), "tok-1", 3)
	assert.ErrorIs(t, err, ErrInvitationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
