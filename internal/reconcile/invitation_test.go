package reconcile

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pending(token, email string) Invitation {
	return Invitation{
		Token:        token,
		InvitedEmail: email,
		Status:       StatusPending,
		CarID:        1,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestRequestInviteAppendsPlaceholder(t *testing.T) {
	base := []Invitation{pending("tok-1", "a@example.com")}

	next, token, err := RequestInvite(base, "B@Example.com", "owner@example.com", 1)
	require.NoError(t, err)
	require.Len(t, next, 2)
	assert.Len(t, base, 1, "input list must stay untouched")

	added := next[1]
	assert.Equal(t, token, added.Token)
	assert.True(t, strings.HasPrefix(token, "tmp-"))
	assert.Equal(t, "b@example.com", added.InvitedEmail)
	assert.Equal(t, StatusPending, added.Status)
}

func TestRequestInviteValidation(t *testing.T) {
	base := []Invitation{
		pending("tok-1", "busy@example.com"),
		{Token: "tok-2", InvitedEmail: "done@example.com", Status: StatusAccepted, CarID: 1},
	}

	cases := []struct {
		name    string
		email   string
		inviter string
		want    error
	}{
		{"missing at sign", "nonsense", "owner@example.com", ErrInvalidEmail},
		{"empty", "", "owner@example.com", ErrInvalidEmail},
		{"duplicate pending", "busy@example.com", "owner@example.com", ErrDuplicatePending},
		{"duplicate pending different case", "BUSY@EXAMPLE.COM", "owner@example.com", ErrDuplicatePending},
		{"self invite", "owner@example.com", "owner@example.com", ErrSelfInvite},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := RequestInvite(base, tc.email, tc.inviter, 1)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	// A resolved entry does not block re-inviting the same address.
	_, _, err := RequestInvite(base, "done@example.com", "owner@example.com", 1)
	assert.NoError(t, err)
}

func TestCommitInviteReplacesByToken(t *testing.T) {
	base := []Invitation{pending("tok-1", "a@example.com")}
	next, placeholder, err := RequestInvite(base, "b@example.com", "owner@example.com", 1)
	require.NoError(t, err)

	server := pending("srv-42", "b@example.com")
	committed := CommitInvite(next, placeholder, server)

	require.Len(t, committed, 2)
	assert.Equal(t, "srv-42", committed[1].Token)
	for _, inv := range committed {
		assert.False(t, strings.HasPrefix(inv.Token, "tmp-"))
	}
}

func TestCommitInviteDiscardsStaleRecord(t *testing.T) {
	// The placeholder was already rolled back; the late server record must
	// not reappear.
	base := []Invitation{pending("tok-1", "a@example.com")}
	committed := CommitInvite(base, "tmp-gone", pending("srv-42", "b@example.com"))
	assert.Equal(t, base, committed)
}

func TestRollbackInviteRestoresOriginal(t *testing.T) {
	base := []Invitation{pending("tok-1", "a@example.com")}
	next, placeholder, err := RequestInvite(base, "b@example.com", "owner@example.com", 1)
	require.NoError(t, err)

	assert.Equal(t, base, RollbackInvite(next, placeholder))
}

func TestRequestCancel(t *testing.T) {
	base := []Invitation{
		pending("tok-1", "a@example.com"),
		pending("tok-2", "b@example.com"),
	}

	next, err := RequestCancel(base, "tok-1")
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.Equal(t, "tok-2", next[0].Token)
	assert.Len(t, base, 2)

	_, err = RequestCancel(base, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRequestRespond(t *testing.T) {
	base := []Invitation{pending("tok-1", "a@example.com")}

	accepted, prev, err := RequestRespond(base, "tok-1", true)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, prev)
	assert.Equal(t, StatusAccepted, accepted[0].Status)
	assert.Equal(t, StatusPending, base[0].Status)

	rejected, _, err := RequestRespond(base, "tok-1", false)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected[0].Status)

	// A second respond on the resolved list is an error, not a re-apply.
	_, _, err = RequestRespond(accepted, "tok-1", false)
	assert.ErrorIs(t, err, ErrNotPending)

	_, _, err = RequestRespond(base, "missing", true)
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestRollbackRespond(t *testing.T) {
	base := []Invitation{pending("tok-1", "a@example.com")}
	accepted, prev, err := RequestRespond(base, "tok-1", true)
	require.NoError(t, err)

	assert.Equal(t, base, RollbackRespond(accepted, "tok-1", prev))
	// Unknown token is a no-op.
	assert.Equal(t, accepted, RollbackRespond(accepted, "missing", prev))
}

func TestValidationErrorReason(t *testing.T) {
	var ve *ValidationError
	require.ErrorAs(t, ErrDuplicatePending, &ve)
	assert.Equal(t, "duplicate_pending", ve.Reason)
}
