package reconcile

// ValidationError reports a precondition failure of a reconciler operation.
// Validation errors are returned, never panicked, and always leave the input
// state untouched so the caller can surface the reason without rendering a
// state that was never valid.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Sentinel validation errors.  Each operation documents which of these it can
// return; compare with errors.Is.
var (
	ErrInvalidEmail     = &ValidationError{Reason: "invalid_email"}
	ErrDuplicatePending = &ValidationError{Reason: "duplicate_pending"}
	ErrSelfInvite       = &ValidationError{Reason: "self_invite"}
	ErrNotFound         = &ValidationError{Reason: "not_found"}
	ErrNotPending       = &ValidationError{Reason: "not_pending"}
	ErrInvalidPosition  = &ValidationError{Reason: "invalid_position"}
	ErrSeatTaken        = &ValidationError{Reason: "seat_taken"}
)
