package circulation

import "errors"

// Error kinds. Every error returned by Borrow and Return for a failed
// precondition matches one of these with errors.Is.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

var (
	ErrMemberNotFound   = &kindError{msg: "member not found", kind: ErrNotFound}
	ErrItemNotFound     = &kindError{msg: "book not found", kind: ErrNotFound}
	ErrLoanNotFound     = &kindError{msg: "loan record not found", kind: ErrNotFound}
	ErrItemUnavailable  = &kindError{msg: "book is not available", kind: ErrConflict}
	ErrAlreadyAvailable = &kindError{msg: "book is already available", kind: ErrConflict}
)

type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }
