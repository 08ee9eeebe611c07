package matrix

import "github.com/parsat-ground/ax25link/pkg/ax25"

// Code is shared with pkg/ax25: the error taxonomy in spec.md §7 is a single
// global set of kinds, not one per layer.
type Code = ax25.Code

const (
	InvalidParam   = ax25.InvalidParam
	EncodeFail     = ax25.EncodeFail
	BufferOverflow = ax25.BufferOverflow
	DecodeFail     = ax25.DecodeFail
	FCSMismatch    = ax25.FCSMismatch
)

// Error is an alias of ax25.Error so callers can type-switch on one error
// type regardless of which package raised it.
type Error = ax25.Error

func newError(code Code, msg string, cause error) *Error {
	return &Error{Code: code, Msg: msg, Err: cause}
}
