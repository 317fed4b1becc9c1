package cbor

import (
	"errors"
	"fmt"
	"strconv"
)

const resumableDefault = false

var (
	// ErrShortBytes is returned when the
	// slice being decoded is too short to
	// contain the contents of the message
	ErrShortBytes error = errShort{}

	// ErrMaxDepthExceeded is returned when structural recursion exceeds the
	// configured depth.
	ErrMaxDepthExceeded error = errors.New("cbor: max depth exceeded")

	// ErrContainerTooLarge is returned when a container length exceeds configured Reader limits.
	ErrContainerTooLarge error = errors.New("cbor: container too large")

	// ErrTrailingBytes is returned by DecodeExact when bytes follow the decoded item.
	ErrTrailingBytes error = errors.New("cbor: trailing bytes after item")
)

// Error is the interface satisfied
// by all of the errors that originate
// from this package.
type Error interface {
	error

	// Resumable returns whether
	// or not the error means that
	// the stream of data is malformed
	// and the information is unrecoverable.
	Resumable() bool
}

// contextError allows Error instances to be enhanced with additional
// context about their origin.
type contextError interface {
	Error

	// withContext must not modify the error instance - it must clone and
	// return a new error with the context added.
	withContext(ctx string) error
}

// Cause returns the underlying cause of an error that has been wrapped
// with additional context.
func Cause(e error) error {
	out := e
	if e, ok := e.(errWrapped); ok && e.cause != nil {
		out = e.cause
	}
	return out
}

// Resumable returns whether or not the error means that the stream of data is
// malformed and the information is unrecoverable.
func Resumable(e error) bool {
	if e, ok := e.(Error); ok {
		return e.Resumable()
	}
	return resumableDefault
}

// WrapError wraps an error with additional context that allows the part of the
// serialized type that caused the problem to be identified. Underlying errors
// can be retrieved using Cause() or errors.Is/errors.As.
//
// The input error is not modified - a new error should be returned.
func WrapError(err error, ctx ...any) error {
	switch e := err.(type) {
	case contextError:
		return e.withContext(ctxString(ctx))
	case errWrapped:
		return errWrapped{cause: e.cause, ctx: addCtx(e.ctx, ctxString(ctx))}
	default:
		return errWrapped{cause: err, ctx: ctxString(ctx)}
	}
}

// ctxString joins context parts: ints render as [i], everything else as is.
func ctxString(ctx []any) string {
	out := ""
	for i := len(ctx) - 1; i >= 0; i-- {
		var s string
		switch v := ctx[i].(type) {
		case int:
			s = "[" + strconv.Itoa(v) + "]"
		case string:
			s = v
		default:
			s = fmt.Sprint(v)
		}
		out = addCtx(out, s)
	}
	return out
}

func addCtx(ctx, add string) string {
	if ctx != "" {
		return add + "/" + ctx
	} else {
		return add
	}
}

// errWrapped allows arbitrary errors passed to WrapError to be enhanced with
// context and unwrapped with Cause()
type errWrapped struct {
	cause error
	ctx   string
}

func (e errWrapped) Error() string {
	if e.ctx != "" {
		return e.cause.Error() + " at " + e.ctx
	} else {
		return e.cause.Error()
	}
}

func (e errWrapped) Resumable() bool {
	if e, ok := e.cause.(Error); ok {
		return e.Resumable()
	}
	return resumableDefault
}

// Unwrap returns the cause.
func (e errWrapped) Unwrap() error { return e.cause }

type errShort struct{}

func (e errShort) Error() string   { return "cbor: too few bytes left to read object" }
func (e errShort) Resumable() bool { return false }

// IllFormedError is returned when an item has the expected shape but its
// payload violates a content constraint, such as invalid UTF-8 in a text
// string or an integer magnitude the target type cannot hold.
type IllFormedError struct {
	Type   string // Go type being decoded or encoded
	Reason string
	ctx    string
}

// Error implements the error interface
func (e IllFormedError) Error() string {
	out := "cbor: ill-formed " + e.Type + ": " + e.Reason
	if e.ctx != "" {
		out += " at " + e.ctx
	}
	return out
}

// Resumable is always 'true' for IllFormedErrors; the extent of the
// offending item is known.
func (e IllFormedError) Resumable() bool { return true }

func (e IllFormedError) withContext(ctx string) error { e.ctx = addCtx(e.ctx, ctx); return e }

// UnexpectedError is returned when the classification at the cursor is not
// one of the wire forms the target type accepts.
type UnexpectedError struct {
	Type   string // Go type being decoded or encoded
	Lead   byte
	Class  Class
	Reason string // optional detail
	ctx    string
}

// Error implements the error interface
func (e UnexpectedError) Error() string {
	out := "cbor: unexpected "
	if e.Reason != "" {
		out += e.Reason + " "
	} else {
		out += e.Class.String() + " (0x" + strconv.FormatUint(uint64(e.Lead), 16) + ") "
	}
	out += "decoding " + e.Type
	if e.ctx != "" {
		out += " at " + e.ctx
	}
	return out
}

// Resumable returns 'false' for UnexpectedErrors
func (e UnexpectedError) Resumable() bool { return false }

func (e UnexpectedError) withContext(ctx string) error { e.ctx = addCtx(e.ctx, ctx); return e }

// unexpected builds an UnexpectedError for the lead byte b.
func unexpected(typ string, b byte) error {
	return UnexpectedError{Type: typ, Lead: b, Class: Classify(b)}
}

func illFormed(typ, reason string) error {
	return IllFormedError{Type: typ, Reason: reason}
}

// IsIllFormed reports whether err is or wraps an IllFormedError.
func IsIllFormed(err error) bool {
	var e IllFormedError
	return errors.As(err, &e)
}

// IsUnexpected reports whether err is or wraps an UnexpectedError.
func IsUnexpected(err error) bool {
	var e UnexpectedError
	return errors.As(err, &e)
}
