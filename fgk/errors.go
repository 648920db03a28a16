package fgk

import "errors"

// Sentinel errors surfaced by Tree and AlphabetParams. Codec wraps
// these with fmt.Errorf("%w", ...) at the point of detection.
var (
	// ErrCorruptStream indicates the bit stream ran out mid-descent or
	// mid-fixed-code, or the padding header is inconsistent with the
	// buffer length.
	ErrCorruptStream = errors.New("fgk: corrupt stream")

	// ErrAlphabetMismatch indicates a decoded (or caller-supplied)
	// symbol value falls outside the configured alphabet range.
	ErrAlphabetMismatch = errors.New("fgk: symbol value out of alphabet range")
)

// InvariantViolationError reports a failed internal consistency check
// (sibling property, weight sum, unique NYT, parent reciprocity).
// Reaching this is a bug: the tree's update procedure is supposed to
// maintain these invariants after every call.
type InvariantViolationError struct {
	Msg string
}

func (e *InvariantViolationError) Error() string {
	return "fgk: invariant violation: " + e.Msg
}
