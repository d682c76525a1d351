package unilog

import "github.com/dasisdormax/unilog/internal/ring"

// Sentinel errors, re-exported from internal/ring so callers never need to
// import the internal package to use errors.Is. These are the Go-idiom
// translation of the spec's result-code taxonomy (Invalid/Full/Empty/Busy);
// a successful, possibly level-filtered write or a successful read both
// return a nil error, exactly as the underlying protocol returns Ok for
// both "recorded" and "silently dropped by level".
var (
	ErrInvalid = ring.ErrInvalid
	ErrFull    = ring.ErrFull
	ErrEmpty   = ring.ErrEmpty
	ErrBusy    = ring.ErrBusy
)
