package ring

import "errors"

// Sentinel errors returned by Ring operations. Callers should compare with
// errors.Is, since operations wrap these with context via fmt.Errorf("%w").
var (
	// ErrInvalid indicates a programmer error: a nil/empty argument, a
	// non-power-of-two capacity, an oversize record, or a corrupt on-ring
	// length word encountered during drain. Never retried.
	ErrInvalid = errors.New("ring: invalid argument")

	// ErrFull indicates the reservation could not find enough free space
	// (records may wrap around the buffer end, so the space need not be
	// contiguous). Transient; the caller decides whether to drop, spin, or
	// escalate.
	ErrFull = errors.New("ring: full")

	// ErrEmpty indicates a drain was attempted with write == read.
	ErrEmpty = errors.New("ring: empty")

	// ErrBusy indicates the slot at the read cursor has been reserved by a
	// producer but not yet committed. The caller must not skip the slot;
	// it must retry, possibly after a yield.
	ErrBusy = errors.New("ring: busy")
)
