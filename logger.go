package unilog

import (
	"fmt"
	"sync/atomic"

	"github.com/dasisdormax/unilog/internal/ring"
)

// formatBufSize bounds WriteFormat's scratch buffer. It is stack-sized (not
// heap-allocated per call in the common case) the way the C ancestor formats
// into a fixed char temp_buffer[256] rather than growing a dynamic buffer.
const formatBufSize = 256

// Logger is a bounded, lock-free, multiple-producer/single-consumer log
// record transport. It borrows a caller-provided byte buffer; construct
// with New and never copy a Logger by value after that (it embeds atomics
// and borrows buf).
type Logger struct {
	ring     *ring.Ring
	minLevel atomic.Int32
}

// New initializes a Logger over buf, whose length must be a power of two.
// buf is zeroed and borrowed for the Logger's lifetime. The minimum level
// starts at TRACE, the most permissive setting.
func New(buf []byte) (*Logger, error) {
	r, err := ring.New(buf)
	if err != nil {
		return nil, err
	}
	lg := &Logger{ring: r}
	lg.minLevel.Store(int32(TRACE))
	return lg, nil
}

// SetLevel atomically sets the minimum admitted level. Safe to call from
// any context concurrently with producers; a level change may be observed
// by in-flight producers with an unspecified but bounded delay.
func (lg *Logger) SetLevel(level Level) {
	lg.minLevel.Store(int32(level))
}

// Level atomically returns the current minimum admitted level.
func (lg *Logger) Level() Level {
	return Level(lg.minLevel.Load())
}

// Capacity returns the backing ring's byte capacity.
func (lg *Logger) Capacity() uint32 {
	return lg.ring.Capacity()
}

// Available returns the number of bytes currently available to read.
func (lg *Logger) Available() uint32 {
	return lg.ring.Available()
}

// IsEmpty reports whether the ring currently holds no records.
func (lg *Logger) IsEmpty() bool {
	return lg.ring.IsEmpty()
}

// Write records a null-terminated-style message: msg is copied verbatim
// (Go strings carry their own length, so unlike the C ancestor no strlen
// scan is needed). Safe to call from concurrent producers; not safe to
// call from a signal handler only insofar as converting a Go string to
// []byte may, in rare cases, involve a copy — callers in a true
// signal-handler-equivalent context should prefer WriteRaw with a
// pre-existing []byte.
func (lg *Logger) Write(level Level, timestamp uint32, msg string) error {
	return lg.WriteRaw(level, timestamp, []byte(msg))
}

// WriteRaw records a raw byte-range message. It performs no allocation, no
// locking, and calls no nonreentrant library function: it is safe to call
// from any asynchronous context, including a signal handler.
//
// WriteRaw returns nil both when the record is committed and when it is
// silently dropped because level is below the current minimum — the
// caller cannot distinguish "filtered" from "recorded" by return value,
// matching common logging-library convention.
func (lg *Logger) WriteRaw(level Level, timestamp uint32, msg []byte) error {
	if level < lg.Level() {
		return nil
	}

	res, err := lg.ring.Reserve(uint32(len(msg)))
	if err != nil {
		return err
	}
	return res.Commit(uint32(level), timestamp, msg)
}

// WriteFormat formats format/args into a fixed-size scratch buffer (see
// formatBufSize) and records the result via WriteRaw. Output longer than
// formatBufSize is cut to its first formatBufSize bytes before it is
// recorded, as the C ancestor's vsnprintf-into-fixed-buffer truncates;
// while formatting such output, fmt.Appendf grows past the scratch array
// onto the heap.
//
// WriteFormat is NOT safe to call from a signal handler: it depends on
// fmt's variadic formatting machinery, which may allocate and is not
// async-signal-safe. Callers writing from such a context must use Write or
// WriteRaw instead. This is a stated boundary of the contract, not a bug.
func (lg *Logger) WriteFormat(level Level, timestamp uint32, format string, args ...any) error {
	if level < lg.Level() {
		return nil
	}

	var scratch [formatBufSize]byte
	msg := fmt.Appendf(scratch[:0], format, args...)
	if len(msg) > formatBufSize {
		msg = msg[:formatBufSize]
	}
	return lg.WriteRaw(level, timestamp, msg)
}

// Read drains the next record into out, non-blocking. It returns the
// number of payload bytes copied into out (which may be less than the
// original payload length if out is too small — excess bytes are
// discarded and the ring cursor still advances past the full record),
// together with the record's level and timestamp.
//
// Read returns ring.ErrEmpty if the ring currently holds no records, and
// ring.ErrBusy if a producer has reserved but not yet committed the next
// slot — callers must retry rather than skip past a busy slot.
func (lg *Logger) Read(out []byte) (n int, level Level, timestamp uint32, err error) {
	n, levelRaw, timestamp, err := lg.ring.Drain(out)
	return n, Level(levelRaw), timestamp, err
}
