package ring

import (
	"bytes"
	"testing"
)

func mustNew(t *testing.T, capacity int) *Ring {
	t.Helper()
	r, err := New(make([]byte, capacity))
	if err != nil {
		t.Fatalf("New(%d) failed: %v", capacity, err)
	}
	return r
}

func TestNewRejectsNonPowerOfTwo(t *testing.T) {
	if _, err := New(make([]byte, 1023)); err == nil {
		t.Fatal("expected error for non-power-of-two capacity")
	}
}

func TestNewZeroesBuffer(t *testing.T) {
	buf := make([]byte, 64)
	for i := range buf {
		buf[i] = 0xAA
	}
	if _, err := New(buf); err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d not zeroed: %#x", i, b)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	r := mustNew(t, 1024)

	res, err := r.Reserve(uint32(len("Test message")))
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	if err := res.Commit(uint32(2), 12345, []byte("Test message")); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	out := make([]byte, 256)
	n, level, ts, err := r.Drain(out)
	if err != nil {
		t.Fatalf("Drain failed: %v", err)
	}
	if n != len("Test message") {
		t.Fatalf("expected %d bytes, got %d", len("Test message"), n)
	}
	if level != 2 {
		t.Fatalf("expected level 2, got %d", level)
	}
	if ts != 12345 {
		t.Fatalf("expected timestamp 12345, got %d", ts)
	}
	if !bytes.Equal(out[:n], []byte("Test message")) {
		t.Fatalf("payload mismatch: got %q", out[:n])
	}
	if !r.IsEmpty() {
		t.Fatal("ring should be empty after draining the only record")
	}
}

func TestDrainEmptyIsEmptyNotBusy(t *testing.T) {
	r := mustNew(t, 64)
	out := make([]byte, 16)
	if _, _, _, err := r.Drain(out); err != ErrEmpty {
		t.Fatalf("expected ErrEmpty on untouched ring, got %v", err)
	}
}

func TestDrainUncommittedIsBusy(t *testing.T) {
	r := mustNew(t, 64)
	if _, err := r.Reserve(4); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	out := make([]byte, 16)
	n, _, _, err := r.Drain(out)
	if err != ErrBusy {
		t.Fatalf("expected ErrBusy for a reserved-but-uncommitted slot, got n=%d err=%v", n, err)
	}
}

func TestOversizeRejected(t *testing.T) {
	r := mustNew(t, 1024) // capacity/2 = 512
	payload := make([]byte, 600)
	if _, err := r.Reserve(uint32(len(payload))); err == nil {
		t.Fatal("expected oversize record to be rejected")
	}
	if r.write.Load() != 0 || r.read.Load() != 0 {
		t.Fatal("cursors must be untouched after a rejected oversize reservation")
	}
}

func TestFullReturnsImmediately(t *testing.T) {
	r := mustNew(t, 64)
	payload := make([]byte, 20)

	var ok int
	for {
		if _, err := r.Reserve(uint32(len(payload))); err != nil {
			if err != ErrFull {
				t.Fatalf("unexpected error: %v", err)
			}
			break
		}
		ok++
		if ok > 10 {
			t.Fatal("ring never reported Full")
		}
	}
}

func TestWrapAround(t *testing.T) {
	r := mustNew(t, 64)
	out := make([]byte, 64)

	// Write and drain one record per iteration so the cursors wrap several
	// times, checking that every write/read round-trips correctly.
	for i := 0; i < 20; i++ {
		payload := []byte("abcdefgh")
		res, err := r.Reserve(uint32(len(payload)))
		if err != nil {
			t.Fatalf("iteration %d: Reserve failed: %v", i, err)
		}
		if err := res.Commit(uint32(i%7), uint32(i), payload); err != nil {
			t.Fatalf("iteration %d: Commit failed: %v", i, err)
		}
		n, level, ts, err := r.Drain(out)
		if err != nil {
			t.Fatalf("iteration %d: Drain failed: %v", i, err)
		}
		if n != len(payload) || string(out[:n]) != string(payload) {
			t.Fatalf("iteration %d: payload mismatch: got %q", i, out[:n])
		}
		if level != uint32(i%7) || ts != uint32(i) {
			t.Fatalf("iteration %d: header mismatch: level=%d ts=%d", i, level, ts)
		}
	}
}

func TestDrainedSlotIsFullyZeroed(t *testing.T) {
	r := mustNew(t, 64)
	res, err := r.Reserve(5)
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	start := res.start
	if err := res.Commit(1, 99, []byte("hello")); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	advance := res.advance
	out := make([]byte, 16)
	if _, _, _, err := r.Drain(out); err != nil {
		t.Fatalf("Drain failed: %v", err)
	}

	for i := uint32(0); i < advance; i++ {
		pos := (start + i) & r.mask
		if r.buf[pos] != 0 {
			t.Fatalf("byte at slot offset %d not zeroed after drain: %#x", i, r.buf[pos])
		}
	}
}

func TestTruncationStillAdvancesCursor(t *testing.T) {
	r := mustNew(t, 64)
	res, err := r.Reserve(10)
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	if err := res.Commit(0, 0, []byte("0123456789")); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	small := make([]byte, 4)
	n, _, _, err := r.Drain(small)
	if err != nil {
		t.Fatalf("Drain failed: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected truncated copy of 4 bytes, got %d", n)
	}
	if !r.IsEmpty() {
		t.Fatal("ring cursor must advance past the full record even when output was truncated")
	}
}
