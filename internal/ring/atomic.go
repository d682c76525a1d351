package ring

import (
	"encoding/binary"
	"sync/atomic"
	"unsafe"
)

// nativePutUint32 and nativeUint32 use the host's native byte order, since
// the ring's persisted layout is explicitly host-native with no
// cross-host portability promised (records never leave this process).
func nativePutUint32(b []byte, v uint32) {
	binary.NativeEndian.PutUint32(b, v)
}

func nativeUint32(b []byte) uint32 {
	return binary.NativeEndian.Uint32(b)
}

// lengthWord returns a pointer to the atomic length/commit-flag word at
// byte offset pos within buf. pos is always a multiple of 4 because every
// reservation advances the write cursor by a 4-byte-aligned amount starting
// from an aligned origin.
func lengthWord(buf []byte, pos uint32) *uint32 {
	return (*uint32)(unsafe.Pointer(&buf[pos]))
}

// atomicLoadUint32 performs the acquire load of the length word used by the
// consumer to detect a completed commit.
func atomicLoadUint32(buf []byte, pos uint32) uint32 {
	return atomic.LoadUint32(lengthWord(buf, pos))
}

// atomicStoreUint32 performs the release store that publishes a committed
// record to the consumer.
func atomicStoreUint32(buf []byte, pos uint32, v uint32) {
	atomic.StoreUint32(lengthWord(buf, pos), v)
}

// atomicStoreUint32Relaxed erases the completion flag on drain. Go's
// sync/atomic offers no relaxed store narrower than StoreUint32's
// sequential consistency; the spec only requires relaxed-or-stronger here,
// so the stronger primitive is used without weakening correctness.
func atomicStoreUint32Relaxed(buf []byte, pos uint32, v uint32) {
	atomic.StoreUint32(lengthWord(buf, pos), v)
}
