// Package unilog is a bounded, in-memory, lock-free log record transport
// for resource-constrained environments where allocation is forbidden and
// producers may run in asynchronous contexts (goroutines standing in for
// threads, or code invoked from a signal handler). Many producers deposit
// records; exactly one consumer drains them.
//
// The public surface here is deliberately thin: message formatting beyond
// Write/WriteFormat's convenience wrapper, timestamp acquisition, buffer
// allocation, and egress of drained records are all left to the caller.
// The hard part — the reservation protocol, the length-last commit
// handshake, and wrap-around ring arithmetic — lives in internal/ring;
// level admission is the Logger's gate in front of it.
package unilog
