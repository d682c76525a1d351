// Package ring implements the lock-free multiple-producer/single-consumer
// byte ring that backs unilog. It borrows a caller-provided, power-of-two
// []byte and never allocates on the hot path: reservation is a lock-free
// compare-and-swap loop, commit is a single release store, and drain never
// blocks. Producers may run concurrently with each other and with the
// consumer, including from preempted or interrupted contexts; the package
// itself has no notion of log levels or message formatting, only of
// reserving, committing, and draining fixed-header byte records.
package ring
