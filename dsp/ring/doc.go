// Package ring provides a lock-free single-producer/single-consumer sample
// queue for moving audio between two independent timing domains, such as a
// capture callback and a playback callback.
//
// A [Buffer] has a fixed power-of-two capacity. Exactly one goroutine may
// call [Buffer.Write] and [Buffer.WriteAvailable]; exactly one (possibly
// different) goroutine may call [Buffer.Read] and [Buffer.ReadAvailable].
// The contract is not checked at runtime. A single goroutine may also play
// both roles in turn, as a batch pipeline does.
//
// Read and Write never block and never allocate. They move as many samples
// as currently fit and return the count; a short count is backpressure and
// the caller decides whether to drop, retry or substitute silence.
package ring
