// Package pipeline connects a capture Source, a ring buffer, an effect
// chain and a playback Sink.
//
// Realtime runs the capture side and the playback side on separate
// goroutines with the lock-free ring between them. The capture side never
// blocks on playback: when the ring is full the period is cut short and
// the rest is dropped. The playback side never waits for capture: when the
// ring holds less than a period the block is padded with silence.
//
// Batch runs both roles on one goroutine over a decoded clip, for offline
// rendering.
package pipeline
