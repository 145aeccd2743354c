package effects

// Effect transforms a block of mono samples in place. State carried between
// calls (filter history, envelopes) continues seamlessly across block
// boundaries.
type Effect interface {
	// Process applies the effect to every sample of block, in order.
	Process(block []float32)
	// Reset clears runtime state without touching configuration.
	Reset()
}
