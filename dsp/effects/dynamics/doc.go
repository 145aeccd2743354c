// Package dynamics provides a feed-forward peak compressor for streaming
// float32 blocks.
//
// The compressor follows the input magnitude with an asymmetric one-pole
// envelope and applies a single hard-knee gain curve above the threshold.
// There is no look-ahead and no makeup gain.
package dynamics
