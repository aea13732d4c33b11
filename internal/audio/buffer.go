// Package audio implements the chunk buffer: accumulation of pending PCM
// samples and the fixed-size, fixed-shift windows the mel featurizer
// consumes.
package audio

import (
	"errors"
	"math"
)

// ErrNaNSample is returned by Append when a sample is NaN. The caller (the
// session) maps this into the InvalidAudio error kind.
var ErrNaNSample = errors.New("audio: NaN sample")

// Buffer holds pending PCM samples for one session and yields fixed-size,
// fixed-shift chunks. It is not safe for concurrent use; the owning session
// serializes all access under its single-writer guard.
type Buffer struct {
	samples      []float32
	chunkSamples int
	shiftSamples int
}

// New creates an empty buffer for the given chunk/shift arithmetic.
func New(chunkSamples, shiftSamples int) *Buffer {
	return &Buffer{chunkSamples: chunkSamples, shiftSamples: shiftSamples}
}

// Append adds samples to the tail, clipping any value outside [-1, 1] and
// rejecting NaN.
func (b *Buffer) Append(samples []float32) error {
	for _, s := range samples {
		if math.IsNaN(float64(s)) {
			return ErrNaNSample
		}
	}
	for _, s := range samples {
		b.samples = append(b.samples, clip(s))
	}
	return nil
}

func clip(s float32) float32 {
	switch {
	case s > 1.0:
		return 1.0
	case s < -1.0:
		return -1.0
	default:
		return s
	}
}

// Len reports the number of samples currently buffered.
func (b *Buffer) Len() int {
	return len(b.samples)
}

// DrainNext returns a copy of the first chunkSamples samples without
// removing them, or (nil, false) if fewer than chunkSamples are buffered.
func (b *Buffer) DrainNext() ([]float32, bool) {
	if len(b.samples) < b.chunkSamples {
		return nil, false
	}
	chunk := make([]float32, b.chunkSamples)
	copy(chunk, b.samples[:b.chunkSamples])
	return chunk, true
}

// Advance removes the first shiftSamples samples, sliding the window
// forward for the next DrainNext call.
func (b *Buffer) Advance() {
	n := b.shiftSamples
	if n > len(b.samples) {
		n = len(b.samples)
	}
	remaining := len(b.samples) - n
	copy(b.samples, b.samples[n:])
	b.samples = b.samples[:remaining]
}

// FlushPadded copies the full remaining buffer, right-pads it with zeros to
// chunkSamples, and clears the buffer. Returns (nil, false) if the buffer is
// empty.
func (b *Buffer) FlushPadded() ([]float32, bool) {
	if len(b.samples) == 0 {
		return nil, false
	}
	chunk := make([]float32, b.chunkSamples)
	copy(chunk, b.samples)
	b.samples = b.samples[:0]
	return chunk, true
}

// Reset empties the buffer, used by the session's reset().
func (b *Buffer) Reset() {
	b.samples = b.samples[:0]
}
