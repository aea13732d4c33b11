// Package eou implements the sample-accurate end-of-utterance debounce
// state machine. It turns a per-chunk EOU prediction plus
// per-chunk token emission into a single latched confirmation, using
// integer sample counts rather than wall-clock time so correctness never
// depends on how fast the caller happens to call in.
package eou

// Debouncer tracks the running sample clock and the current silent-EOU run.
// It is not safe for concurrent use; the owning session serializes access
// under its own single-writer guard, so this carries no mutex of its own.
type Debouncer struct {
	debounceMS int

	totalSamplesProcessed int64
	eouFirstDetectedAt    *int64
	confirmed             bool
}

// New builds a debouncer requiring debounceMS of continuous silent EOU
// predictions before confirming an utterance boundary.
func New(debounceMS int) *Debouncer {
	return &Debouncer{debounceMS: debounceMS}
}

// Update advances the sample clock by shiftSamples and applies one chunk's
// decoder outcome. It returns true exactly once, on the chunk where the
// boundary is first confirmed; every subsequent call returns false until
// Reset, even if eouPredicted keeps coming back true.
func (d *Debouncer) Update(shiftSamples int64, eouPredicted bool, emittedAny bool) bool {
	d.totalSamplesProcessed += shiftSamples

	if !eouPredicted {
		d.eouFirstDetectedAt = nil
		return false
	}

	if emittedAny {
		d.eouFirstDetectedAt = nil
	} else if d.eouFirstDetectedAt == nil {
		start := d.totalSamplesProcessed
		d.eouFirstDetectedAt = &start
	}

	if d.eouFirstDetectedAt == nil {
		return false
	}

	elapsedMS := (d.totalSamplesProcessed - *d.eouFirstDetectedAt) * 1000 / sampleRate
	if elapsedMS >= int64(d.debounceMS) && !d.confirmed {
		d.confirmed = true
		return true
	}
	return false
}

// Confirmed reports whether the boundary has already latched this session.
func (d *Debouncer) Confirmed() bool { return d.confirmed }

// TotalSamplesProcessed returns the running sample clock, exposed for
// debugging and tests that assert exact timing.
func (d *Debouncer) TotalSamplesProcessed() int64 { return d.totalSamplesProcessed }

// Reset clears all state, matching the session's reset() contract.
func (d *Debouncer) Reset() {
	d.totalSamplesProcessed = 0
	d.eouFirstDetectedAt = nil
	d.confirmed = false
}

const sampleRate = 16000
