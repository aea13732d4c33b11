package model

import "fmt"

// ChunkProfile is an immutable preset selected at session construction. The
// three presets (short/medium/long) trade latency for throughput; every
// derived constant (mel frame count, valid output length, cache shapes) is
// fixed by the profile and never recomputed at runtime.
type ChunkProfile struct {
	Name           string
	ChunkSamples   int
	MelFrames      int
	ValidOutLen    int
	PreCacheFrames int
	ShiftSamples   int
	LatencyMS      int
}

const (
	SampleRate = 16000
	HopLength  = 160
)

// ShortProfile targets 160ms latency with 50% chunk overlap.
var ShortProfile = ChunkProfile{
	Name:           "short",
	ChunkSamples:   2560,
	MelFrames:      17,
	ValidOutLen:    2,
	PreCacheFrames: 16,
	ShiftSamples:   1280,
	LatencyMS:      160,
}

// MediumProfile targets 320ms latency.
var MediumProfile = ChunkProfile{
	Name:           "medium",
	ChunkSamples:   10080,
	MelFrames:      64,
	ValidOutLen:    4,
	PreCacheFrames: 9,
	ShiftSamples:   5120,
	LatencyMS:      320,
}

// LongProfile targets 1600ms latency. ChunkSamples (50928) is a calibration
// constant inherited from the trained artifact and is not derivable from
// (mel_frames-1)*hop_length.
var LongProfile = ChunkProfile{
	Name:           "long",
	ChunkSamples:   50928,
	MelFrames:      320,
	ValidOutLen:    20,
	PreCacheFrames: 9,
	ShiftSamples:   25600,
	LatencyMS:      1600,
}

// ProfileByName resolves one of "short", "medium", "long" (case-sensitive,
// matching the lowercase spelling used throughout configuration).
func ProfileByName(name string) (ChunkProfile, error) {
	switch name {
	case "short":
		return ShortProfile, nil
	case "medium":
		return MediumProfile, nil
	case "long":
		return LongProfile, nil
	default:
		return ChunkProfile{}, fmt.Errorf("model: unknown chunk profile %q", name)
	}
}
