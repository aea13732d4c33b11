package model

import "context"

// StreamingEncoder is the opaque cache-aware Conformer encoder. A single
// Forward call consumes one chunk's mel spectrogram plus the five inbound
// caches and produces the encoded frames plus the five outbound caches.
// Implementations are expected to be read-only and safe to share across
// sessions; the caches themselves are owned exclusively by the session that
// passes them in.
type StreamingEncoder interface {
	Forward(ctx context.Context, audioSignal Tensor, audioLength int32, caches EncoderCaches) (encodedOutput Tensor, newCaches EncoderCaches, err error)
}

// DecoderModel is the opaque RNN-T prediction network. One Step corresponds
// to one symbol-generation attempt: it consumes the last emitted token id
// plus the carried (h, c) state and produces a decoder embedding plus the
// next (h, c).
type DecoderModel interface {
	Step(ctx context.Context, lastTokenID int64, h, c Tensor) (decoderOut, newH, newC Tensor, err error)
	// HiddenShape and CellShape describe the (h, c) tensors this decoder
	// expects, used to zero-initialize state at construction and reset.
	HiddenShape() []int
	CellShape() []int
	// StartOfStreamTokenID is the id the decoder was trained to receive as
	// the initial "last token" input. This is a property of the trained
	// artifact and must never be guessed.
	StartOfStreamTokenID() int64
}

// JointModel is the opaque joint network that combines one encoder frame
// with one decoder embedding into a distribution over vocabulary tokens,
// blank, and the EOU class.
type JointModel interface {
	// Score returns V+2 logits: [0,V) vocabulary, V blank, V+1 EOU.
	Score(ctx context.Context, encodedFrame, decoderOut Tensor) (logits []float32, err error)
	// VocabSize is V; BlankID and EOUID are derived from it. A future
	// artifact format could pin these explicitly instead of deriving them.
	VocabSize() int
}

// BlankID and EOUID are derived positions in a JointModel's logits, not
// independently configurable.
func BlankID(j JointModel) int { return j.VocabSize() }
func EOUID(j JointModel) int   { return j.VocabSize() + 1 }

// Set bundles the three model collaborators plus the encoder's feature
// dimension, which the session needs to slice per-frame encoder output.
type Set struct {
	Encoder        StreamingEncoder
	Decoder        DecoderModel
	Joint          JointModel
	EncoderFeatDim int
}
