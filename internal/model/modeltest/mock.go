// Package modeltest provides deterministic model.StreamingEncoder,
// model.DecoderModel and model.JointModel implementations for tests that
// exercise the streaming session without a real neural network runtime.
// A small queue of pre-decided outputs is replayed in order, rather than a
// randomized or learned response.
package modeltest

import (
	"context"

	"streaming-asr-core/internal/model"
)

// Encoder is a deterministic StreamingEncoder. It fails only when FailAfter
// is set and never inspects the actual audio signal; it only exists to exercise cache
// propagation and shape plumbing. Each call increments LastChannelLen by
// one so tests can observe that caches really do thread across chunks.
type Encoder struct {
	FeatDim   int
	FramesOut int
	// FailAfter, when > 0, makes the Nth call onward return an error,
	// for exercising InferenceFailed / cache-unchanged-on-error behavior.
	FailAfter int
	calls     int
}

func NewEncoder(featDim, framesOut int) *Encoder {
	return &Encoder{FeatDim: featDim, FramesOut: framesOut}
}

func (e *Encoder) Forward(ctx context.Context, audioSignal model.Tensor, audioLength int32, caches model.EncoderCaches) (model.Tensor, model.EncoderCaches, error) {
	e.calls++
	if e.FailAfter > 0 && e.calls >= e.FailAfter {
		return model.Tensor{}, model.EncoderCaches{}, errInference
	}

	out := model.NewTensor(1, e.FeatDim, e.FramesOut)
	for i := range out.Data {
		out.Data[i] = float32(i%7) * 0.01
	}

	newCaches := caches.Clone()
	if len(newCaches.LastChannelLen.Data) > 0 {
		newCaches.LastChannelLen.Data[0]++
	}
	return out, newCaches, nil
}

// Decoder is a deterministic DecoderModel with small fixed (h, c) shapes.
type Decoder struct {
	HShape, CShape []int
	StartID        int64
}

func NewDecoder(startID int64) *Decoder {
	return &Decoder{HShape: []int{1, 1, 64}, CShape: []int{1, 1, 64}, StartID: startID}
}

func (d *Decoder) HiddenShape() []int         { return d.HShape }
func (d *Decoder) CellShape() []int           { return d.CShape }
func (d *Decoder) StartOfStreamTokenID() int64 { return d.StartID }

func (d *Decoder) Step(ctx context.Context, lastTokenID int64, h, c model.Tensor) (model.Tensor, model.Tensor, model.Tensor, error) {
	out := model.NewTensor(1, 1, 64)
	for i := range out.Data {
		out.Data[i] = float32(lastTokenID%5) * 0.1
	}
	newH := h.Clone()
	newC := c.Clone()
	for i := range newH.Data {
		newH.Data[i] += 1
	}
	for i := range newC.Data {
		newC.Data[i] += 1
	}
	return out, newH, newC, nil
}

// ScriptedJoint replays a fixed sequence of argmax decisions, one per call
// to Score, looping back to blank once the script is exhausted. This gives
// tests full control over the token/EOU sequence the RNN-T loop observes.
type ScriptedJoint struct {
	Vocab  int
	Script []int // each entry is the id that should win argmax on that call
	// FailAfter, when > 0, makes the Nth call onward return an error, for
	// exercising InferenceFailed / cache-and-state-unchanged-on-error
	// behavior at the decoder/joint stage.
	FailAfter int
	calls     int
}

// NewAlwaysBlank returns a joint that never emits a token or an EOU — the
// "silence with no EOU model opinion yet" building block.
func NewAlwaysBlank(vocab int) *ScriptedJoint {
	return &ScriptedJoint{Vocab: vocab}
}

func (j *ScriptedJoint) VocabSize() int { return j.Vocab }

func (j *ScriptedJoint) Score(ctx context.Context, encodedFrame, decoderOut model.Tensor) ([]float32, error) {
	j.calls++
	if j.FailAfter > 0 && j.calls >= j.FailAfter {
		return nil, errInference
	}

	id := j.Vocab // default: blank
	if j.calls-1 < len(j.Script) {
		id = j.Script[j.calls-1]
	}

	logits := make([]float32, j.Vocab+2)
	for i := range logits {
		logits[i] = -1
	}
	logits[id] = 10
	return logits, nil
}

var errInference = inferenceError{}

type inferenceError struct{}

func (inferenceError) Error() string { return "modeltest: scripted inference failure" }
