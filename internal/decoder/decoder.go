// Package decoder implements the greedy RNN-T transducer loop over a bounded
// slice of encoder frames. Decoding state — hidden/cell
// tensors and the last emitted token — persists across chunks inside State
// so chunk k resumes exactly where chunk k-1 stopped.
package decoder

import (
	"context"
	"fmt"

	"streaming-asr-core/internal/model"
)

// MaxSymbolsPerFrame bounds the inner per-frame loop, preventing runaway
// token emission from a misbehaving joint model.
const MaxSymbolsPerFrame = 10

// State carries the decoder's persistent state across chunks.
type State struct {
	H, C        model.Tensor
	LastTokenID int64
}

// NewState builds zeroed initial state: h and c are zero
// tensors of the decoder's declared shapes, and last_token_id is the
// decoder's start-of-stream id.
func NewState(dm model.DecoderModel) State {
	return State{
		H:           model.NewTensor(dm.HiddenShape()...),
		C:           model.NewTensor(dm.CellShape()...),
		LastTokenID: dm.StartOfStreamTokenID(),
	}
}

// Decoder runs the greedy transducer loop for one session, wrapping a
// decoder model and a joint model. It is stateless itself; all persistent
// state lives in the State values callers pass in and receive back.
type Decoder struct {
	dm model.DecoderModel
	jm model.JointModel
}

func New(dm model.DecoderModel, jm model.JointModel) *Decoder {
	return &Decoder{dm: dm, jm: jm}
}

// Result is the outcome of decoding one chunk's valid encoder frames.
type Result struct {
	IDs          []int64
	EOUPredicted bool
	State        State
}

// DecodeChunk decodes the first validOutLen frames of encoded (shape
// [1,F,framesOut]) in order, threading state across frames and returning the
// token ids emitted plus whether any frame predicted EOU.
func (d *Decoder) DecodeChunk(ctx context.Context, encoded model.Tensor, validOutLen int, st State) (Result, error) {
	if len(encoded.Shape) != 3 {
		return Result{}, fmt.Errorf("decoder: encoded tensor must be rank 3, got shape %v", encoded.Shape)
	}
	featDim, framesOut := encoded.Shape[1], encoded.Shape[2]
	if validOutLen > framesOut {
		return Result{}, fmt.Errorf("decoder: valid_out_len %d exceeds encoder frames %d", validOutLen, framesOut)
	}

	var ids []int64
	eouPredicted := false

	for t := 0; t < validOutLen; t++ {
		frame := model.Tensor{Shape: []int{1, featDim, 1}, Data: encoded.FrameSlice(featDim, framesOut, t)}

		blankID := model.BlankID(d.jm)
		eouID := model.EOUID(d.jm)

		for i := 0; i < MaxSymbolsPerFrame; i++ {
			decoderOut, newH, newC, err := d.dm.Step(ctx, st.LastTokenID, st.H, st.C)
			if err != nil {
				return Result{}, fmt.Errorf("decoder: decoder step: %w", err)
			}

			logits, err := d.jm.Score(ctx, frame, decoderOut)
			if err != nil {
				return Result{}, fmt.Errorf("decoder: joint score: %w", err)
			}

			id := argmax(logits)

			if id == blankID {
				break
			}
			if id == eouID {
				eouPredicted = true
				break
			}
			ids = append(ids, int64(id))
			st.H, st.C, st.LastTokenID = newH, newC, int64(id)
		}
	}

	return Result{IDs: ids, EOUPredicted: eouPredicted, State: st}, nil
}

func argmax(logits []float32) int {
	best := 0
	for i, v := range logits {
		if v > logits[best] {
			best = i
		}
	}
	return best
}
