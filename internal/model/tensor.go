// Package model defines the opaque tensor and model-artifact boundary between
// the streaming core and the neural network runtime. The runtime itself
// (weight loading, kernel execution, artifact download/caching) is an
// external collaborator; this package only describes the shapes that cross
// that boundary and the interfaces a runtime must satisfy.
package model

import "fmt"

// Tensor is an owned, row-major float32 buffer with shape metadata. It never
// borrows into runtime-owned memory: every Tensor returned across a model
// call boundary is a value the caller fully owns.
type Tensor struct {
	Shape []int
	Data  []float32
}

// NewTensor allocates a zero-initialized tensor of the given shape.
func NewTensor(shape ...int) Tensor {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return Tensor{Shape: append([]int(nil), shape...), Data: make([]float32, n)}
}

// Clone returns a deep copy so mutation of the copy never affects the
// original — used when constructing the "new" side of an atomic cache swap.
func (t Tensor) Clone() Tensor {
	data := make([]float32, len(t.Data))
	copy(data, t.Data)
	return Tensor{Shape: append([]int(nil), t.Shape...), Data: data}
}

// SameShape reports whether two tensors share identical shape metadata.
func (t Tensor) SameShape(other Tensor) bool {
	if len(t.Shape) != len(other.Shape) {
		return false
	}
	for i := range t.Shape {
		if t.Shape[i] != other.Shape[i] {
			return false
		}
	}
	return true
}

func (t Tensor) String() string {
	return fmt.Sprintf("Tensor%v(len=%d)", t.Shape, len(t.Data))
}

// FrameSlice extracts channel vector at time index t from a [1, F, T]
// channel-major tensor, i.e. the encoder's encoded_output layout.
func (t Tensor) FrameSlice(f, framesOut, tIdx int) []float32 {
	out := make([]float32, f)
	for c := 0; c < f; c++ {
		out[c] = t.Data[c*framesOut+tIdx]
	}
	return out
}

// IntTensor is the int32 analogue of Tensor, used for audio_length and
// cache_last_channel_len which are integer-valued by contract.
type IntTensor struct {
	Shape []int
	Data  []int32
}

// NewIntTensor allocates a zero-initialized int32 tensor of the given shape.
func NewIntTensor(shape ...int) IntTensor {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return IntTensor{Shape: append([]int(nil), shape...), Data: make([]int32, n)}
}

// Clone returns a deep copy of the int tensor.
func (t IntTensor) Clone() IntTensor {
	data := make([]int32, len(t.Data))
	copy(data, t.Data)
	return IntTensor{Shape: append([]int(nil), t.Shape...), Data: data}
}
