package model

import "testing"

func TestNewTensor_ZeroInitialized(t *testing.T) {
	tn := NewTensor(2, 3, 4)
	if len(tn.Data) != 24 {
		t.Fatalf("len(Data) = %d, want 24", len(tn.Data))
	}
	for i, v := range tn.Data {
		if v != 0 {
			t.Fatalf("Data[%d] = %v, want 0", i, v)
		}
	}
}

func TestTensor_Clone_IsIndependent(t *testing.T) {
	a := NewTensor(2, 2)
	a.Data[0] = 5
	b := a.Clone()
	b.Data[0] = 9
	if a.Data[0] != 5 {
		t.Fatalf("mutating clone affected original: a.Data[0] = %v", a.Data[0])
	}
}

func TestTensor_SameShape(t *testing.T) {
	a := NewTensor(1, 4, 8)
	b := NewTensor(1, 4, 8)
	c := NewTensor(1, 4, 9)
	if !a.SameShape(b) {
		t.Fatal("expected identical shapes to match")
	}
	if a.SameShape(c) {
		t.Fatal("expected differing shapes to not match")
	}
}

func TestTensor_FrameSlice_ExtractsChannelVector(t *testing.T) {
	// [1, 3, 2] tensor, channel-major: data[c*framesOut+t]
	tn := Tensor{Shape: []int{1, 3, 2}, Data: []float32{
		0, 1, // channel 0: t=0,1
		10, 11, // channel 1
		20, 21, // channel 2
	}}
	got := tn.FrameSlice(3, 2, 1)
	want := []float32{1, 11, 21}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("FrameSlice[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestIntTensor_Clone_IsIndependent(t *testing.T) {
	a := NewIntTensor(1)
	a.Data[0] = 3
	b := a.Clone()
	b.Data[0] = 9
	if a.Data[0] != 3 {
		t.Fatalf("mutating clone affected original: a.Data[0] = %v", a.Data[0])
	}
}
