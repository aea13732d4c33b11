// Package mel converts a fixed-size PCM chunk into the mel spectrogram the
// streaming encoder expects. The numeric recipe — sample rate, FFT size,
// hop, window, mel scale, compression — is fixed and is not
// runtime-configurable; only the caller-selected chunk size varies.
package mel

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	SampleRate = 16000
	NFFT       = 512
	HopLength  = 160
	WinLength  = 400
	NMels      = 128
	FMin       = 0.0
	FMax       = 8000.0
	logFloor   = 1e-5
)

// Featurizer computes mel spectrograms for chunks of a fixed sample count.
// It is stateless across calls (no lookahead is carried inside it — the
// pre_cache lookahead lives in the session, one layer up) and safe to reuse
// across chunks of the same chunk_samples length.
type Featurizer struct {
	chunkSamples int
	frames       int
	fft          *fourier.FFT
	filters      []float32 // NMels x (NFFT/2+1), row-major
	hann         []float64 // periodic Hann window, length WinLength
}

// New builds a Featurizer for chunks of exactly chunkSamples PCM samples.
func New(chunkSamples int) *Featurizer {
	frames := (chunkSamples+2*(NFFT/2)-WinLength)/HopLength + 1
	return &Featurizer{
		chunkSamples: chunkSamples,
		frames:       frames,
		fft:          fourier.NewFFT(NFFT),
		filters:      filterbank(SampleRate, NFFT, NMels, FMin, FMax),
		hann:         periodicHann(WinLength),
	}
}

// periodicHann computes the DFT-even ("periodic") Hann window of length n,
// w[i] = 0.5 - 0.5*cos(2*pi*i/n), matching the torchaudio/PyTorch
// periodic=true convention the encoder was trained against. This differs
// from gonum's dsp/window.Hann, which is symmetric (divides by n-1).
func periodicHann(n int) []float64 {
	w := make([]float64, n)
	for i := 0; i < n; i++ {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}

// Frames returns T, the number of mel frames a chunk of this size produces.
func (f *Featurizer) Frames() int { return f.frames }

// ErrWrongChunkLength is returned when Compute is given a chunk whose length
// does not equal the chunk_samples this Featurizer was built for.
type ErrWrongChunkLength struct {
	Got, Want int
}

func (e *ErrWrongChunkLength) Error() string {
	return fmt.Sprintf("mel: chunk length %d, want %d", e.Got, e.Want)
}

// Compute converts one chunk into a flat [NMels x T] row-major mel buffer.
func (f *Featurizer) Compute(chunk []float32) ([]float32, int, error) {
	if len(chunk) != f.chunkSamples {
		return nil, 0, &ErrWrongChunkLength{Got: len(chunk), Want: f.chunkSamples}
	}

	padded := reflectPad(chunk, NFFT/2)

	nBins := NFFT/2 + 1
	out := make([]float32, NMels*f.frames)
	frameBuf := make([]float64, NFFT)
	power := make([]float64, nBins)

	for t := 0; t < f.frames; t++ {
		start := t * HopLength
		for i := range frameBuf {
			frameBuf[i] = 0
		}
		offset := (NFFT - WinLength) / 2
		for i := 0; i < WinLength; i++ {
			frameBuf[offset+i] = float64(padded[start+i]) * f.hann[i]
		}

		coeffs := f.fft.Coefficients(nil, frameBuf)
		for k := 0; k < nBins; k++ {
			re, im := real(coeffs[k]), imag(coeffs[k])
			power[k] = re*re + im*im
		}

		for m := 0; m < NMels; m++ {
			var acc float64
			row := f.filters[m*nBins : (m+1)*nBins]
			for k := 0; k < nBins; k++ {
				acc += float64(row[k]) * power[k]
			}
			logVal := math.Log(acc + logFloor)
			if math.IsNaN(logVal) {
				logVal = math.Log(logFloor)
			}
			out[m*f.frames+t] = float32(logVal)
		}
	}

	return out, f.frames, nil
}

// reflectPad pads seq by n samples on each side using reflection without
// repeating the edge sample (numpy/torch "reflect" mode), matching center=true
// STFT padding.
func reflectPad(seq []float32, n int) []float32 {
	total := len(seq) + 2*n
	out := make([]float32, total)
	copy(out[n:n+len(seq)], seq)
	for i := 0; i < n; i++ {
		out[n-1-i] = seq[(i+1)%len(seq)]
		out[n+len(seq)+i] = seq[len(seq)-2-i]
	}
	return out
}
