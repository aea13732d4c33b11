package mel

import "math"

// slaney mel scale breakpoints, matching the widely used Auditory Toolbox
// formula: linear below 1kHz, logarithmic above.
const (
	slaneyFSP      = 200.0 / 3.0
	slaneyMinLogHz = 1000.0
	slaneyMinLogMel = slaneyMinLogHz / slaneyFSP // 15.0
)

var slaneyLogStep = math.Log(6.4) / 27.0

func hzToMel(hz float64) float64 {
	if hz < slaneyMinLogHz {
		// hz / slaneyFSP, written as hz*3/200 so the result is rounded once.
		return hz * 3 / 200
	}
	return slaneyMinLogMel + math.Log(hz/slaneyMinLogHz)/slaneyLogStep
}

func melToHz(mel float64) float64 {
	if mel < slaneyMinLogMel {
		return slaneyFSP * mel
	}
	return slaneyMinLogHz * math.Exp(slaneyLogStep*(mel-slaneyMinLogMel))
}

// filterbank builds an nMels x (nFFT/2+1) matrix of area-normalized
// triangular filters over [fMin, fMax] Hz, row-major.
func filterbank(sampleRate, nFFT, nMels int, fMin, fMax float64) []float32 {
	nBins := nFFT/2 + 1
	melMin := hzToMel(fMin)
	melMax := hzToMel(fMax)

	melPoints := make([]float64, nMels+2)
	for i := range melPoints {
		melPoints[i] = melMin + (melMax-melMin)*float64(i)/float64(nMels+1)
	}
	hzPoints := make([]float64, nMels+2)
	for i, m := range melPoints {
		hzPoints[i] = melToHz(m)
	}

	binFreqs := make([]float64, nBins)
	for k := range binFreqs {
		binFreqs[k] = float64(k) * float64(sampleRate) / float64(nFFT)
	}

	weights := make([]float32, nMels*nBins)
	for m := 0; m < nMels; m++ {
		fLeft, fCenter, fRight := hzPoints[m], hzPoints[m+1], hzPoints[m+2]
		enorm := 2.0 / (fRight - fLeft)
		for k, f := range binFreqs {
			lower := (f - fLeft) / (fCenter - fLeft)
			upper := (fRight - f) / (fRight - fCenter)
			w := math.Min(lower, upper)
			if w < 0 {
				w = 0
			}
			weights[m*nBins+k] = float32(w * enorm)
		}
	}
	return weights
}
