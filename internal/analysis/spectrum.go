package analysis

import (
	"math/cmplx"
	"time"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/swingsim/internal/dynamo"
)

// Series extracts one coordinate of one particle from every frame. A
// negative particle index counts from the free end. Frames without that
// particle are skipped.
func Series(frames []dynamo.Frame, particle int, axis func(dynamo.Vec2) float64) []float64 {
	out := make([]float64, 0, len(frames))
	for _, f := range frames {
		i := particle
		if i < 0 {
			i += len(f.Positions)
		}
		if i < 0 || i >= len(f.Positions) {
			continue
		}
		out = append(out, axis(f.Positions[i]))
	}
	return out
}

func X(v dynamo.Vec2) float64 { return v.X }
func Y(v dynamo.Vec2) float64 { return v.Y }

// PowerSpectrum returns the magnitudes of the first half of the spectrum of
// data with its mean removed, so bin 0 stays near zero.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centred := make([]float64, len(data))
	for i, v := range data {
		centred[i] = v - mean
	}

	spectrum := fft.FFTReal(centred)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod is the period of the strongest non-constant bin, for
// samples taken every interval. It reports false for flat or short series.
func DominantPeriod(data []float64, interval time.Duration) (time.Duration, bool) {
	ps := PowerSpectrum(data)

	peak, peakIdx := 0.0, 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > peak {
			peak, peakIdx = ps[i], i
		}
	}
	if peakIdx == 0 || peak < 1e-9 {
		return 0, false
	}
	return time.Duration(float64(len(data)) * float64(interval) / float64(peakIdx)), true
}
