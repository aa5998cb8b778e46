package animated

import (
	"math"
	"time"
)

// steadyThreshold is the maximum frame-rate standard deviation, as a
// fraction of the mean rate, for a playback to count as steady.
// Example: 10 fps mean → steady if stddev < 1.5 fps
const steadyThreshold = 0.15

// Timing summarises the playback rate of an image's frame delays.
type Timing struct {
	Frames   int
	Duration time.Duration

	// FPSMean is frames over total duration
	FPSMean float64
	// FPSMin and FPSMax are the per-frame rates (1/delay) extremes
	FPSMin    float64
	FPSMax    float64
	FPSStdDev float64

	// Steady reports a per-frame rate stddev below 15% of the mean
	Steady bool
}

// Timing computes playback statistics from the frame delays.
//
// A still image (or one without positive delays) reports its frame count
// and duration with zero rates.
func (img *Image) Timing() Timing {
	t := Timing{Frames: len(img.Frames), Duration: img.Duration()}
	if t.Frames < 2 || t.Duration <= 0 {
		return t
	}

	t.FPSMean = float64(t.Frames) / t.Duration.Seconds()

	rates := make([]float64, 0, t.Frames)
	for _, f := range img.Frames {
		if f.Delay > 0 {
			rates = append(rates, 1/f.Delay.Seconds())
		}
	}
	if len(rates) == 0 {
		return t
	}

	t.FPSMin, t.FPSMax = rates[0], rates[0]
	var sumSquares float64
	for _, r := range rates {
		t.FPSMin = math.Min(t.FPSMin, r)
		t.FPSMax = math.Max(t.FPSMax, r)
		diff := r - t.FPSMean
		sumSquares += diff * diff
	}
	t.FPSStdDev = math.Sqrt(sumSquares / float64(len(rates)))
	t.Steady = t.FPSStdDev < t.FPSMean*steadyThreshold

	return t
}
