package imgcompress

// Adaptive driver constants. The schedule is a fixed heuristic carried over
// unchanged from the form client; quality is tracked in integer hundredths
// to keep the 0.10 steps exact.
const (
	startQuality = 70   // 0.70
	qualityKnee  = 50   // below this, shrink dimensions instead
	qualityFloor = 35   // 0.35
	qualityStep  = 10   // 0.10 per adjustment
	startDim     = 1280 // starting max width and height
	minDim       = 480  // per-axis dimension floor
	dimFactor    = 0.80 // shrink factor per adjustment
	maxAttempts  = 8
)

// Fitter drives repeated compression passes until the output estimate fits
// a byte budget. The compress and estimate functions are injectable so the
// attempt schedule can be observed in tests.
type Fitter struct {
	compress func(payload string, cfg Config) (string, error)
	estimate func(payload string) int
}

// NewFitter returns a Fitter backed by the real compressor and estimator.
func NewFitter() *Fitter {
	return &Fitter{
		compress: Compress,
		estimate: EstimateSize,
	}
}

// Fit compresses payload until its estimated size is at or under targetBytes,
// or the attempt budget runs out. The search is greedy and non-backtracking:
// it lowers quality 0.70 → 0.50 in 0.10 steps, then shrinks both dimensions
// by 0.80 per attempt (floored, clamped at 480 per axis), and only once the
// dimensions bottom out drops quality further to a floor of 0.35. After 8
// missed attempts one final pass runs at the last-computed settings and its
// result is returned even if it still exceeds the target.
func (f *Fitter) Fit(payload string, targetBytes int) (string, error) {
	quality := startQuality
	width, height := startDim, startDim

	for attempt := 0; attempt < maxAttempts; attempt++ {
		result, err := f.compress(payload, Config{
			MaxWidth:  width,
			MaxHeight: height,
			Quality:   float64(quality) / 100,
		})
		if err != nil {
			return "", err
		}
		if f.estimate(result) <= targetBytes {
			return result, nil
		}

		switch {
		case quality > qualityKnee:
			quality -= qualityStep
		case width > minDim || height > minDim:
			width = shrinkDim(width)
			height = shrinkDim(height)
		default:
			quality -= qualityStep
			if quality < qualityFloor {
				quality = qualityFloor
			}
		}
	}

	if quality < qualityFloor {
		quality = qualityFloor
	}
	return f.compress(payload, Config{
		MaxWidth:  width,
		MaxHeight: height,
		Quality:   float64(quality) / 100,
	})
}

// FitToSize runs the adaptive driver with the real compressor.
func FitToSize(payload string, targetBytes int) (string, error) {
	return NewFitter().Fit(payload, targetBytes)
}

func shrinkDim(d int) int {
	d = int(float64(d) * dimFactor)
	if d < minDim {
		return minDim
	}
	return d
}
