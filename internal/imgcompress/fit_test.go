// Package imgcompress tests for the adaptive compression driver.
package imgcompress

import (
	"strings"
	"testing"
)

// recordingFitter returns a Fitter whose compress function records every
// attempt's settings and reports each output as sizeOf(attempt) bytes.
func recordingFitter(sizeOf func(attempt int) int) (*Fitter, *[]Config) {
	var attempts []Config
	f := &Fitter{
		compress: func(payload string, cfg Config) (string, error) {
			attempts = append(attempts, cfg)
			// The estimator sees the returned string length directly.
			return strings.Repeat("x", sizeOf(len(attempts))), nil
		},
		estimate: func(payload string) int { return len(payload) },
	}
	return f, &attempts
}

func TestFitReturnsFirstResultUnderTarget(t *testing.T) {
	f, attempts := recordingFitter(func(attempt int) int {
		if attempt == 3 {
			return 10
		}
		return 1000
	})

	out, err := f.Fit("payload", 100)
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if len(out) != 10 {
		t.Errorf("Fit() returned %d-byte result, want the 10-byte attempt", len(out))
	}
	if len(*attempts) != 3 {
		t.Errorf("compress called %d times, want 3", len(*attempts))
	}
}

func TestFitExactSchedule(t *testing.T) {
	// Nothing ever fits, so the driver walks the full schedule:
	// quality drops 0.70 → 0.50, then dimensions shrink by 0.80 down to the
	// 480 floor, then quality drops again, and a 9th final pass runs.
	f, attempts := recordingFitter(func(attempt int) int { return 1 << 30 })

	out, err := f.Fit("payload", 100)
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if out == "" {
		t.Error("Fit() returned empty result after exhausting attempts")
	}

	want := []Config{
		{1280, 1280, 0.70},
		{1280, 1280, 0.60},
		{1280, 1280, 0.50},
		{1024, 1024, 0.50},
		{819, 819, 0.50},
		{655, 655, 0.50},
		{524, 524, 0.50},
		{480, 480, 0.50},
		{480, 480, 0.40}, // final pass
	}
	if len(*attempts) != len(want) {
		t.Fatalf("compress called %d times, want %d", len(*attempts), len(want))
	}
	for i, w := range want {
		got := (*attempts)[i]
		if got.MaxWidth != w.MaxWidth || got.MaxHeight != w.MaxHeight {
			t.Errorf("attempt %d dims = %dx%d, want %dx%d",
				i+1, got.MaxWidth, got.MaxHeight, w.MaxWidth, w.MaxHeight)
		}
		if diff := got.Quality - w.Quality; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("attempt %d quality = %.2f, want %.2f", i+1, got.Quality, w.Quality)
		}
	}
}

func TestFitQualityFloor(t *testing.T) {
	// Keep every attempt over target and count far enough that quality would
	// fall below 0.35 without the floor. With 8 attempts the schedule only
	// reaches 0.40, so the floor shows up via the clamp on the final pass
	// when the knee is hit late. Verify no attempt ever goes below 0.35.
	f, attempts := recordingFitter(func(attempt int) int { return 1 << 30 })

	if _, err := f.Fit("payload", 1); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	for i, cfg := range *attempts {
		if cfg.Quality < 0.35-1e-9 {
			t.Errorf("attempt %d quality %.2f below the 0.35 floor", i+1, cfg.Quality)
		}
	}
}

func TestFitToSizeRealImage(t *testing.T) {
	payload := pngPayload(t, 600, 400)

	// A generous target the first pass easily meets.
	out, err := FitToSize(payload, 512*1024)
	if err != nil {
		t.Fatalf("FitToSize() error = %v", err)
	}
	if EstimateSize(out) > 512*1024 {
		t.Errorf("result estimate %d exceeds target", EstimateSize(out))
	}
	w, h := payloadDims(t, out)
	if w > 600 || h > 400 {
		t.Errorf("result %dx%d larger than source 600x400", w, h)
	}
}

func TestFitToSizeIncompressibleSource(t *testing.T) {
	payload := pngPayload(t, 64, 64)

	// A 1-byte target is unreachable; the driver must still return the
	// final best-effort pass rather than fail.
	out, err := FitToSize(payload, 1)
	if err != nil {
		t.Fatalf("FitToSize() error = %v", err)
	}
	if out == "" {
		t.Error("FitToSize() returned empty payload for incompressible source")
	}
	if _, err := decodePayload(out); err != nil {
		t.Errorf("final result is not a decodable image: %v", err)
	}
}

func TestFitPropagatesCompressError(t *testing.T) {
	payload := "data:image/png;base64,not-actually-base64!!!"
	if _, err := FitToSize(payload, 1024); err == nil {
		t.Error("FitToSize() on undecodable payload = nil, want error")
	}
}
