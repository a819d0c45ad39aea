// Package imgcompress tests for the bounded compressor.
package imgcompress

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/Jnxx02/logbook-kkn-generator/internal/errors"
)

// pngPayload builds a PNG data URI of the given dimensions. A mild gradient
// keeps the JPEG encoder from collapsing the image to almost nothing.
func pngPayload(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{
				R: uint8(x * 251),
				G: uint8(y * 241),
				B: uint8((x + y) * 239),
				A: 255,
			})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test PNG: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// payloadDims decodes a payload and returns its pixel dimensions.
func payloadDims(t *testing.T, payload string) (int, int) {
	t.Helper()
	img, err := decodePayload(payload)
	if err != nil {
		t.Fatalf("decoding compressor output: %v", err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestCompressBoundsDimensions(t *testing.T) {
	payload := pngPayload(t, 200, 100)

	out, err := Compress(payload, Config{MaxWidth: 50, MaxHeight: 50, Quality: 0.7})
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	w, h := payloadDims(t, out)
	if w > 50 || h > 50 {
		t.Errorf("output %dx%d exceeds 50x50 bound", w, h)
	}
	// Uniform ratio: 200x100 under a 50x50 bound scales by 0.25.
	if w != 50 || h != 25 {
		t.Errorf("output = %dx%d, want 50x25", w, h)
	}
}

func TestCompressNeverUpscales(t *testing.T) {
	payload := pngPayload(t, 100, 50)

	out, err := Compress(payload, Config{MaxWidth: 1280, MaxHeight: 1280, Quality: 0.7})
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	w, h := payloadDims(t, out)
	if w != 100 || h != 50 {
		t.Errorf("output = %dx%d, want unchanged 100x50", w, h)
	}
}

func TestCompressOutputIsJPEGDataURI(t *testing.T) {
	out, err := Compress(pngPayload(t, 10, 10), Config{MaxWidth: 10, MaxHeight: 10, Quality: 0.5})
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	const prefix = "data:image/jpeg;base64,"
	if len(out) <= len(prefix) || out[:len(prefix)] != prefix {
		t.Errorf("output does not start with %q: %q...", prefix, out[:30])
	}
}

func TestCompressDecodeError(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not base64", "data:image/png;base64,???!!!"},
		{"base64 but not an image", "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("hello world, not pixels"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compress(tt.payload, Config{MaxWidth: 100, MaxHeight: 100, Quality: 0.7})
			if err == nil {
				t.Fatal("Compress() = nil error, want DECODE_ERROR")
			}
			if !errors.Is(err, errors.ErrDecode) {
				t.Errorf("error code = %v, want DECODE_ERROR", errors.CodeOf(err))
			}
		})
	}
}

func TestCompressQualityAffectsSize(t *testing.T) {
	payload := pngPayload(t, 300, 300)

	high, err := Compress(payload, Config{MaxWidth: 300, MaxHeight: 300, Quality: 0.95})
	if err != nil {
		t.Fatalf("Compress() high error = %v", err)
	}
	low, err := Compress(payload, Config{MaxWidth: 300, MaxHeight: 300, Quality: 0.2})
	if err != nil {
		t.Fatalf("Compress() low error = %v", err)
	}
	if EstimateSize(low) >= EstimateSize(high) {
		t.Errorf("low quality output (%d) not smaller than high quality (%d)",
			EstimateSize(low), EstimateSize(high))
	}
}
