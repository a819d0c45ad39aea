// Package imgcompress provides image payload compression for log entries:
// a decoded-size estimator, a bounded resize-and-reencode compressor, and an
// adaptive driver that fits a payload under a byte budget.
//
// Payloads are data URIs ("data:image/png;base64,....") as produced by the
// form client; the compressor always re-encodes to a JPEG data URI.
package imgcompress

import "strings"

// base64 inflates binary data by 4/3, so body length × 0.75 approximates
// the decoded byte count.
const base64Ratio = 0.75

// EstimateSize returns the approximate decoded byte length of an encoded
// payload. The header up to the first comma is ignored. This is a heuristic
// gate, never required to be exact. Empty input yields 0.
func EstimateSize(payload string) int {
	if payload == "" {
		return 0
	}
	body := payload
	if i := strings.Index(payload, ","); i >= 0 {
		body = payload[i+1:]
	}
	return int(float64(len(body)) * base64Ratio)
}
