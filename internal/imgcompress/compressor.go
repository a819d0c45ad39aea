package imgcompress

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/Jnxx02/logbook-kkn-generator/internal/errors"
)

// jpegPrefix is the data URI header of every compressor output.
const jpegPrefix = "data:image/jpeg;base64,"

// Config bounds a single compression pass.
// Quality is in (0, 1]; dimensions are upper bounds, never upscale targets.
type Config struct {
	MaxWidth  int
	MaxHeight int
	Quality   float64
}

// Compress decodes payload, downscales it uniformly so that it fits within
// MaxWidth x MaxHeight (preserving aspect ratio, never upscaling), and
// re-encodes it as a JPEG data URI at the configured quality.
// Decode failures carry DECODE_ERROR, encode failures ENCODE_ERROR.
func Compress(payload string, cfg Config) (string, error) {
	img, err := decodePayload(payload)
	if err != nil {
		return "", err
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	ratio := math.Min(1, math.Min(
		float64(cfg.MaxWidth)/float64(w),
		float64(cfg.MaxHeight)/float64(h)))
	dstW := int(math.Round(float64(w) * ratio))
	dstH := int(math.Round(float64(h) * ratio))

	resized := imaging.Resize(img, dstW, dstH, imaging.Lanczos)

	return encodeJPEG(resized, cfg.Quality)
}

// decodePayload strips the data URI header, base64-decodes the body and
// decodes the image (PNG, JPEG, GIF or WebP).
func decodePayload(payload string) (image.Image, error) {
	body := payload
	if i := strings.Index(payload, ","); i >= 0 {
		body = payload[i+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(body))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDecode, "payload is not valid base64", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDecode, "payload is not a decodable image", err)
	}
	return img, nil
}

// encodeJPEG encodes img as a JPEG data URI at quality in (0, 1].
func encodeJPEG(img image.Image, quality float64) (string, error) {
	q := int(math.Round(quality * 100))
	if q < 1 {
		q = 1
	}
	if q > 100 {
		q = 100
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(q)); err != nil {
		return "", errors.Wrap(errors.ErrEncode, "jpeg encoding failed", err)
	}
	return jpegPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
