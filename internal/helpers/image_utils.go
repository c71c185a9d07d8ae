package helpers

import (
	"encoding/base64"
	"fmt"
	"image"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"
)

const (
	// HighQuality is the default JPEG quality for submitted and saved frames
	HighQuality = 95

	jpegDataURLPrefix = "data:image/jpeg;base64,"
)

// EncodeJPEG encodes a frame as JPEG at the given quality (clamped to 1..100)
func EncodeJPEG(mat gocv.Mat, quality int) ([]byte, error) {
	if mat.Empty() {
		return nil, fmt.Errorf("empty frame")
	}
	quality = max(1, min(100, quality))

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, mat, []int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame as JPEG: %w", err)
	}
	defer buf.Close()

	// GetBytes aliases native memory released by Close
	out := append([]byte(nil), buf.GetBytes()...)

	log.Debug().
		Int("width", mat.Cols()).
		Int("height", mat.Rows()).
		Int("quality", quality).
		Int("encoded_size", len(out)).
		Msg("Frame encoded as JPEG")
	return out, nil
}

// DecodeImage decodes JPEG/PNG bytes into a BGR frame. The caller closes the returned Mat.
func DecodeImage(data []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to decode image: %w", err)
	}
	if mat.Empty() {
		mat.Close()
		return gocv.NewMat(), fmt.Errorf("failed to decode image: empty result")
	}
	return mat, nil
}

// DataURL wraps JPEG bytes in a data URL for direct client consumption
func DataURL(jpeg []byte) string {
	return jpegDataURLPrefix + base64.StdEncoding.EncodeToString(jpeg)
}

// ClampRect clips a box to the frame bounds. The result may be empty.
func ClampRect(r image.Rectangle, bounds image.Rectangle) image.Rectangle {
	return r.Canon().Intersect(bounds)
}
