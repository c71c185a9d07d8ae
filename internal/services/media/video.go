package media

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"
)

const (
	// DefaultCodec is the FourCC used for annotated output videos
	DefaultCodec = "mp4v"
	// FallbackFPS is used when the container reports no frame rate
	FallbackFPS = 30.0
)

// VideoProps describes a video stream
type VideoProps struct {
	FrameCount int
	FPS        float64
	Width      int
	Height     int
	Codec      string // FourCC, DefaultCodec when empty
}

// VideoReader reads frames sequentially from a video file
type VideoReader struct {
	path  string
	cap   *gocv.VideoCapture
	props VideoProps
}

// OpenVideo opens a video file for reading
func OpenVideo(path string) (*VideoReader, error) {
	cap, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open video %s: %w", path, err)
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, fmt.Errorf("video capture is not opened for %s", path)
	}

	props := VideoProps{
		FrameCount: int(cap.Get(gocv.VideoCaptureFrameCount)),
		FPS:        cap.Get(gocv.VideoCaptureFPS),
		Width:      int(cap.Get(gocv.VideoCaptureFrameWidth)),
		Height:     int(cap.Get(gocv.VideoCaptureFrameHeight)),
	}
	if props.FPS <= 0 {
		log.Warn().
			Str("path", path).
			Float64("fallback_fps", FallbackFPS).
			Msg("Video reports no frame rate, using fallback")
		props.FPS = FallbackFPS
	}

	log.Debug().
		Str("path", path).
		Int("frames", props.FrameCount).
		Float64("fps", props.FPS).
		Int("width", props.Width).
		Int("height", props.Height).
		Msg("Video opened")

	return &VideoReader{path: path, cap: cap, props: props}, nil
}

// Props returns the stream properties read at open time
func (r *VideoReader) Props() VideoProps {
	return r.props
}

// Read decodes the next frame into dst. It returns false at end of stream.
func (r *VideoReader) Read(dst *gocv.Mat) bool {
	if r.cap == nil {
		return false
	}
	return r.cap.Read(dst) && !dst.Empty()
}

// Close releases the capture. Safe to call more than once.
func (r *VideoReader) Close() error {
	if r.cap == nil {
		return nil
	}
	err := r.cap.Close()
	r.cap = nil
	return err
}

// VideoWriter encodes frames into a video file
type VideoWriter struct {
	path   string
	writer *gocv.VideoWriter
	frames int
}

// CreateVideo creates a video file with the given properties
func CreateVideo(path string, props VideoProps) (*VideoWriter, error) {
	codec := props.Codec
	if codec == "" {
		codec = DefaultCodec
	}
	fps := props.FPS
	if fps <= 0 {
		fps = FallbackFPS
	}

	w, err := gocv.VideoWriterFile(path, codec, fps, props.Width, props.Height, true)
	if err != nil {
		return nil, fmt.Errorf("failed to create video %s: %w", path, err)
	}
	if !w.IsOpened() {
		w.Close()
		return nil, fmt.Errorf("video writer is not opened for %s (codec %s)", path, codec)
	}
	return &VideoWriter{path: path, writer: w}, nil
}

// Write appends a frame
func (w *VideoWriter) Write(frame gocv.Mat) error {
	if w.writer == nil {
		return fmt.Errorf("video writer for %s is closed", w.path)
	}
	if err := w.writer.Write(frame); err != nil {
		return fmt.Errorf("failed to write frame %d to %s: %w", w.frames+1, w.path, err)
	}
	w.frames++
	return nil
}

// Frames returns the number of frames written so far
func (w *VideoWriter) Frames() int {
	return w.frames
}

// Close finalizes the file. Safe to call more than once.
func (w *VideoWriter) Close() error {
	if w.writer == nil {
		return nil
	}
	err := w.writer.Close()
	w.writer = nil
	return err
}

// ReadImage decodes an image file into a BGR frame. The caller closes the returned Mat.
func ReadImage(path string) (gocv.Mat, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		mat.Close()
		return gocv.NewMat(), fmt.Errorf("failed to decode image %s", path)
	}
	return mat, nil
}

// WriteImage encodes a frame to path, format chosen by extension
func WriteImage(path string, frame gocv.Mat) error {
	if ok := gocv.IMWrite(path, frame); !ok {
		return fmt.Errorf("failed to write image %s", path)
	}
	return nil
}
