package media

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func solidFrame(t *testing.T, w, h int, v float64) gocv.Mat {
	t.Helper()
	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(v, v, v, 0), h, w, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { mat.Close() })
	return mat
}

func TestVideoRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.avi")

	w, err := CreateVideo(path, VideoProps{FPS: 10, Width: 64, Height: 48, Codec: "MJPG"})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, w.Write(solidFrame(t, 64, 48, float64(i*40))))
	}
	require.Equal(t, 5, w.Frames())
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	require.Error(t, w.Write(solidFrame(t, 64, 48, 0)))

	r, err := OpenVideo(path)
	require.NoError(t, err)
	defer r.Close()

	props := r.Props()
	require.Equal(t, 5, props.FrameCount)
	require.Equal(t, 64, props.Width)
	require.Equal(t, 48, props.Height)
	require.InDelta(t, 10, props.FPS, 0.01)

	frame := gocv.NewMat()
	defer frame.Close()
	read := 0
	for r.Read(&frame) {
		read++
	}
	require.Equal(t, 5, read)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	require.False(t, r.Read(&frame))
}

func TestImageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, WriteImage(path, solidFrame(t, 32, 16, 200)))

	mt, err := RequireImage(path)
	require.NoError(t, err)
	require.Equal(t, "image/png", mt.String())

	mat, err := ReadImage(path)
	require.NoError(t, err)
	defer mat.Close()
	require.Equal(t, 32, mat.Cols())
	require.Equal(t, 16, mat.Rows())
}

func TestReadImageRejectsGarbage(t *testing.T) {
	_, err := ReadImage(writeFile(t, "bad.jpg", []byte("not an image")))
	require.Error(t, err)
}
