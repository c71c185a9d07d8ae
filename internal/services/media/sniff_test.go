package media

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/somikoronAI-Source/smretrofit/internal/models"
)

var (
	pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}
	mp4Header = []byte{0, 0, 0, 0x18, 'f', 't', 'y', 'p', 'm', 'p', '4', '2', 0, 0, 0, 0, 'm', 'p', '4', '2', 'i', 's', 'o', 'm'}
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestSniffMissingFile(t *testing.T) {
	_, err := Sniff(filepath.Join(t.TempDir(), "missing.jpg"))
	require.ErrorIs(t, err, models.ErrFileNotFound)
}

func TestRequireImage(t *testing.T) {
	// extension does not matter, content does
	png := writeFile(t, "frame.bin", pngHeader)
	mt, err := RequireImage(png)
	require.NoError(t, err)
	require.Equal(t, "image/png", mt.String())

	text := writeFile(t, "notes.jpg", []byte("plain text, not an image"))
	_, err = RequireImage(text)
	require.ErrorIs(t, err, models.ErrInvalidMediaType)

	_, err = RequireImage(writeFile(t, "clip.mp4", mp4Header))
	require.ErrorIs(t, err, models.ErrInvalidMediaType)
}

func TestRequireVideo(t *testing.T) {
	mt, err := RequireVideo(writeFile(t, "clip.dat", mp4Header))
	require.NoError(t, err)
	require.True(t, IsVideoType(mt))

	_, err = RequireVideo(writeFile(t, "frame.png", pngHeader))
	require.ErrorIs(t, err, models.ErrInvalidMediaType)

	_, err = RequireVideo(filepath.Join(t.TempDir(), "missing.mp4"))
	require.ErrorIs(t, err, models.ErrFileNotFound)
	require.NotErrorIs(t, err, models.ErrInvalidMediaType)
}

func TestRequireImageData(t *testing.T) {
	_, err := RequireImageData("upload.png", pngHeader)
	require.NoError(t, err)

	_, err = RequireImageData("upload.jpg", []byte("hello"))
	require.ErrorIs(t, err, models.ErrInvalidMediaType)

	_, err = RequireImageData("empty.jpg", nil)
	require.ErrorIs(t, err, models.ErrInvalidMediaType)
}
