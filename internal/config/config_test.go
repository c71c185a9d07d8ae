package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/somikoronAI-Source/smretrofit/internal/models"
)

// chdirTemp keeps a stray .env in the working tree from leaking into the test
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	for _, key := range []string{"SMRETROFIT_URL", "FONT_SIZE", "FONT_THICKNESS", "LINE_SPACE", "DETECT_MODE", "LABEL_MODE", "NATS_URL", "SAMPLE_COUNT"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	require.Equal(t, "https://api.somikoron.ai/api/", cfg.ServiceURL)
	require.Equal(t, 7, cfg.FontSize)
	require.Equal(t, 3, cfg.FontThickness)
	require.Equal(t, 10, cfg.LineSpacing)
	require.Equal(t, models.ModeAll, cfg.DetectMode)
	require.Equal(t, models.ModeAll, cfg.LabelMode)
	require.Equal(t, 3, cfg.SampleCount)
	require.Empty(t, cfg.NatsURL)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SMRETROFIT_URL", "http://localhost:9000/api/")
	t.Setenv("AUTH_KEY", "k")
	t.Setenv("AUTH_PASS", "p")
	t.Setenv("FONT_SIZE", "12")
	t.Setenv("DETECT_MODE", "rating")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("SHOW_PROGRESS", "false")
	t.Setenv("LINE_SPACE", "not-a-number")

	cfg := Load()
	require.Equal(t, "http://localhost:9000/api/", cfg.ServiceURL)
	require.Equal(t, "k", cfg.AuthKey)
	require.Equal(t, "p", cfg.AuthPass)
	require.Equal(t, 12, cfg.FontSize)
	require.Equal(t, models.ModeRating, cfg.DetectMode)
	require.Equal(t, 5*time.Second, cfg.RequestTimeout)
	require.False(t, cfg.ShowProgress)
	require.Equal(t, 10, cfg.LineSpacing)
}

func TestLoadReadsDotEnv(t *testing.T) {
	chdirTemp(t)
	// godotenv never overrides a variable that is already set, even to ""
	t.Setenv("LABEL_MODE", "")
	require.NoError(t, os.Unsetenv("LABEL_MODE"))
	require.NoError(t, os.WriteFile(".env", []byte("LABEL_MODE=defect\n"), 0o644))

	cfg := Load()
	require.Equal(t, models.ModeDefect, cfg.LabelMode)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			ServiceURL:    "http://x",
			FontThickness: 3,
			LineSpacing:   10,
			DetectMode:    models.ModeAll,
			LabelMode:     models.ModeAll,
			SampleCount:   3,
			JPEGQuality:   95,
			VideoCodec:    "mp4v",
		}
	}
	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.DetectMode = "foo"
	require.ErrorIs(t, cfg.Validate(), models.ErrInvalidDetectMode)

	cfg = valid()
	cfg.LabelMode = "foo"
	err := cfg.Validate()
	require.ErrorIs(t, err, models.ErrInvalidLabelMode)
	require.NotErrorIs(t, err, models.ErrInvalidDetectMode)

	cfg = valid()
	cfg.JPEGQuality = 0
	cfg.SampleCount = 0
	err = cfg.Validate()
	require.ErrorContains(t, err, "JPEG_QUALITY")
	require.ErrorContains(t, err, "SAMPLE_COUNT")

	for _, spacing := range []int{0, -25} {
		cfg = valid()
		cfg.LineSpacing = spacing
		require.ErrorContains(t, cfg.Validate(), "LINE_SPACE")
	}
}
