package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/somikoronAI-Source/smretrofit/internal/models"
)

type Config struct {
	// Application
	Version     string
	Environment string
	ClientID    string
	Port        int
	LogLevel    string

	// Logdy (lightweight web log viewer)
	LogdyEnabled bool
	LogdyHost    string
	LogdyPort    int

	// Detection service
	ServiceURL     string
	AuthKey        string
	AuthPass       string
	RequestTimeout time.Duration
	ConnectTimeout time.Duration

	// Annotation
	FontSize      int
	FontThickness int
	LineSpacing   int
	DetectMode    models.Mode
	LabelMode     models.Mode

	// Runs
	OutputDir    string
	TempDir      string
	SampleCount  int
	JPEGQuality  int
	VideoCodec   string
	ShowProgress bool

	// NATS (per-frame report fan-out, disabled when NatsURL is empty)
	NatsURL            string
	NatsConnectTimeout time.Duration
	NatsReconnectWait  time.Duration
	NatsMaxReconnects  int
	ResultsSubject     string

	// Swagger Configuration
	SwaggerHost string

	// Graceful Shutdown
	ShutdownTimeout time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file found or error loading .env file, using environment variables and defaults")
	} else {
		log.Info().Msg("Loaded configuration from .env file")
	}

	return &Config{
		// Application
		Version:     getEnv("VERSION", "1.0.0"),
		Environment: getEnv("ENVIRONMENT", "development"),
		ClientID:    getEnv("CLIENT_ID", "smretrofit-1"),
		Port:        getEnvInt("PORT", 8000),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Logdy (lightweight web log viewer)
		LogdyEnabled: getEnvBool("LOGDY_ENABLED", false),
		LogdyHost:    getEnv("LOGDY_HOST", "localhost"),
		LogdyPort:    getEnvInt("LOGDY_PORT", 8080),

		// Detection service
		ServiceURL:     getEnv("SMRETROFIT_URL", "https://api.somikoron.ai/api/"),
		AuthKey:        getEnv("AUTH_KEY", ""),
		AuthPass:       getEnv("AUTH_PASS", ""),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 60*time.Second),
		ConnectTimeout: getEnvDuration("CONNECT_TIMEOUT", 10*time.Second),

		// Annotation
		FontSize:      getEnvInt("FONT_SIZE", 7),
		FontThickness: getEnvInt("FONT_THICKNESS", 3),
		LineSpacing:   getEnvInt("LINE_SPACE", 10),
		DetectMode:    models.Mode(getEnv("DETECT_MODE", string(models.ModeAll))),
		LabelMode:     models.Mode(getEnv("LABEL_MODE", string(models.ModeAll))),

		// Runs
		OutputDir:    getEnv("OUTPUT_DIR", "output/"),
		TempDir:      getEnv("TEMP_DIR", "temp/"),
		SampleCount:  getEnvInt("SAMPLE_COUNT", 3),
		JPEGQuality:  getEnvInt("JPEG_QUALITY", 95),
		VideoCodec:   getEnv("VIDEO_CODEC", "mp4v"),
		ShowProgress: getEnvBool("SHOW_PROGRESS", true),

		// NATS
		NatsURL:            getEnv("NATS_URL", ""),
		NatsConnectTimeout: getEnvDuration("NATS_CONNECT_TIMEOUT", 10*time.Second),
		NatsReconnectWait:  getEnvDuration("NATS_RECONNECT_WAIT", 2*time.Second),
		NatsMaxReconnects:  getEnvInt("NATS_MAX_RECONNECTS", -1), // -1 = unlimited
		ResultsSubject:     getEnv("RESULTS_SUBJECT", "smretrofit.results"),

		// Swagger Configuration
		SwaggerHost: getEnv("SWAGGER_HOST", "localhost:8000"),

		// Graceful Shutdown
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

// Validate fails fast on settings the client cannot run with
func (c *Config) Validate() error {
	var errs []error
	if !c.DetectMode.IsValid() {
		errs = append(errs, fmt.Errorf("DETECT_MODE: %w: %q", models.ErrInvalidDetectMode, c.DetectMode))
	}
	if !c.LabelMode.IsValid() {
		errs = append(errs, fmt.Errorf("LABEL_MODE: %w: %q", models.ErrInvalidLabelMode, c.LabelMode))
	}
	if c.ServiceURL == "" {
		errs = append(errs, errors.New("SMRETROFIT_URL must be set"))
	}
	if c.FontThickness < 1 {
		errs = append(errs, fmt.Errorf("FONT_THICKNESS must be positive, got %d", c.FontThickness))
	}
	if c.LineSpacing < 1 {
		errs = append(errs, fmt.Errorf("LINE_SPACE must be positive, got %d", c.LineSpacing))
	}
	if c.SampleCount < 1 {
		errs = append(errs, fmt.Errorf("SAMPLE_COUNT must be positive, got %d", c.SampleCount))
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("JPEG_QUALITY must be within 1..100, got %d", c.JPEGQuality))
	}
	if len(c.VideoCodec) != 4 {
		errs = append(errs, fmt.Errorf("VIDEO_CODEC must be a FourCC, got %q", c.VideoCodec))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether the service runs with production logging
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
