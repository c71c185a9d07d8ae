package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/somikoronAI-Source/smretrofit/internal/config"
)

// Setup configures the global logger: console output in development, JSON in production,
// level from LOG_LEVEL. Extra writers receive every line as well.
func Setup(cfg *config.Config, extra ...io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}
	if cfg.IsProduction() {
		out = os.Stderr
	}
	if len(extra) > 0 {
		out = zerolog.MultiLevelWriter(append([]io.Writer{out}, extra...)...)
	}
	log.Logger = log.Output(out)

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("Invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

// NewServiceLogger derives a logger from the global one, tagged with the client id and service name
func NewServiceLogger(cfg *config.Config, service string) zerolog.Logger {
	return log.With().Str("client_id", cfg.ClientID).Str("service", service).Logger()
}
