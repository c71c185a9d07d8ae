// Package messaging fans inspection reports out over NATS.
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/somikoronAI-Source/smretrofit/internal/config"
	"github.com/somikoronAI-Source/smretrofit/internal/logging"
)

type Service struct {
	conn      *nats.Conn
	log       zerolog.Logger
	published atomic.Int64
}

func NewService(cfg *config.Config) (*Service, error) {
	if cfg.NatsURL == "" {
		return nil, errors.New("NATS_URL is not set")
	}
	logger := logging.NewServiceLogger(cfg, "messaging")

	opts := []nats.Option{
		nats.Name("smretrofit-" + cfg.ClientID),
		nats.Timeout(cfg.NatsConnectTimeout),
		nats.ReconnectWait(cfg.NatsReconnectWait),
		nats.MaxReconnects(cfg.NatsMaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	conn, err := nats.Connect(cfg.NatsURL, opts...)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("url", cfg.NatsURL).Str("subject", cfg.ResultsSubject).Msg("NATS connection established")

	return &Service{
		conn: conn,
		log:  logger,
	}, nil
}

func (s *Service) Publish(subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if err := s.conn.Publish(subject, payload); err != nil {
		return err
	}
	s.published.Add(1)
	return nil
}

// Published counts reports sent since the connection was made
func (s *Service) Published() int64 {
	return s.published.Load()
}

func (s *Service) IsConnected() bool {
	return s.conn != nil && s.conn.IsConnected()
}

func (s *Service) Shutdown(ctx context.Context) error {
	if s.conn != nil {
		// Try graceful drain with timeout, fallback to immediate close
		if err := s.conn.Drain(); err != nil {
			s.log.Warn().Err(err).Msg("Failed to drain NATS connection gracefully, closing immediately")
			s.conn.Close()
		}
	}
	return nil
}

// NoopPublisher drops reports when no broker is configured
type NoopPublisher struct{}

func (NoopPublisher) Publish(string, interface{}) error { return nil }
