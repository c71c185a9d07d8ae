package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/somikoronAI-Source/smretrofit/internal/config"
	"github.com/somikoronAI-Source/smretrofit/internal/logging"
	"github.com/somikoronAI-Source/smretrofit/internal/models"
	"github.com/somikoronAI-Source/smretrofit/internal/services/detection"
	"github.com/somikoronAI-Source/smretrofit/internal/services/inspection"
	"github.com/somikoronAI-Source/smretrofit/internal/services/messaging"
	"github.com/somikoronAI-Source/smretrofit/internal/services/render"
)

// ServiceContainer holds all services
type ServiceContainer struct {
	Config       *config.Config
	DetectionSvc *detection.Service
	Renderer     *render.Renderer
	Inspector    *inspection.Service
	MessagingSvc *messaging.Service // nil when NATS is not configured
}

// NewServiceContainer validates the configuration and wires every service
func NewServiceContainer(cfg *config.Config) (*ServiceContainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	detectionLog := logging.NewServiceLogger(cfg, "detection")
	inspectionLog := logging.NewServiceLogger(cfg, "inspection")

	detectionSvc := detection.NewService(detection.Options{
		URL:            cfg.ServiceURL,
		AuthKey:        cfg.AuthKey,
		AuthPass:       cfg.AuthPass,
		RequestTimeout: cfg.RequestTimeout,
		ConnectTimeout: cfg.ConnectTimeout,
		Logger:         &detectionLog,
	})

	renderer, err := render.NewRenderer(render.Options{
		DetectMode:    cfg.DetectMode,
		LabelMode:     cfg.LabelMode,
		FontSize:      cfg.FontSize,
		FontThickness: cfg.FontThickness,
		LineSpacing:   cfg.LineSpacing,
	})
	if err != nil {
		return nil, err
	}

	var publisher models.MessagePublisher = messaging.NoopPublisher{}
	var messagingSvc *messaging.Service
	if cfg.NatsURL != "" {
		messagingSvc, err = messaging.NewService(cfg)
		if err != nil {
			// fan-out is best effort
			log.Warn().Err(err).Str("url", cfg.NatsURL).Msg("NATS not available, report fan-out disabled")
		} else {
			publisher = messagingSvc
		}
	}

	inspector, err := inspection.NewService(detectionSvc, renderer, publisher, inspection.Options{
		DetectMode:     cfg.DetectMode,
		OutputDir:      cfg.OutputDir,
		TempDir:        cfg.TempDir,
		JPEGQuality:    cfg.JPEGQuality,
		SampleCount:    cfg.SampleCount,
		VideoCodec:     cfg.VideoCodec,
		ShowProgress:   cfg.ShowProgress,
		ResultsSubject: cfg.ResultsSubject,
		Logger:         &inspectionLog,
	})
	if err != nil {
		return nil, err
	}

	return &ServiceContainer{
		Config:       cfg,
		DetectionSvc: detectionSvc,
		Renderer:     renderer,
		Inspector:    inspector,
		MessagingSvc: messagingSvc,
	}, nil
}

// MessagingStatus reports the broker state for health checks
func (sc *ServiceContainer) MessagingStatus() string {
	switch {
	case sc.MessagingSvc == nil:
		return "disabled"
	case sc.MessagingSvc.IsConnected():
		return "connected"
	default:
		return "disconnected"
	}
}

// ReportsPublished counts reports fanned out since startup
func (sc *ServiceContainer) ReportsPublished() int64 {
	if sc.MessagingSvc == nil {
		return 0
	}
	return sc.MessagingSvc.Published()
}

// Shutdown gracefully shuts down all services
func (sc *ServiceContainer) Shutdown(ctx context.Context) error {
	if sc.MessagingSvc != nil {
		if err := sc.MessagingSvc.Shutdown(ctx); err != nil {
			return err
		}
	}
	return nil
}
