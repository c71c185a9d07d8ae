package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/somikoronAI-Source/smretrofit/internal/api/handlers"
	"github.com/somikoronAI-Source/smretrofit/internal/config"
	"github.com/somikoronAI-Source/smretrofit/internal/services"
)

type Server struct {
	config    *config.Config
	container *services.ServiceContainer
	router    *gin.Engine
	server    *http.Server

	healthHandler  *handlers.HealthHandler
	inspectHandler *handlers.InspectHandler
}

func NewServer(cfg *config.Config, container *services.ServiceContainer) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.MaxMultipartMemory = handlers.MaxUploadSize

	s := &Server{
		config:         cfg,
		container:      container,
		router:         router,
		healthHandler:  handlers.NewHealthHandler(cfg.ClientID, cfg.Version, cfg.ServiceURL, container.MessagingStatus, container.ReportsPublished),
		inspectHandler: handlers.NewInspectHandler(container.Inspector),
	}

	s.setupMiddleware()
	s.setupRoutes()
	s.setupSwagger()

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Start() error {
	log.Info().Int("port", s.config.Port).Msg("Starting smretrofit API")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Stopping smretrofit API")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	return s.container.Shutdown(ctx)
}

func (s *Server) Handler() http.Handler {
	return s.router
}
