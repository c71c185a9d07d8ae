// @title smretrofit API
// @version 1.0.0
// @description Inspection client for the Somikoron defect detection service
// @BasePath /
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/somikoronAI-Source/smretrofit/internal/api"
	"github.com/somikoronAI-Source/smretrofit/internal/config"
	"github.com/somikoronAI-Source/smretrofit/internal/logging"
	"github.com/somikoronAI-Source/smretrofit/internal/models"
	"github.com/somikoronAI-Source/smretrofit/internal/services"
	"github.com/somikoronAI-Source/smretrofit/internal/services/inspection"
)

const usage = `Usage: smretrofit <command> [flags] [path]

Commands:
  image   inspect an image file
  video   inspect every frame of a video file
  sample  inspect randomly sampled frames of a video file
  serve   run the HTTP API

Run 'smretrofit <command> -h' for command flags.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	// Load configuration
	cfg := config.Load()
	logging.Setup(cfg)

	cmd, args := os.Args[1], os.Args[2:]
	var err error
	switch cmd {
	case "image", "video", "sample":
		err = runInspect(cfg, cmd, args)
	case "serve":
		err = runServe(cfg, args)
	case "-h", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}

	if err != nil {
		log.Error().Err(err).Str("command", cmd).Str("kind", kindName(err)).Msg("Command failed")
		os.Exit(1)
	}
}

func runInspect(cfg *config.Config, cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	save := fs.Bool("save", false, "Save annotated output")
	output := fs.String("output", cfg.OutputDir, "Output directory")
	temp := fs.String("temp", cfg.TempDir, "Scratch directory")
	detectMode := fs.String("detect-mode", string(cfg.DetectMode), "Reported and drawn heads: all, defect or rating")
	labelMode := fs.String("label-mode", string(cfg.LabelMode), "Labelled heads: all, defect or rating")
	count := fs.Int("count", cfg.SampleCount, "Frames to sample (sample only)")
	progress := fs.Bool("progress", cfg.ShowProgress, "Show a progress bar for video runs")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("%s: exactly one input path is required", cmd)
	}
	path := fs.Arg(0)

	// Override config with command line args
	cfg.OutputDir = *output
	cfg.TempDir = *temp
	cfg.DetectMode = models.Mode(*detectMode)
	cfg.LabelMode = models.Mode(*labelMode)
	cfg.SampleCount = *count
	cfg.ShowProgress = *progress

	container, err := services.NewServiceContainer(cfg)
	if err != nil {
		return err
	}
	defer container.Shutdown(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("command", cmd).
		Str("path", path).
		Str("detect_mode", cfg.DetectMode.String()).
		Str("label_mode", cfg.LabelMode.String()).
		Bool("save", *save).
		Msg("Starting inspection")

	var out any
	switch cmd {
	case "image":
		out, err = container.Inspector.InspectImage(ctx, path, inspection.ImageOptions{Save: *save})
	case "video":
		out, err = container.Inspector.InspectVideo(ctx, path, inspection.VideoOptions{Save: *save})
	case "sample":
		out, err = container.Inspector.InspectVideoSample(ctx, path, inspection.SampleOptions{Save: *save, Count: *count})
	}
	if err != nil {
		return err
	}
	return writeJSON(os.Stdout, out)
}

func runServe(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.Int("port", cfg.Port, "API port")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.Port = *port

	if cfg.LogdyEnabled {
		w, url := logging.StartLogdy(cfg)
		logging.Setup(cfg, w)
		log.Info().Str("url", url).Msg("Logs mirrored to Logdy")
	}

	log.Info().
		Str("client_id", cfg.ClientID).
		Str("version", cfg.Version).
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Str("service_url", cfg.ServiceURL).
		Msg("Starting smretrofit API server")

	container, err := services.NewServiceContainer(cfg)
	if err != nil {
		return err
	}

	server := api.NewServer(cfg, container)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Info().Msg("Shutdown signal received")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}
	log.Info().Msg("Server shutdown complete")
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func kindName(err error) string {
	var opErr *models.OpError
	if errors.As(err, &opErr) {
		return opErr.Kind.Error()
	}
	return models.KindOf(err).Error()
}
