// Package detection talks to the remote defect detection service over multipart HTTP.
package detection

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/somikoronAI-Source/smretrofit/internal/models"
)

// Default timeouts for detection requests.
const (
	DefaultRequestTimeout  = 60 * time.Second
	DefaultConnectTimeout  = 10 * time.Second
	DefaultKeepAlive       = 30 * time.Second
	DefaultIdleConnTimeout = 90 * time.Second

	maxErrorBody = 4 << 10
)

// Options configures the detection client
type Options struct {
	URL            string
	AuthKey        string
	AuthPass       string
	RequestTimeout time.Duration
	ConnectTimeout time.Duration
	Logger         *zerolog.Logger // global logger when nil
}

// ResponseError describes a response the client could not use
type ResponseError struct {
	StatusCode  int
	ContentType string
	Body        string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("detection service responded %d (%s): %s", e.StatusCode, e.ContentType, e.Body)
}

type detectResponse struct {
	Results []models.DetectionResult `json:"results"`
}

// Service submits media to the detection service. It is safe for concurrent use.
type Service struct {
	opts   Options
	client *http.Client
	log    zerolog.Logger
}

// NewService creates a detection client with a dedicated transport
func NewService(opts Options) *Service {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}

	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	logger.Info().
		Str("url", opts.URL).
		Dur("request_timeout", opts.RequestTimeout).
		Msg("Initializing detection service client")

	return &Service{
		log:  logger,
		opts: opts,
		client: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   opts.ConnectTimeout,
					KeepAlive: DefaultKeepAlive,
				}).DialContext,
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   10,
				IdleConnTimeout:       DefaultIdleConnTimeout,
				TLSHandshakeTimeout:   opts.ConnectTimeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
	}
}

// Detect uploads one image payload and returns both head results for it
func (s *Service) Detect(ctx context.Context, filename string, payload []byte) (*models.FrameResults, error) {
	body, contentType, err := s.encodeForm(filename, payload)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.opts.URL, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrRemoteRequestFailed, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrRemoteRequestFailed, err)
	}
	defer resp.Body.Close()

	s.log.Debug().
		Str("file", filename).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Detection response received")

	return decodeResponse(resp)
}

func (s *Service) encodeForm(filename string, payload []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("auth_key", s.opts.AuthKey); err != nil {
		return nil, "", fmt.Errorf("failed to encode form: %w", err)
	}
	if err := w.WriteField("auth_pass", s.opts.AuthPass); err != nil {
		return nil, "", fmt.Errorf("failed to encode form: %w", err)
	}
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode form: %w", err)
	}
	if _, err := part.Write(payload); err != nil {
		return nil, "", fmt.Errorf("failed to encode form: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to encode form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func decodeResponse(resp *http.Response) (*models.FrameResults, error) {
	contentType := resp.Header.Get("Content-Type")

	if resp.StatusCode != http.StatusOK || !isJSON(contentType) {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: %w", models.ErrInvalidResponseFormat, &ResponseError{
			StatusCode:  resp.StatusCode,
			ContentType: contentType,
			Body:        string(snippet),
		})
	}

	var decoded detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %w", models.ErrRemoteRequestFailed, err)
		}
		return nil, fmt.Errorf("%w: failed to decode results: %w", models.ErrInvalidResponseFormat, err)
	}
	if len(decoded.Results) != 2 {
		return nil, fmt.Errorf("%w: expected 2 results (defect, rating), got %d",
			models.ErrInvalidResponseFormat, len(decoded.Results))
	}

	return &models.FrameResults{
		Defect: decoded.Results[0],
		Rating: decoded.Results[1],
	}, nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}
