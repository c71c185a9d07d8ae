package detection

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/somikoronAI-Source/smretrofit/internal/models"
)

const okBody = `{"results":[
	{"data":[{"box_xyxy":[10,10,50,50],"box_cls":0}],"cls":{"0":"Corrosion"}},
	{"data":[{"box_xyxy":[12,12,40,40],"box_cls":5}],"cls":{"5":"Corrosion_Ct"}}
]}`

func newTestService(t *testing.T, h http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewService(Options{
		URL:            srv.URL,
		AuthKey:        "key",
		AuthPass:       "pass",
		RequestTimeout: 2 * time.Second,
	})
}

func TestDetectSendsMultipartForm(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "key", r.FormValue("auth_key"))
		require.Equal(t, "pass", r.FormValue("auth_pass"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		require.Equal(t, "frame1.jpg", hdr.Filename)
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		require.Equal(t, []byte{0xFF, 0xD8, 0x01}, data)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = io.WriteString(w, okBody)
	})

	results, err := svc.Detect(context.Background(), "frame1.jpg", []byte{0xFF, 0xD8, 0x01})
	require.NoError(t, err)
	require.Len(t, results.Defect.Data, 1)
	require.Equal(t, 5, results.Rating.Data[0].BoxCls)

	name, ok := results.Defect.ClassName(0)
	require.True(t, ok)
	require.Equal(t, "Corrosion", name)
}

func TestDetectResponseFailures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantStatus  int
	}{
		{name: "non 200", status: http.StatusUnauthorized, contentType: "application/json", body: `{"detail":"bad auth"}`, wantStatus: http.StatusUnauthorized},
		{name: "not json", status: http.StatusOK, contentType: "text/html", body: "<html></html>", wantStatus: http.StatusOK},
		{name: "malformed json", status: http.StatusOK, contentType: "application/json", body: `{"results":`},
		{name: "one result", status: http.StatusOK, contentType: "application/json", body: `{"results":[{"data":[],"cls":{}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := svc.Detect(context.Background(), "a.jpg", []byte("x"))
			require.ErrorIs(t, err, models.ErrInvalidResponseFormat)
			require.NotErrorIs(t, err, models.ErrRemoteRequestFailed)

			var respErr *ResponseError
			if tt.wantStatus != 0 {
				require.True(t, errors.As(err, &respErr))
				require.Equal(t, tt.wantStatus, respErr.StatusCode)
				require.Equal(t, tt.body, respErr.Body)
			}
		})
	}
}

func TestDetectTimeout(t *testing.T) {
	release := make(chan struct{})
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)
	svc.opts.RequestTimeout = 50 * time.Millisecond

	_, err := svc.Detect(context.Background(), "a.jpg", []byte("x"))
	require.ErrorIs(t, err, models.ErrRemoteRequestFailed)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDetectCanceled(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Detect(ctx, "a.jpg", []byte("x"))
	require.ErrorIs(t, err, models.ErrRemoteRequestFailed)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDetectUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	svc := NewService(Options{URL: url, RequestTimeout: time.Second})
	_, err := svc.Detect(context.Background(), "a.jpg", []byte("x"))
	require.ErrorIs(t, err, models.ErrRemoteRequestFailed)
}
