// Package inspection runs images and videos through the detection service and writes annotated
// copies of them.
package inspection

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"github.com/somikoronAI-Source/smretrofit/internal/helpers"
	"github.com/somikoronAI-Source/smretrofit/internal/models"
	"github.com/somikoronAI-Source/smretrofit/internal/services/media"
)

// Detector submits one encoded frame and returns both head results
type Detector interface {
	Detect(ctx context.Context, filename string, payload []byte) (*models.FrameResults, error)
}

// Annotator draws detection results onto a frame in place
type Annotator interface {
	Annotate(frame *gocv.Mat, results models.FrameResults) error
}

// Options configures a Service
type Options struct {
	DetectMode     models.Mode
	OutputDir      string
	TempDir        string
	JPEGQuality    int
	SampleCount    int
	VideoCodec     string // FourCC for annotated videos, media.DefaultCodec when empty
	ShowProgress   bool
	ResultsSubject string
	Logger         *zerolog.Logger // global logger when nil
}

// ImageOptions controls a single image run
type ImageOptions struct {
	Save bool
}

// VideoOptions controls a full video run
type VideoOptions struct {
	Save bool
}

// SampleOptions controls a sampled video run. Count falls back to the configured sample count.
type SampleOptions struct {
	Save  bool
	Count int
}

// UploadResult is the outcome of an in-memory image inspection
type UploadResult struct {
	Report    models.Report
	Annotated []byte // JPEG, nil unless requested
}

// Service orchestrates detection runs
type Service struct {
	detector  Detector
	annotator Annotator
	publisher models.MessagePublisher
	opts      Options
	rng       *rand.Rand
	log       zerolog.Logger
}

// NewService validates the options and creates an inspection service
func NewService(detector Detector, annotator Annotator, publisher models.MessagePublisher, opts Options) (*Service, error) {
	if !opts.DetectMode.IsValid() {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidDetectMode, opts.DetectMode)
	}
	if opts.JPEGQuality <= 0 {
		opts.JPEGQuality = helpers.HighQuality
	}
	if opts.SampleCount <= 0 {
		opts.SampleCount = 3
	}
	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	now := uint64(time.Now().UnixNano())
	return &Service{
		log:       logger,
		detector:  detector,
		annotator: annotator,
		publisher: publisher,
		opts:      opts,
		rng:       rand.New(rand.NewPCG(now, now>>32)),
	}, nil
}

// SetRand replaces the frame sampling source
func (s *Service) SetRand(rng *rand.Rand) {
	s.rng = rng
}

// InspectImage runs one image file through detection, optionally saving an annotated copy
// to the output directory under the same base name.
func (s *Service) InspectImage(ctx context.Context, path string, opts ImageOptions) (*models.Report, error) {
	const op = "inspect image"

	if _, err := media.RequireImage(path); err != nil {
		return nil, models.Wrap(op, path, err)
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, models.Wrap(op, path, err)
	}

	results, err := s.detector.Detect(ctx, filepath.Base(path), payload)
	if err != nil {
		return nil, models.Wrap(op, path, err)
	}
	report, err := models.NewReport(0, *results).Project(s.opts.DetectMode)
	if err != nil {
		return nil, models.Wrap(op, path, err)
	}

	if opts.Save {
		out := filepath.Join(s.opts.OutputDir, filepath.Base(path))
		if err := s.saveAnnotatedImage(path, out, *results); err != nil {
			return nil, models.Wrap(op, path, err)
		}
		s.log.Info().Str("input", path).Str("output", out).Msg("Annotated image saved")
	}

	s.publish(path, report)
	return &report, nil
}

// InspectUpload runs an in-memory image through detection. When annotate is set the annotated
// frame is returned as JPEG.
func (s *Service) InspectUpload(ctx context.Context, filename string, data []byte, annotate bool) (*UploadResult, error) {
	const op = "inspect upload"

	if _, err := media.RequireImageData(filename, data); err != nil {
		return nil, models.Wrap(op, filename, err)
	}
	results, err := s.detector.Detect(ctx, filename, data)
	if err != nil {
		return nil, models.Wrap(op, filename, err)
	}
	report, err := models.NewReport(0, *results).Project(s.opts.DetectMode)
	if err != nil {
		return nil, models.Wrap(op, filename, err)
	}

	out := &UploadResult{Report: report}
	if annotate {
		frame, err := helpers.DecodeImage(data)
		if err != nil {
			return nil, models.Wrap(op, filename, fmt.Errorf("%w: %w", models.ErrInvalidMediaType, err))
		}
		defer frame.Close()
		if err := s.annotator.Annotate(&frame, *results); err != nil {
			return nil, models.Wrap(op, filename, err)
		}
		if out.Annotated, err = helpers.EncodeJPEG(frame, s.opts.JPEGQuality); err != nil {
			return nil, models.Wrap(op, filename, err)
		}
	}

	s.publish(filename, report)
	return out, nil
}

// InspectVideo submits every frame of a video. With Save, the annotated video is written to
// the output directory under the same base name, at the source frame rate and size.
func (s *Service) InspectVideo(ctx context.Context, path string, opts VideoOptions) ([]models.Report, error) {
	const op = "inspect video"

	if _, err := media.RequireVideo(path); err != nil {
		return nil, models.Wrap(op, path, err)
	}
	reader, err := media.OpenVideo(path)
	if err != nil {
		return nil, models.Wrap(op, path, err)
	}
	defer reader.Close()
	props := reader.Props()

	var out *videoOutput
	if opts.Save {
		out, err = s.newVideoOutput(path, props)
		if err != nil {
			return nil, models.Wrap(op, path, err)
		}
		defer out.discard()
	}

	bar := newProgress(s.opts.ShowProgress, props.FrameCount, filepath.Base(path))
	defer bar.Finish()

	frame := gocv.NewMat()
	defer frame.Close()

	reports := make([]models.Report, 0, max(props.FrameCount, 0))
	for i := 1; reader.Read(&frame); i++ {
		if err := ctx.Err(); err != nil {
			return nil, models.Wrap(op, path, fmt.Errorf("%w: %w", models.ErrRemoteRequestFailed, err))
		}

		results, err := s.detectFrame(ctx, frame, i)
		if err != nil {
			return nil, models.Wrap(op, path, err)
		}
		report, err := models.NewReport(i, *results).Project(s.opts.DetectMode)
		if err != nil {
			return nil, models.Wrap(op, path, err)
		}

		if out != nil {
			if err := s.annotator.Annotate(&frame, *results); err != nil {
				return nil, models.Wrap(op, path, err)
			}
			if err := out.writer.Write(frame); err != nil {
				return nil, models.Wrap(op, path, err)
			}
		}

		s.publish(path, report)
		reports = append(reports, report)
		bar.Increment()
	}

	if out != nil {
		if err := out.commit(); err != nil {
			return nil, models.Wrap(op, path, err)
		}
		s.log.Info().
			Str("input", path).
			Str("output", out.final).
			Int("frames", len(reports)).
			Msg("Annotated video saved")
	}
	return reports, nil
}

// InspectVideoSample submits Count distinct frames picked uniformly at random. With Save, each
// annotated frame is written as frame<N>.jpg to the output directory, N being its 1-based index.
// Reports are returned in frame order.
func (s *Service) InspectVideoSample(ctx context.Context, path string, opts SampleOptions) ([]models.Report, error) {
	const op = "inspect video sample"

	count := opts.Count
	if count == 0 {
		count = s.opts.SampleCount
	}

	if _, err := media.RequireVideo(path); err != nil {
		return nil, models.Wrap(op, path, err)
	}
	reader, err := media.OpenVideo(path)
	if err != nil {
		return nil, models.Wrap(op, path, err)
	}
	defer reader.Close()
	total := reader.Props().FrameCount

	picked, err := sampleFrames(s.rng, total, count)
	if err != nil {
		return nil, models.Wrap(op, path, err)
	}
	if opts.Save {
		if err := os.MkdirAll(s.opts.OutputDir, 0o755); err != nil {
			return nil, models.Wrap(op, path, err)
		}
	}

	frame := gocv.NewMat()
	defer frame.Close()

	reports := make([]models.Report, 0, count)
	for i := 1; len(reports) < count && reader.Read(&frame); i++ {
		if !picked[i] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, models.Wrap(op, path, fmt.Errorf("%w: %w", models.ErrRemoteRequestFailed, err))
		}

		results, err := s.detectFrame(ctx, frame, i)
		if err != nil {
			return nil, models.Wrap(op, path, err)
		}
		report, err := models.NewReport(i, *results).Project(s.opts.DetectMode)
		if err != nil {
			return nil, models.Wrap(op, path, err)
		}

		if opts.Save {
			if err := s.annotator.Annotate(&frame, *results); err != nil {
				return nil, models.Wrap(op, path, err)
			}
			out := filepath.Join(s.opts.OutputDir, fmt.Sprintf("frame%d.jpg", i))
			if err := media.WriteImage(out, frame); err != nil {
				return nil, models.Wrap(op, path, err)
			}
			s.log.Info().Int("frame", i).Str("output", out).Msg("Sampled frame saved")
		}

		s.publish(path, report)
		reports = append(reports, report)
	}

	if len(reports) < count {
		s.log.Warn().
			Str("path", path).
			Int("requested", count).
			Int("processed", len(reports)).
			Msg("Video ended before every sampled frame was read")
	}
	return reports, nil
}

func (s *Service) detectFrame(ctx context.Context, frame gocv.Mat, index int) (*models.FrameResults, error) {
	payload, err := helpers.EncodeJPEG(frame, s.opts.JPEGQuality)
	if err != nil {
		return nil, err
	}
	return s.detector.Detect(ctx, fmt.Sprintf("frame%d.jpg", index), payload)
}

func (s *Service) saveAnnotatedImage(in, out string, results models.FrameResults) error {
	frame, err := media.ReadImage(in)
	if err != nil {
		return err
	}
	defer frame.Close()

	if err := s.annotator.Annotate(&frame, results); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	return media.WriteImage(out, frame)
}

func (s *Service) publish(source string, report models.Report) {
	if s.publisher == nil || s.opts.ResultsSubject == "" {
		return
	}
	msg := ReportMessage{Source: source, Report: report, Timestamp: time.Now().UTC()}
	if err := s.publisher.Publish(s.opts.ResultsSubject, msg); err != nil {
		s.log.Warn().Err(err).Str("source", source).Int("frame", report.Frame).Msg("Failed to publish report")
	}
}

// ReportMessage is the payload published for every processed image or frame
type ReportMessage struct {
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	models.Report
}

// sampleFrames picks count distinct 1-based frame indices from [1, total]
func sampleFrames(rng *rand.Rand, total, count int) (map[int]bool, error) {
	if count < 1 || count > total {
		return nil, fmt.Errorf("%w: cannot pick %d frames from %d", models.ErrInvalidSample, count, total)
	}
	picked := make(map[int]bool, count)
	for _, idx := range rng.Perm(total)[:count] {
		picked[idx+1] = true
	}
	return picked, nil
}

// videoOutput writes the annotated video into a scratch directory and moves it into place once
// every frame is written. Anything left behind by a failed run is removed by discard.
type videoOutput struct {
	scratch string
	partial string
	final   string
	writer  *media.VideoWriter
	log     zerolog.Logger
}

func (s *Service) newVideoOutput(path string, props media.VideoProps) (*videoOutput, error) {
	if err := os.MkdirAll(s.opts.OutputDir, 0o755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.opts.TempDir, 0o755); err != nil {
		return nil, err
	}
	scratch, err := os.MkdirTemp(s.opts.TempDir, "smretrofit-*")
	if err != nil {
		return nil, err
	}

	base := filepath.Base(path)
	partial := filepath.Join(scratch, base)
	props.Codec = s.opts.VideoCodec
	writer, err := media.CreateVideo(partial, props)
	if err != nil {
		os.RemoveAll(scratch)
		return nil, err
	}
	return &videoOutput{
		scratch: scratch,
		partial: partial,
		final:   filepath.Join(s.opts.OutputDir, base),
		writer:  writer,
		log:     s.log,
	}, nil
}

func (o *videoOutput) commit() error {
	if err := o.writer.Close(); err != nil {
		return err
	}
	if err := os.Rename(o.partial, o.final); err != nil {
		// scratch and output may sit on different filesystems
		return copyFile(o.partial, o.final)
	}
	return nil
}

func (o *videoOutput) discard() {
	o.writer.Close()
	if err := os.RemoveAll(o.scratch); err != nil {
		o.log.Warn().Err(err).Str("scratch", o.scratch).Msg("Failed to remove scratch directory")
	}
}
