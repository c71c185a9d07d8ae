package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/somikoronAI-Source/smretrofit/internal/helpers"
	"github.com/somikoronAI-Source/smretrofit/internal/logging"
	"github.com/somikoronAI-Source/smretrofit/internal/models"
	"github.com/somikoronAI-Source/smretrofit/internal/services/inspection"
)

// MaxUploadSize caps the accepted image upload
const MaxUploadSize = 32 << 20

// ImageInspector runs uploaded images through detection
type ImageInspector interface {
	InspectUpload(ctx context.Context, filename string, data []byte, annotate bool) (*inspection.UploadResult, error)
}

type InspectHandler struct {
	inspector ImageInspector
}

func NewInspectHandler(inspector ImageInspector) *InspectHandler {
	return &InspectHandler{inspector: inspector}
}

type InspectResponse struct {
	RequestID      string        `json:"request_id" example:"0b6f2c1e-8a57-4d7b-9a43-2b1f1c6d9e10"`
	Filename       string        `json:"filename" example:"girder.jpg"`
	Report         models.Report `json:"report"`
	AnnotatedImage string        `json:"annotated_image,omitempty" example:"data:image/jpeg;base64,/9j/4AAQ..."`
}

type ErrorResponse struct {
	Error string `json:"error" example:"smretrofit: invalid media type"`
	Kind  string `json:"kind,omitempty" example:"invalid_media_type"`
}

// InspectImage godoc
// @Summary Inspect an image
// @Description Submit an image to the detection service and return the defect and rating results, projected by the configured detect mode
// @Tags inspection
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image to inspect"
// @Param annotate query bool false "Return the annotated image as a JPEG data URL"
// @Success 200 {object} InspectResponse
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /v1/inspect/image [post]
func (h *InspectHandler) InspectImage(c *gin.Context) {
	annotate, _ := strconv.ParseBool(c.DefaultQuery("annotate", "false"))

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "multipart field 'file' is required"})
		return
	}
	if fh.Size > MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "image exceeds upload limit"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read upload"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, MaxUploadSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read upload"})
		return
	}

	filename := filepath.Base(fh.Filename)
	res, err := h.inspector.InspectUpload(c.Request.Context(), filename, data, annotate)
	if err != nil {
		status, kind := statusFor(err)
		logging.Warn(c).Err(err).Str("file", filename).Int("status", status).Msg("Image inspection failed")
		c.JSON(status, ErrorResponse{Error: err.Error(), Kind: kind})
		return
	}

	resp := InspectResponse{
		RequestID: logging.RequestID(c),
		Filename:  filename,
		Report:    res.Report,
	}
	if res.Annotated != nil {
		resp.AnnotatedImage = helpers.DataURL(res.Annotated)
	}

	logging.Info(c).Str("file", filename).Bool("annotated", annotate).Msg("Image inspected")
	c.JSON(http.StatusOK, resp)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrInvalidMediaType):
		return http.StatusBadRequest, "invalid_media_type"
	case errors.Is(err, models.ErrInvalidDetectMode):
		return http.StatusBadRequest, "invalid_detect_mode"
	case errors.Is(err, models.ErrInvalidLabelMode):
		return http.StatusBadRequest, "invalid_label_mode"
	case errors.Is(err, models.ErrRemoteRequestFailed):
		return http.StatusBadGateway, "remote_request_failed"
	case errors.Is(err, models.ErrInvalidResponseFormat):
		return http.StatusBadGateway, "invalid_response_format"
	default:
		return http.StatusInternalServerError, "unexpected"
	}
}
