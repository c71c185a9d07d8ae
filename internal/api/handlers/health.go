package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusFunc reports the state of an optional dependency
type StatusFunc func() string

// CountFunc reports a running counter
type CountFunc func() int64

type HealthHandler struct {
	ClientID   string
	Version    string
	ServiceURL string
	Messaging  StatusFunc
	Published  CountFunc
}

func NewHealthHandler(clientID, version, serviceURL string, messaging StatusFunc, published CountFunc) *HealthHandler {
	if messaging == nil {
		messaging = func() string { return "disabled" }
	}
	if published == nil {
		published = func() int64 { return 0 }
	}
	return &HealthHandler{
		ClientID:   clientID,
		Version:    version,
		ServiceURL: serviceURL,
		Messaging:  messaging,
		Published:  published,
	}
}

type HealthResponse struct {
	Status           string `json:"status" example:"healthy"`
	ClientID         string `json:"client_id" example:"smretrofit-1"`
	Messaging        string `json:"messaging" example:"connected"`
	ReportsPublished int64  `json:"reports_published" example:"42"`
}

type ClientInfoResponse struct {
	ClientID     string   `json:"client_id" example:"smretrofit-1"`
	Status       string   `json:"status" example:"running"`
	Version      string   `json:"version" example:"1.0.0"`
	ServiceURL   string   `json:"service_url" example:"https://api.somikoron.ai/api/"`
	Capabilities []string `json:"capabilities"`
}

// @Summary Health check
// @Description Check if the client service is healthy and responsive
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:           "healthy",
		ClientID:         h.ClientID,
		Messaging:        h.Messaging(),
		ReportsPublished: h.Published(),
	})
}

// @Summary Client information
// @Description Get basic client information and capabilities
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} ClientInfoResponse
// @Router / [get]
func (h *HealthHandler) ClientInfo(c *gin.Context) {
	c.JSON(http.StatusOK, ClientInfoResponse{
		ClientID:   h.ClientID,
		Status:     "running",
		Version:    h.Version,
		ServiceURL: h.ServiceURL,
		Capabilities: []string{
			"image_inspection",
			"defect_annotation",
			"rating_annotation",
		},
	})
}
