package webhook

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"kommosync/platform/httpkit"
)

// Handler handles inbound Kommo webhook requests.
type Handler struct {
	service *Service
}

// NewHandler creates a new webhook handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleLeadsNotification ingests a bulk lead notification.
// POST /webhook/kommo/leads
//
// Kommo expects an acknowledgement regardless of how many entries applied, so
// the response is an empty 200 for every outcome short of not being able to
// read the body at all.
func (h *Handler) HandleLeadsNotification(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to read request body", nil)
		return
	}

	changeSet := DecodeChangeSet(string(body))
	if !changeSet.Empty() {
		h.service.Apply(c.Request.Context(), changeSet)
	}

	c.Status(http.StatusOK)
}
