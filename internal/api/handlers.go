package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/youruser/speakerpack/internal/apperr"
	"github.com/youruser/speakerpack/internal/insights"
	"github.com/youruser/speakerpack/internal/pack"
	"github.com/youruser/speakerpack/internal/render"
	"github.com/youruser/speakerpack/internal/store"
)

// Handler carries the wired dependencies for the HTTP surface.
type Handler struct {
	Pipeline *pack.Pipeline
	Store    store.DocumentStore
	Logger   *slog.Logger
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) speakerPack(c *gin.Context) {
	var req struct {
		EventID string `json:"event_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	url, err := h.Pipeline.Generate(c.Request.Context(), req.EventID)
	if err != nil {
		h.fail(c, "generating speaker pack", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"download_url": url})
}

func (h *Handler) insights(c *gin.Context) {
	report, err := insights.Collect(c.Request.Context(), h.Store)
	if err != nil {
		h.fail(c, "collecting insights", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// qr returns a PNG preview of a code for the given text.
func (h *Handler) qr(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	size := 400
	if s := c.Query("size"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			size = v
		}
	}
	b, err := render.GenerateQRPNG(text, size)
	if err != nil {
		h.fail(c, "generating QR preview", err)
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

// fail logs the full error chain and answers with the kind-mapped
// status and the caller-safe message only.
func (h *Handler) fail(c *gin.Context, op string, err error) {
	h.Logger.Error(op, "error", err)
	c.JSON(statusForKind(apperr.KindOf(err)), gin.H{"error": apperr.Message(err)})
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindInvalidArgument:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindFailedPrecondition:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
