package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/jcalloway/larder/internal/preview"
)

type PreviewHandler struct {
	fetcher *preview.Fetcher
	logger  *slog.Logger
}

func NewPreviewHandler(fetcher *preview.Fetcher, logger *slog.Logger) *PreviewHandler {
	return &PreviewHandler{
		fetcher: fetcher,
		logger:  logger.With("component", "preview_handler"),
	}
}

// Get fetches display metadata for a recipe page. Only absolute http(s)
// URLs are accepted.
func (h *PreviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		writeError(w, http.StatusBadRequest, "url must be an absolute http or https URL")
		return
	}

	p, err := h.fetcher.Fetch(r.Context(), raw)
	if err != nil {
		h.logger.Warn("fetch preview", "error", err, "url", raw)
		writeError(w, http.StatusBadGateway, "failed to fetch page")
		return
	}
	writeJSON(w, http.StatusOK, p)
}
