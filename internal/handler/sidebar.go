package handler

import (
	"log/slog"
	"net/http"
)

// SidebarHandler serves the sidebar content as JSON for clients that
// render it themselves.
type SidebarHandler struct {
	sidebar SidebarLoader
	logger  *slog.Logger
}

func NewSidebarHandler(sidebar SidebarLoader, logger *slog.Logger) *SidebarHandler {
	return &SidebarHandler{sidebar: sidebar, logger: logger}
}

// HandleGet returns hot questions and popular tags.
//
// HTTP: GET /api/sidebar
func (h *SidebarHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sidebar, err := h.sidebar.Load(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to load sidebar", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sidebar)
}
