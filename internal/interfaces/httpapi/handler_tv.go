package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/fantasy-dashboard/internal/usecase"
)

func (h *Handler) GetTVCurrent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTVCurrent")
	defer span.End()

	if h.tv == nil {
		writeError(ctx, w, fmt.Errorf("%w: tv rotation is not running", usecase.ErrDependencyUnavailable))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tvStateToDTO(ctx, h.tv.Current()))
}

// StreamTV upgrades to a websocket that receives every TV state change.
func (h *Handler) StreamTV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.hub == nil {
		writeError(ctx, w, fmt.Errorf("%w: tv stream is not running", usecase.ErrDependencyUnavailable))
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(ctx, "tv stream upgrade failed", "error", err)
		return
	}

	if !h.hub.attach(ctx, conn) {
		_ = conn.Close()
	}
}
