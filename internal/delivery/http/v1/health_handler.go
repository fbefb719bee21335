package v1

import (
	"context"
	"ecommerce-backend/pkg/logger"
	"ecommerce-backend/pkg/utils"
	"net/http"
)

// HealthHandler reports whether the store is reachable.
type HealthHandler struct {
	check func(ctx context.Context) error
}

func NewHealthHandler(check func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{check: check}
}

// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.check(r.Context()); err != nil {
		logger.WithContext(r.Context()).Error().Err(err).Msg("Health: database unreachable")
		utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
