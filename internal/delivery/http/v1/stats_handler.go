package v1

import (
	"ecommerce-backend/internal/usecase"
	"ecommerce-backend/pkg/utils"
	"net/http"
)

type StatsHandler struct {
	stats *usecase.StatsUsecase
}

func NewStatsHandler(stats *usecase.StatsUsecase) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// GET /admin/stats
func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Dashboard(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stats)
}
