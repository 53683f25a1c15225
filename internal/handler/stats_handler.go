// internal/handler/stats_handler.go
package handler

import (
	"net/http"
	"time"

	"github.com/silversky/partnersms-backend/internal/repository"
)

// StatsHandler serves the dashboard rollup.
type StatsHandler struct {
	Repo repository.StatsRepositoryInterface
}

func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.Repo.Snapshot(time.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}
