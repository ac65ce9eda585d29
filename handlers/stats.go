// Public statistics.

package handlers

import (
	"net/http"

	"github.com/akinalp/gamevault/pkg"
	"github.com/akinalp/gamevault/repository"
)

// StatsResponse is the body of GET /api/stats.
type StatsResponse struct {
	TotalUsers int `json:"total_users"`
}

// StatsHandler serves public statistics. Needs only the account count.
type StatsHandler struct {
	accountRepo repository.AccountRepository
}

// NewStatsHandler, constructor.
func NewStatsHandler(accountRepo repository.AccountRepository) *StatsHandler {
	return &StatsHandler{accountRepo: accountRepo}
}

// GetPublicStats returns the number of registered accounts. No auth.
//
// GET /api/stats
// Response: { "success": true, "data": { "total_users": 42 } }
func (h *StatsHandler) GetPublicStats(w http.ResponseWriter, r *http.Request) {
	count, err := h.accountRepo.Count(r.Context())
	if err != nil {
		pkg.ErrorWithMessage(w, http.StatusInternalServerError, "failed to get stats")
		return
	}

	pkg.JSON(w, http.StatusOK, StatsResponse{TotalUsers: count})
}
