package handlers

import (
	"net/http"

	"github.com/akinalp/gamevault/pkg"
	"github.com/akinalp/gamevault/services"
)

// CatalogHandler serves cached Steam catalog data. The optional "l" query
// parameter selects the Steam language.
type CatalogHandler struct {
	catalogService services.CatalogService
}

// NewCatalogHandler, constructor.
func NewCatalogHandler(catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// MostPlayed godoc
// GET /api/catalog/most-played?l=
func (h *CatalogHandler) MostPlayed(w http.ResponseWriter, r *http.Request) {
	payload, err := h.catalogService.MostPlayedGames(r.Context(), r.URL.Query().Get("l"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, payload)
}

// GameDetails godoc
// GET /api/catalog/games/{appId}?l=
func (h *CatalogHandler) GameDetails(w http.ResponseWriter, r *http.Request) {
	payload, err := h.catalogService.GameDetails(r.Context(), r.PathValue("appId"), r.URL.Query().Get("l"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, payload)
}

// GameReviews godoc
// GET /api/catalog/games/{appId}/reviews?l=
func (h *CatalogHandler) GameReviews(w http.ResponseWriter, r *http.Request) {
	payload, err := h.catalogService.GameReviews(r.Context(), r.PathValue("appId"), r.URL.Query().Get("l"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, payload)
}
