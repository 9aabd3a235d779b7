// README: Address autocomplete proxy for the booking form.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tempmotion/internal/maps"
)

// PlaceSuggester resolves autocomplete suggestions for a partial address.
type PlaceSuggester interface {
	Autocomplete(ctx context.Context, input string) ([]maps.Prediction, error)
}

type PlacesHandler struct {
	places PlaceSuggester
}

func NewPlacesHandler(places PlaceSuggester) *PlacesHandler {
	return &PlacesHandler{places: places}
}

func (h *PlacesHandler) Autocomplete(c *gin.Context) {
	preds, err := h.places.Autocomplete(c.Request.Context(), c.Query("input"))
	if err != nil {
		writeError(c, http.StatusBadGateway, "places lookup failed")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"predictions": preds})
}
