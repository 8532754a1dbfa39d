package httpx

import (
	"net/http"

	"github.com/bilasin/bilasin/internal/tenant"
)

// publicSettings exposes the customer-visible settings of a shop, e.g. its
// display name for the tracking page.
func (h *Handler) publicSettings(w http.ResponseWriter, r *http.Request) {
	adminID, err := adminIDQuery(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	settings, err := h.settings.Public(r.Context(), adminID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, settings)
}

func (h *Handler) allSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.All(r.Context(), tenant.IDFromContext(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, settings)
}

func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var values map[string]string
	if err := decodeJSON(r, &values); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.settings.Update(r.Context(), tenant.IDFromContext(r.Context()), values); err != nil {
		respondError(w, r, err)
		return
	}

	respondMessage(w, http.StatusOK, "Settings saved", nil)
}
