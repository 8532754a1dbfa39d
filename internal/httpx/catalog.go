package httpx

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bilasin/bilasin/internal/domain"
	"github.com/bilasin/bilasin/internal/service"
	"github.com/bilasin/bilasin/internal/tenant"
)

type serviceResponse struct {
	ID        int64              `json:"id"`
	Name      string             `json:"name"`
	Price     decimal.Decimal    `json:"price"`
	Unit      domain.ServiceUnit `json:"unit"`
	IsActive  bool               `json:"is_active"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func toServiceResponse(s *domain.Service) serviceResponse {
	return serviceResponse{
		ID:        s.ID,
		Name:      s.Name,
		Price:     s.Price,
		Unit:      s.Unit,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toServiceResponses(services []domain.Service) []serviceResponse {
	out := make([]serviceResponse, 0, len(services))
	for i := range services {
		out = append(out, toServiceResponse(&services[i]))
	}
	return out
}

// publicServices lists a shop's active offerings for the order form.
func (h *Handler) publicServices(w http.ResponseWriter, r *http.Request) {
	adminID, err := adminIDQuery(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	services, err := h.catalog.ListActive(r.Context(), adminID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, toServiceResponses(services))
}

func (h *Handler) listServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalog.List(r.Context(), tenant.IDFromContext(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, toServiceResponses(services))
}

type serviceRequest struct {
	Name     string          `json:"name" validate:"required"`
	Price    decimal.Decimal `json:"price"`
	Unit     string          `json:"unit" validate:"required,oneof=kg pcs item"`
	IsActive *bool           `json:"is_active"`
}

func (r serviceRequest) params() service.ServiceParams {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return service.ServiceParams{
		Name:     r.Name,
		Price:    r.Price,
		Unit:     domain.ServiceUnit(r.Unit),
		IsActive: active,
	}
}

func (h *Handler) createService(w http.ResponseWriter, r *http.Request) {
	const op = "handler.service.create"

	var req serviceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := checkPayload(op, req); err != nil {
		respondError(w, r, err)
		return
	}

	created, err := h.catalog.Create(r.Context(), tenant.IDFromContext(r.Context()), req.params())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondMessage(w, http.StatusCreated, "Service created", toServiceResponse(created))
}

func (h *Handler) updateService(w http.ResponseWriter, r *http.Request) {
	const op = "handler.service.update"

	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req serviceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := checkPayload(op, req); err != nil {
		respondError(w, r, err)
		return
	}

	updated, err := h.catalog.Update(r.Context(), tenant.IDFromContext(r.Context()), id, req.params())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondMessage(w, http.StatusOK, "Service updated", toServiceResponse(updated))
}

func (h *Handler) deleteService(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.catalog.Delete(r.Context(), tenant.IDFromContext(r.Context()), id); err != nil {
		respondError(w, r, err)
		return
	}

	respondMessage(w, http.StatusOK, "Service deleted", nil)
}
