package httpx

import (
	"net/http"
	"strings"

	"github.com/bilasin/bilasin/internal/domain"
	"github.com/bilasin/bilasin/internal/service"
	"github.com/bilasin/bilasin/internal/tenant"
)

type adminResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

func toAdminResponse(a *domain.Admin) adminResponse {
	return adminResponse{ID: a.ID, Name: a.Name, Username: a.Username}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	const op = "handler.account.register"

	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := checkPayload(op, req); err != nil {
		respondError(w, r, err)
		return
	}

	admin, err := h.accounts.Register(r.Context(), service.RegisterParams{
		Name:     req.Name,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondMessage(w, http.StatusCreated, "Account created", toAdminResponse(admin))
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	const op = "handler.account.login"

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := checkPayload(op, req); err != nil {
		respondError(w, r, err)
		return
	}

	token, admin, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, map[string]any{
		"token": token,
		"admin": toAdminResponse(admin),
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	// The middleware already proved the header is well-formed.
	_, token, _ := strings.Cut(r.Header.Get("Authorization"), " ")

	if err := h.accounts.Logout(r.Context(), strings.TrimSpace(token)); err != nil {
		respondError(w, r, err)
		return
	}

	respondMessage(w, http.StatusOK, "Logged out", nil)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, toAdminResponse(tenant.MustFromContext(r.Context())))
}
