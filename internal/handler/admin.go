package handler

import (
	"errors"
	"net/http"

	"github.com/mgi25/news-market-game-updated/internal/domain"
	"github.com/mgi25/news-market-game-updated/internal/service"
)

// AdminHandler handles operator endpoints. Every mutating route carries
// the shared admin password in its JSON body.
type AdminHandler struct {
	adminSvc *service.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminSvc *service.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

type adminLoginRequest struct {
	Password string `json:"password"`
}

type adminTriggerRequest struct {
	Password string `json:"password"`
	NewsID   string `json:"news_id"`
}

// Login handles POST /api/admin/login.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := h.adminSvc.Authenticate(req.Password); err != nil {
		WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid admin password")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// State handles GET /api/admin/state.
func (h *AdminHandler) State(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.adminSvc.State())
}

// News handles GET /api/admin/news: the unredacted catalogue, including
// direction/intensity/targets, for running the game.
func (h *AdminHandler) News(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{"news": h.adminSvc.Catalogue()})
}

// Trigger handles POST /api/admin/trigger.
func (h *AdminHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	var req adminTriggerRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := h.adminSvc.Authenticate(req.Password); err != nil {
		WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid admin password")
		return
	}
	if err := h.adminSvc.Trigger(req.NewsID); err != nil {
		mapAdminError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Random handles POST /api/admin/random.
func (h *AdminHandler) Random(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := h.adminSvc.Authenticate(req.Password); err != nil {
		WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid admin password")
		return
	}
	newsID := h.adminSvc.Random()
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "news_id": newsID})
}

// Reset handles POST /api/admin/reset.
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := h.adminSvc.Authenticate(req.Password); err != nil {
		WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid admin password")
		return
	}
	h.adminSvc.Reset()
	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// mapAdminError maps domain errors to HTTP responses for admin endpoints.
func mapAdminError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNewsNotFound):
		WriteError(w, http.StatusNotFound, "news_not_found", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
