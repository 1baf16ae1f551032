package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/shegergsm/lookup-gateway/internal/audit"
	apperrors "github.com/shegergsm/lookup-gateway/internal/errors"
	"github.com/shegergsm/lookup-gateway/internal/model"
	"github.com/shegergsm/lookup-gateway/internal/service"
)

type CatalogHandler struct {
	catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListPublic handles GET /api/services.
func (h *CatalogHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	svcs, err := h.catalog.List(r.Context(), true)
	if err != nil {
		log.Error().Err(err).Msg("failed to list services")
		writeError(w, apperrors.Database(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": svcs})
}

// ListGrouped handles GET /api/services/grouped.
func (h *CatalogHandler) ListGrouped(w http.ResponseWriter, r *http.Request) {
	grouped, err := h.catalog.ListGrouped(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to group services")
		writeError(w, apperrors.Database(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"groups": grouped})
}

// GetByCode handles GET /api/services/{code}.
func (h *CatalogHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	svc, err := h.catalog.LookupByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}
	if !svc.IsPublic {
		writeError(w, apperrors.ServiceNotFound())
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

// Admin CRUD

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	svcs, err := h.catalog.List(r.Context(), false)
	if err != nil {
		log.Error().Err(err).Msg("failed to list services")
		writeError(w, apperrors.Database(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": svcs})
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	svc, err := h.catalog.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var params model.CreateServiceParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, apperrors.ValidationError("invalid JSON body"))
		return
	}

	svc, err := h.catalog.Create(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventServiceCreate,
		Details: map[string]interface{}{"code": svc.Code},
	})
	writeJSON(w, http.StatusCreated, svc)
}

func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var params model.UpdateServiceParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, apperrors.ValidationError("invalid JSON body"))
		return
	}

	svc, err := h.catalog.Update(r.Context(), id, params)
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventServiceUpdate,
		Details: map[string]interface{}{"code": svc.Code},
	})
	writeJSON(w, http.StatusOK, svc)
}

func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventServiceDelete,
		Details: map[string]interface{}{"id": id},
	})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.InvalidInput("id", "must be a positive integer")
	}
	return id, nil
}
