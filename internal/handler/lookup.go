package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	apperrors "github.com/shegergsm/lookup-gateway/internal/errors"
	"github.com/shegergsm/lookup-gateway/internal/service"
)

type LookupHandler struct {
	lookupService *service.LookupService
}

func NewLookupHandler(lookupService *service.LookupService) *LookupHandler {
	return &LookupHandler{lookupService: lookupService}
}

type lookupRequest struct {
	UserID   int64   `json:"user_id"`
	Service  string  `json:"service"`
	IMEI     string  `json:"imei"`
	Username *string `json:"username,omitempty"`
}

// Lookup handles POST /api/lookup. Successful lookups return the
// provider payload as-is. Lookups the provider itself rejected come
// back as 200 with an error field, matching what callers of the
// upstream providers already expect. Transport-level provider trouble
// maps to 502, quota exhaustion to 403, unknown service codes to 404.
func (h *LookupHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("invalid JSON body"))
		return
	}
	if req.UserID == 0 {
		writeError(w, apperrors.MissingRequired("user_id"))
		return
	}

	result, err := h.lookupService.Lookup(r.Context(), service.LookupParams{
		ExternalID:       req.UserID,
		ServiceCode:      req.Service,
		DeviceIdentifier: req.IMEI,
		Username:         req.Username,
	})
	if err != nil {
		if !apperrors.IsAppError(err) {
			log.Error().Err(err).Msg("lookup failed")
		}
		writeError(w, err)
		return
	}

	if !result.Success {
		writeJSON(w, http.StatusOK, map[string]string{"error": result.Message})
		return
	}

	writeJSON(w, http.StatusOK, result.Payload)
}
