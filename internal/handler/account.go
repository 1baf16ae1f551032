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

type AccountHandler struct {
	accounts *service.AccountService
}

func NewAccountHandler(accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// ResolveByExternalID handles GET /api/user/{externalID}, the public
// endpoint callers use to check their balance. Unknown callers are
// provisioned on the spot with the signup grant, same as on their
// first lookup. An optional username query param refreshes the stored
// name.
func (h *AccountHandler) ResolveByExternalID(w http.ResponseWriter, r *http.Request) {
	externalID, err := strconv.ParseInt(chi.URLParam(r, "externalID"), 10, 64)
	if err != nil || externalID == 0 {
		writeError(w, apperrors.InvalidInput("externalID", "must be a non-zero integer"))
		return
	}

	var username *string
	if name := r.URL.Query().Get("username"); name != "" {
		username = &name
	}

	account, err := h.accounts.Resolve(r.Context(), externalID, username)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve account")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, account)
}

// Admin CRUD

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	p := ParsePagination(r)

	accounts, err := h.accounts.List(r.Context(), p.Limit, p.Offset)
	if err != nil {
		log.Error().Err(err).Msg("failed to list accounts")
		writeError(w, apperrors.Database(err))
		return
	}
	if accounts == nil {
		accounts = []model.Account{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"accounts": accounts})
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	account, err := h.accounts.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, apperrors.Database(err))
		return
	}
	if account == nil {
		writeError(w, apperrors.NotFound("account"))
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var params model.UpdateAccountParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, apperrors.ValidationError("invalid JSON body"))
		return
	}

	account, err := h.accounts.Update(r.Context(), id, params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// SetCredits handles POST /admin/api/accounts/{id}/credits.
func (h *AccountHandler) SetCredits(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		FreeCredits int `json:"free_credits"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("invalid JSON body"))
		return
	}

	account, err := h.accounts.SetFreeCredits(r.Context(), id, req.FreeCredits)
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:      audit.EventQuotaSet,
		AccountID: id,
		Details:   map[string]interface{}{"free_credits": req.FreeCredits},
	})
	writeJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.accounts.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:      audit.EventAccountDelete,
		AccountID: id,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
