package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	apperrors "github.com/shegergsm/lookup-gateway/internal/errors"
	"github.com/shegergsm/lookup-gateway/internal/model"
	"github.com/shegergsm/lookup-gateway/internal/repository"
)

type UsageHandler struct {
	usageRepo repository.UsageRepository
}

func NewUsageHandler(usageRepo repository.UsageRepository) *UsageHandler {
	return &UsageHandler{usageRepo: usageRepo}
}

func (h *UsageHandler) List(w http.ResponseWriter, r *http.Request) {
	p := ParsePagination(r)

	var (
		usages []model.UsageRecord
		err    error
	)
	if accountParam := r.URL.Query().Get("account_id"); accountParam != "" {
		accountID, perr := strconv.ParseInt(accountParam, 10, 64)
		if perr != nil || accountID <= 0 {
			writeError(w, apperrors.InvalidInput("account_id", "must be a positive integer"))
			return
		}
		usages, err = h.usageRepo.FindByAccountID(r.Context(), accountID, p.Limit, p.Offset)
	} else {
		usages, err = h.usageRepo.FindAll(r.Context(), p.Limit, p.Offset)
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to list usage records")
		writeError(w, apperrors.Database(err))
		return
	}
	if usages == nil {
		usages = []model.UsageRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"usages": usages})
}

func (h *UsageHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, apperrors.InvalidInput("id", "must be a positive integer"))
		return
	}

	rec, err := h.usageRepo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, apperrors.Database(err))
		return
	}
	if rec == nil {
		writeError(w, apperrors.NotFound("usage record"))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
