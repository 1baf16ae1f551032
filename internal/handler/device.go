package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	apperrors "github.com/shegergsm/lookup-gateway/internal/errors"
	"github.com/shegergsm/lookup-gateway/internal/model"
	"github.com/shegergsm/lookup-gateway/internal/repository"
)

type DeviceHandler struct {
	deviceRepo repository.DeviceRepository
}

func NewDeviceHandler(deviceRepo repository.DeviceRepository) *DeviceHandler {
	return &DeviceHandler{deviceRepo: deviceRepo}
}

func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	p := ParsePagination(r)

	var (
		devices []model.DeviceRecord
		err     error
	)
	if accountParam := r.URL.Query().Get("account_id"); accountParam != "" {
		accountID, perr := strconv.ParseInt(accountParam, 10, 64)
		if perr != nil || accountID <= 0 {
			writeError(w, apperrors.InvalidInput("account_id", "must be a positive integer"))
			return
		}
		devices, err = h.deviceRepo.FindByAccountID(r.Context(), accountID)
	} else {
		devices, err = h.deviceRepo.FindAll(r.Context(), p.Limit, p.Offset)
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to list devices")
		writeError(w, apperrors.Database(err))
		return
	}
	if devices == nil {
		devices = []model.DeviceRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"devices": devices})
}

func (h *DeviceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	dev, err := h.deviceRepo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, apperrors.Database(err))
		return
	}
	if dev == nil {
		writeError(w, apperrors.NotFound("device"))
		return
	}
	writeJSON(w, http.StatusOK, dev)
}

func (h *DeviceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var params model.UpdateDeviceRecordParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, apperrors.ValidationError("invalid JSON body"))
		return
	}

	dev, err := h.deviceRepo.Update(r.Context(), id, params)
	if err != nil {
		writeError(w, apperrors.Database(err))
		return
	}
	if dev == nil {
		writeError(w, apperrors.NotFound("device"))
		return
	}
	writeJSON(w, http.StatusOK, dev)
}

func (h *DeviceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	dev, err := h.deviceRepo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, apperrors.Database(err))
		return
	}
	if dev == nil {
		writeError(w, apperrors.NotFound("device"))
		return
	}

	if err := h.deviceRepo.Delete(r.Context(), id); err != nil {
		writeError(w, apperrors.Database(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
