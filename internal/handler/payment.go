package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/shegergsm/lookup-gateway/internal/audit"
	apperrors "github.com/shegergsm/lookup-gateway/internal/errors"
	"github.com/shegergsm/lookup-gateway/internal/model"
	"github.com/shegergsm/lookup-gateway/internal/repository"
)

type PaymentHandler struct {
	paymentRepo repository.PaymentRepository
}

func NewPaymentHandler(paymentRepo repository.PaymentRepository) *PaymentHandler {
	return &PaymentHandler{paymentRepo: paymentRepo}
}

func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	p := ParsePagination(r)

	var (
		payments []model.Payment
		err      error
	)
	if accountParam := r.URL.Query().Get("account_id"); accountParam != "" {
		accountID, perr := strconv.ParseInt(accountParam, 10, 64)
		if perr != nil || accountID <= 0 {
			writeError(w, apperrors.InvalidInput("account_id", "must be a positive integer"))
			return
		}
		payments, err = h.paymentRepo.FindByAccountID(r.Context(), accountID)
	} else {
		payments, err = h.paymentRepo.FindAll(r.Context(), p.Limit, p.Offset)
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to list payments")
		writeError(w, apperrors.Database(err))
		return
	}
	if payments == nil {
		payments = []model.Payment{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"payments": payments})
}

func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	payment, err := h.paymentRepo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, apperrors.Database(err))
		return
	}
	if payment == nil {
		writeError(w, apperrors.NotFound("payment"))
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var params model.CreatePaymentParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, apperrors.ValidationError("invalid JSON body"))
		return
	}
	if params.Amount <= 0 {
		writeError(w, apperrors.InvalidInput("amount", "must be positive"))
		return
	}
	if params.Method == "" {
		writeError(w, apperrors.MissingRequired("method"))
		return
	}

	payment, err := h.paymentRepo.Create(r.Context(), params)
	if err != nil {
		writeError(w, apperrors.Database(err))
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventPaymentRecord,
		Details: map[string]interface{}{"payment_id": payment.ID, "amount": payment.Amount},
	})
	writeJSON(w, http.StatusCreated, payment)
}

func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	payment, err := h.paymentRepo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, apperrors.Database(err))
		return
	}
	if payment == nil {
		writeError(w, apperrors.NotFound("payment"))
		return
	}

	if err := h.paymentRepo.Delete(r.Context(), id); err != nil {
		writeError(w, apperrors.Database(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
