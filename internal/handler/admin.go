package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/shegergsm/lookup-gateway/internal/audit"
	"github.com/shegergsm/lookup-gateway/internal/middleware"
	"github.com/shegergsm/lookup-gateway/internal/service"
)

type AdminHandler struct {
	adminService      *service.AdminService
	sessionMiddleware func(http.Handler) http.Handler
	loginRateLimit    func(http.Handler) http.Handler
	accounts          *AccountHandler
	catalog           *CatalogHandler
	usages            *UsageHandler
	devices           *DeviceHandler
	payments          *PaymentHandler
	isProduction      bool
}

func NewAdminHandler(
	adminService *service.AdminService,
	sessionMiddleware func(http.Handler) http.Handler,
	loginRateLimit func(http.Handler) http.Handler,
	accounts *AccountHandler,
	catalog *CatalogHandler,
	usages *UsageHandler,
	devices *DeviceHandler,
	payments *PaymentHandler,
	isProduction bool,
) *AdminHandler {
	return &AdminHandler{
		adminService:      adminService,
		sessionMiddleware: sessionMiddleware,
		loginRateLimit:    loginRateLimit,
		accounts:          accounts,
		catalog:           catalog,
		usages:            usages,
		devices:           devices,
		payments:          payments,
		isProduction:      isProduction,
	}
}

func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.loginRateLimit).Post("/api/login", h.Login)
	r.Post("/api/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(h.sessionMiddleware)
		r.Get("/api/stats", h.Stats)

		// Accounts
		r.Get("/api/accounts", h.accounts.List)
		r.Get("/api/accounts/{id}", h.accounts.Get)
		r.Patch("/api/accounts/{id}", h.accounts.Update)
		r.Post("/api/accounts/{id}/credits", h.accounts.SetCredits)
		r.Delete("/api/accounts/{id}", h.accounts.Delete)

		// Service catalog
		r.Get("/api/services", h.catalog.List)
		r.Get("/api/services/{id}", h.catalog.Get)
		r.Post("/api/services", h.catalog.Create)
		r.Patch("/api/services/{id}", h.catalog.Update)
		r.Delete("/api/services/{id}", h.catalog.Delete)

		// Usage records
		r.Get("/api/usages", h.usages.List)
		r.Get("/api/usages/{id}", h.usages.Get)

		// Devices
		r.Get("/api/devices", h.devices.List)
		r.Get("/api/devices/{id}", h.devices.Get)
		r.Patch("/api/devices/{id}", h.devices.Update)
		r.Delete("/api/devices/{id}", h.devices.Delete)

		// Payments
		r.Get("/api/payments", h.payments.List)
		r.Get("/api/payments/{id}", h.payments.Get)
		r.Post("/api/payments", h.payments.Create)
		r.Delete("/api/payments/{id}", h.payments.Delete)
	})

	return r
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "password is required"})
		return
	}

	token, err := h.adminService.Login(r.Context(), req.Password)
	if err != nil {
		log.Error().Err(err).Msg("admin login error")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Login failed"})
		return
	}

	if token == "" {
		audit.LogFromRequest(r, audit.Event{Type: audit.EventLoginFailure})
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid password"})
		return
	}

	audit.LogFromRequest(r, audit.Event{Type: audit.EventLoginSuccess})
	middleware.SetSessionCookie(w, middleware.AdminSessionCookie, token, "/admin", h.isProduction)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.AdminSessionCookie)
	if err == nil && cookie.Value != "" {
		if err := h.adminService.Logout(r.Context(), cookie.Value); err != nil {
			log.Warn().Err(err).Msg("admin logout error")
		}
		audit.LogFromRequest(r, audit.Event{Type: audit.EventLogout})
	}

	middleware.ClearSessionCookie(w, middleware.AdminSessionCookie, "/admin")
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.GetStats(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to get stats")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
