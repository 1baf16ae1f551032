package service

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/shegergsm/lookup-gateway/internal/database"
	apperrors "github.com/shegergsm/lookup-gateway/internal/errors"
	"github.com/shegergsm/lookup-gateway/internal/model"
	"github.com/shegergsm/lookup-gateway/internal/repository"
	"github.com/shegergsm/lookup-gateway/internal/util"
)

// FailureClass distinguishes how a lookup went wrong, which drives both
// the HTTP mapping and whether a credit is consumed.
type FailureClass int

const (
	// FailureNone means the lookup succeeded.
	FailureNone FailureClass = iota
	// FailureLogical means the provider answered but reported a failed
	// lookup in the response body.
	FailureLogical
	// FailureProviderStatus means the provider answered with a non-2xx
	// HTTP status.
	FailureProviderStatus
	// FailureUnreachable means the provider could not be reached at all.
	FailureUnreachable
)

type LookupParams struct {
	ExternalID       int64
	ServiceCode      string
	DeviceIdentifier string
	Username         *string
}

type LookupResult struct {
	Success bool
	Payload any
	Message string
	Class   FailureClass
}

// txRunner is the slice of database.DB the orchestrator needs. Tests
// provide a stub that runs the function without a real transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn database.TxFunc) error
}

type LookupService struct {
	db          txRunner
	accounts    *AccountService
	quota       *QuotaService
	catalog     *CatalogService
	gateway     ProviderCaller
	usageRepo   repository.UsageRepository
	deviceRepo  repository.DeviceRepository
}

func NewLookupService(
	db txRunner,
	accounts *AccountService,
	quota *QuotaService,
	catalog *CatalogService,
	gateway ProviderCaller,
	usageRepo repository.UsageRepository,
	deviceRepo repository.DeviceRepository,
) *LookupService {
	return &LookupService{
		db:         db,
		accounts:   accounts,
		quota:      quota,
		catalog:    catalog,
		gateway:    gateway,
		usageRepo:  usageRepo,
		deviceRepo: deviceRepo,
	}
}

// Lookup runs the full pipeline: resolve the account, check quota,
// resolve the service, call the provider, classify, then settle usage
// and quota in a single transaction. A credit is consumed only on a
// successful lookup; the usage record is written either way once the
// provider was actually called.
func (s *LookupService) Lookup(ctx context.Context, params LookupParams) (*LookupResult, error) {
	deviceID := strings.TrimSpace(params.DeviceIdentifier)
	if !util.IsValidDeviceIdentifier(deviceID) {
		return nil, apperrors.InvalidInput("imei", "must be a non-empty identifier without whitespace")
	}
	if strings.TrimSpace(params.ServiceCode) == "" {
		return nil, apperrors.MissingRequired("service")
	}

	account, err := s.accounts.Resolve(ctx, params.ExternalID, params.Username)
	if err != nil {
		return nil, err
	}

	if err := s.quota.Authorize(account); err != nil {
		return nil, err
	}

	svc, err := s.catalog.LookupByCode(ctx, params.ServiceCode)
	if err != nil {
		return nil, err
	}

	resp, err := s.gateway.Call(ctx, svc.Endpoint, svc.Secret, deviceID)
	if err != nil {
		// The provider never answered, but the attempt still counts:
		// a failed usage record and the device pair are persisted.
		if serr := s.settle(ctx, account.ID, svc.ID, deviceID, false); serr != nil {
			return nil, apperrors.Database(serr)
		}
		return nil, err
	}

	result := classifyResponse(resp)

	if err := s.settle(ctx, account.ID, svc.ID, deviceID, result.Success); err != nil {
		return nil, apperrors.Database(err)
	}

	log.Info().
		Int64("account_id", account.ID).
		Str("service", svc.Code).
		Bool("success", result.Success).
		Int("provider_status", resp.StatusCode).
		Msg("lookup completed")

	return result, nil
}

// settle writes the usage record and registers the device regardless of
// outcome; the credit debit happens only on success. All in one
// transaction.
func (s *LookupService) settle(ctx context.Context, accountID, serviceID int64, deviceID string, success bool) error {
	return s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		usageRepo := s.usageRepo
		deviceRepo := s.deviceRepo
		if tx != nil {
			usageRepo = usageRepo.WithTx(tx)
			deviceRepo = deviceRepo.WithTx(tx)
		}

		if _, err := usageRepo.Create(ctx, model.CreateUsageRecordParams{
			AccountID:        accountID,
			ServiceID:        serviceID,
			DeviceIdentifier: deviceID,
			Success:          success,
		}); err != nil {
			return err
		}

		created, err := deviceRepo.Upsert(ctx, accountID, deviceID)
		if err != nil {
			return err
		}
		if created {
			log.Debug().
				Int64("account_id", accountID).
				Msg("device registered")
		}

		if !success {
			return nil
		}

		if _, err := s.quota.Commit(ctx, tx, accountID, true); err != nil {
			return err
		}
		return nil
	})
}

func classifyResponse(resp *ProviderResponse) *LookupResult {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &LookupResult{
			Success: false,
			Message: apperrors.ProviderError(resp.StatusCode).Message,
			Class:   FailureProviderStatus,
		}
	}

	if resp.Body == nil {
		raw := resp.Raw
		if len(raw) > 100 {
			raw = raw[:100]
		}
		return &LookupResult{
			Success: false,
			Message: "Provider returned invalid JSON: " + raw,
			Class:   FailureLogical,
		}
	}

	outcome := Classify(resp.Body)
	if !outcome.Success {
		return &LookupResult{
			Success: false,
			Message: outcome.Message,
			Class:   FailureLogical,
		}
	}

	return &LookupResult{
		Success: true,
		Payload: outcome.Payload,
		Class:   FailureNone,
	}
}
