package service

import (
	"context"
	"time"

	"github.com/shegergsm/lookup-gateway/internal/model"
	"github.com/shegergsm/lookup-gateway/internal/repository"
	"github.com/shegergsm/lookup-gateway/internal/util"
)

const adminSessionTTL = 24 * time.Hour

type AdminService struct {
	sessionRepo       repository.AdminSessionRepository
	accountRepo       repository.AccountRepository
	serviceRepo       repository.ServiceRepository
	usageRepo         repository.UsageRepository
	deviceRepo        repository.DeviceRepository
	paymentRepo       repository.PaymentRepository
	adminPasswordHash string
	sessionSecret     string
}

func NewAdminService(
	sessionRepo repository.AdminSessionRepository,
	accountRepo repository.AccountRepository,
	serviceRepo repository.ServiceRepository,
	usageRepo repository.UsageRepository,
	deviceRepo repository.DeviceRepository,
	paymentRepo repository.PaymentRepository,
	adminPasswordHash, sessionSecret string,
) *AdminService {
	return &AdminService{
		sessionRepo:       sessionRepo,
		accountRepo:       accountRepo,
		serviceRepo:       serviceRepo,
		usageRepo:         usageRepo,
		deviceRepo:        deviceRepo,
		paymentRepo:       paymentRepo,
		adminPasswordHash: adminPasswordHash,
		sessionSecret:     sessionSecret,
	}
}

// Login verifies the admin password and mints a session token. An empty
// token with a nil error means the password was wrong. The console stays
// closed entirely when no password hash is configured.
func (s *AdminService) Login(ctx context.Context, password string) (string, error) {
	if s.adminPasswordHash == "" {
		return "", nil
	}
	if !util.CheckPasswordHash(password, s.adminPasswordHash) {
		return "", nil
	}

	token, err := util.GenerateToken()
	if err != nil {
		return "", err
	}

	tokenHash := util.HmacSHA256(s.sessionSecret, token)
	_, err = s.sessionRepo.Create(ctx, model.CreateAdminSessionParams{
		TokenHash: tokenHash,
		ExpiresAt: time.Now().Add(adminSessionTTL),
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

// ValidateSession checks whether the token belongs to a live session.
func (s *AdminService) ValidateSession(ctx context.Context, token string) (bool, error) {
	tokenHash := util.HmacSHA256(s.sessionSecret, token)
	sess, err := s.sessionRepo.FindByTokenHash(ctx, tokenHash)
	if err != nil {
		return false, err
	}
	return sess != nil, nil
}

func (s *AdminService) Logout(ctx context.Context, token string) error {
	tokenHash := util.HmacSHA256(s.sessionSecret, token)
	return s.sessionRepo.DeleteByTokenHash(ctx, tokenHash)
}

// Stats is the snapshot served on the admin status endpoint.
type Stats struct {
	Accounts      int                 `json:"accounts"`
	Services      int                 `json:"services"`
	Lookups       int                 `json:"lookups"`
	Devices       int                 `json:"devices"`
	Payments      int                 `json:"payments"`
	PaymentsTotal float64             `json:"payments_total"`
	RecentUsages  []model.UsageRecord `json:"recent_usages"`
}

func (s *AdminService) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	var err error

	if stats.Accounts, err = s.accountRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Services, err = s.serviceRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Lookups, err = s.usageRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Devices, err = s.deviceRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Payments, err = s.paymentRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.PaymentsTotal, err = s.paymentRepo.SumAmount(ctx); err != nil {
		return nil, err
	}
	if stats.RecentUsages, err = s.usageRepo.FindAll(ctx, 10, 0); err != nil {
		return nil, err
	}
	if stats.RecentUsages == nil {
		stats.RecentUsages = []model.UsageRecord{}
	}

	return stats, nil
}
