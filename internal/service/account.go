package service

import (
	"context"

	"github.com/rs/zerolog/log"

	apperrors "github.com/shegergsm/lookup-gateway/internal/errors"
	"github.com/shegergsm/lookup-gateway/internal/model"
	"github.com/shegergsm/lookup-gateway/internal/repository"
)

type AccountService struct {
	accountRepo       repository.AccountRepository
	signupFreeCredits int
}

func NewAccountService(accountRepo repository.AccountRepository, signupFreeCredits int) *AccountService {
	return &AccountService{
		accountRepo:       accountRepo,
		signupFreeCredits: signupFreeCredits,
	}
}

// Resolve finds the account for an external caller ID, creating it with
// the signup credit grant on first contact. A supplied username is kept
// fresh on the stored record.
func (s *AccountService) Resolve(ctx context.Context, externalID int64, username *string) (*model.Account, error) {
	account, err := s.accountRepo.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, apperrors.AccountUnavailable(err)
	}

	if account == nil {
		account, err = s.accountRepo.Create(ctx, model.CreateAccountParams{
			ExternalID:  externalID,
			Username:    username,
			Registered:  true,
			FreeCredits: s.signupFreeCredits,
		})
		if err != nil {
			return nil, apperrors.AccountUnavailable(err)
		}
		log.Info().
			Int64("account_id", account.ID).
			Int64("external_id", externalID).
			Int("free_credits", account.FreeCredits).
			Msg("account created")
		return account, nil
	}

	if username != nil && *username != "" && (account.Username == nil || *account.Username != *username) {
		if err := s.accountRepo.UpdateUsername(ctx, account.ID, *username); err != nil {
			// Username refresh is best effort; the lookup proceeds.
			log.Warn().Err(err).Int64("account_id", account.ID).Msg("failed to refresh username")
		} else {
			account.Username = username
		}
	}

	return account, nil
}

func (s *AccountService) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	return s.accountRepo.FindByID(ctx, id)
}

func (s *AccountService) List(ctx context.Context, limit, offset int) ([]model.Account, error) {
	return s.accountRepo.FindAll(ctx, limit, offset)
}

func (s *AccountService) Update(ctx context.Context, id int64, params model.UpdateAccountParams) (*model.Account, error) {
	if params.FreeCredits != nil && *params.FreeCredits < 0 {
		return nil, apperrors.InvalidInput("freeCredits", "must not be negative")
	}
	if params.PaidCredits != nil && *params.PaidCredits < 0 {
		return nil, apperrors.InvalidInput("paidCredits", "must not be negative")
	}
	account, err := s.accountRepo.Update(ctx, id, params)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperrors.NotFound("account")
	}
	return account, nil
}

func (s *AccountService) SetFreeCredits(ctx context.Context, id int64, credits int) (*model.Account, error) {
	if credits < 0 {
		return nil, apperrors.InvalidInput("credits", "must not be negative")
	}
	account, err := s.accountRepo.SetFreeCredits(ctx, id, credits)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperrors.NotFound("account")
	}
	return account, nil
}

func (s *AccountService) Delete(ctx context.Context, id int64) error {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if account == nil {
		return apperrors.NotFound("account")
	}
	return s.accountRepo.Delete(ctx, id)
}
