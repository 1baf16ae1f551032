package service

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	apperrors "github.com/shegergsm/lookup-gateway/internal/errors"
	"github.com/shegergsm/lookup-gateway/internal/model"
	"github.com/shegergsm/lookup-gateway/internal/repository"
)

type QuotaService struct {
	accountRepo repository.AccountRepository
}

func NewQuotaService(accountRepo repository.AccountRepository) *QuotaService {
	return &QuotaService{accountRepo: accountRepo}
}

// Authorize checks the free credit balance before a lookup is attempted.
// It does not reserve anything; the debit happens in Commit after the
// provider call, and only on success.
func (s *QuotaService) Authorize(account *model.Account) error {
	if account.FreeCredits <= 0 {
		return apperrors.QuotaDenied()
	}
	return nil
}

// Commit debits one free credit on a successful lookup. The conditional
// update guards against the balance having been drained by a concurrent
// lookup between Authorize and Commit.
func (s *QuotaService) Commit(ctx context.Context, tx *sqlx.Tx, accountID int64, success bool) (bool, error) {
	if !success {
		return false, nil
	}

	repo := s.accountRepo
	if tx != nil {
		repo = repo.WithTx(tx)
	}

	debited, err := repo.DebitFreeCredit(ctx, accountID)
	if err != nil {
		return false, err
	}
	if !debited {
		log.Warn().
			Int64("account_id", accountID).
			Msg("credit balance drained between authorize and commit")
	}
	return debited, nil
}
