package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/shegergsm/lookup-gateway/internal/model"
)

type PaymentRepository interface {
	Create(ctx context.Context, params model.CreatePaymentParams) (*model.Payment, error)
	FindByID(ctx context.Context, id int64) (*model.Payment, error)
	FindAll(ctx context.Context, limit, offset int) ([]model.Payment, error)
	FindByAccountID(ctx context.Context, accountID int64) ([]model.Payment, error)
	Delete(ctx context.Context, id int64) error
	SumAmount(ctx context.Context) (float64, error)
	Count(ctx context.Context) (int, error)
}

type paymentRepo struct {
	db sqlxDB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) Create(ctx context.Context, params model.CreatePaymentParams) (*model.Payment, error) {
	var p model.Payment
	err := r.db.GetContext(ctx, &p, `
		INSERT INTO payments (account_id, amount, method, note)
		VALUES ($1, $2, $3, $4)
		RETURNING *
	`, params.AccountID, params.Amount, params.Method, params.Note)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepo) FindByID(ctx context.Context, id int64) (*model.Payment, error) {
	var p model.Payment
	err := r.db.GetContext(ctx, &p, `
		SELECT * FROM payments WHERE id = $1
	`, id)
	return HandleNotFound(&p, err)
}

func (r *paymentRepo) FindAll(ctx context.Context, limit, offset int) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.SelectContext(ctx, &payments, `
		SELECT * FROM payments
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepo) FindByAccountID(ctx context.Context, accountID int64) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.SelectContext(ctx, &payments, `
		SELECT * FROM payments
		WHERE account_id = $1
		ORDER BY created_at DESC
	`, accountID)
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	return err
}

func (r *paymentRepo) SumAmount(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(amount), 0) FROM payments
	`)
	return total, err
}

func (r *paymentRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM payments`)
	return count, err
}
