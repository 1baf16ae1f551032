package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/shegergsm/lookup-gateway/internal/model"
)

type UsageRepository interface {
	Create(ctx context.Context, params model.CreateUsageRecordParams) (*model.UsageRecord, error)
	FindByID(ctx context.Context, id int64) (*model.UsageRecord, error)
	FindAll(ctx context.Context, limit, offset int) ([]model.UsageRecord, error)
	FindByAccountID(ctx context.Context, accountID int64, limit, offset int) ([]model.UsageRecord, error)
	Count(ctx context.Context) (int, error)
	CountByAccountID(ctx context.Context, accountID int64) (int, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) UsageRepository
}

type usageRepo struct {
	db sqlxDB
}

func NewUsageRepository(db *sqlx.DB) UsageRepository {
	return &usageRepo{db: db}
}

func (r *usageRepo) WithTx(tx *sqlx.Tx) UsageRepository {
	return &usageRepo{db: tx}
}

func (r *usageRepo) Create(ctx context.Context, params model.CreateUsageRecordParams) (*model.UsageRecord, error) {
	var rec model.UsageRecord
	err := r.db.GetContext(ctx, &rec, `
		INSERT INTO usage_records (account_id, service_id, device_identifier, success, cost)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, params.AccountID, params.ServiceID, params.DeviceIdentifier, params.Success, params.Cost)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *usageRepo) FindByID(ctx context.Context, id int64) (*model.UsageRecord, error) {
	var rec model.UsageRecord
	err := r.db.GetContext(ctx, &rec, `
		SELECT * FROM usage_records WHERE id = $1
	`, id)
	return HandleNotFound(&rec, err)
}

func (r *usageRepo) FindAll(ctx context.Context, limit, offset int) ([]model.UsageRecord, error) {
	var recs []model.UsageRecord
	err := r.db.SelectContext(ctx, &recs, `
		SELECT * FROM usage_records
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *usageRepo) FindByAccountID(ctx context.Context, accountID int64, limit, offset int) ([]model.UsageRecord, error) {
	var recs []model.UsageRecord
	err := r.db.SelectContext(ctx, &recs, `
		SELECT * FROM usage_records
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *usageRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM usage_records`)
	return count, err
}

func (r *usageRepo) CountByAccountID(ctx context.Context, accountID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM usage_records WHERE account_id = $1
	`, accountID)
	return count, err
}
