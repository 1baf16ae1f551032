package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/shegergsm/lookup-gateway/internal/model"
)

type DeviceRepository interface {
	// Upsert records the device for the account if not already known.
	// Returns true when a new row was inserted.
	Upsert(ctx context.Context, accountID int64, deviceIdentifier string) (bool, error)
	FindByID(ctx context.Context, id int64) (*model.DeviceRecord, error)
	FindAll(ctx context.Context, limit, offset int) ([]model.DeviceRecord, error)
	FindByAccountID(ctx context.Context, accountID int64) ([]model.DeviceRecord, error)
	Update(ctx context.Context, id int64, params model.UpdateDeviceRecordParams) (*model.DeviceRecord, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) DeviceRepository
}

type deviceRepo struct {
	db sqlxDB
}

func NewDeviceRepository(db *sqlx.DB) DeviceRepository {
	return &deviceRepo{db: db}
}

func (r *deviceRepo) WithTx(tx *sqlx.Tx) DeviceRepository {
	return &deviceRepo{db: tx}
}

func (r *deviceRepo) Upsert(ctx context.Context, accountID int64, deviceIdentifier string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO devices (account_id, device_identifier)
		VALUES ($1, $2)
		ON CONFLICT (account_id, device_identifier) DO NOTHING
	`, accountID, deviceIdentifier)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *deviceRepo) FindByID(ctx context.Context, id int64) (*model.DeviceRecord, error) {
	var dev model.DeviceRecord
	err := r.db.GetContext(ctx, &dev, `
		SELECT * FROM devices WHERE id = $1
	`, id)
	return HandleNotFound(&dev, err)
}

func (r *deviceRepo) FindAll(ctx context.Context, limit, offset int) ([]model.DeviceRecord, error) {
	var devs []model.DeviceRecord
	err := r.db.SelectContext(ctx, &devs, `
		SELECT * FROM devices
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return devs, nil
}

func (r *deviceRepo) FindByAccountID(ctx context.Context, accountID int64) ([]model.DeviceRecord, error) {
	var devs []model.DeviceRecord
	err := r.db.SelectContext(ctx, &devs, `
		SELECT * FROM devices
		WHERE account_id = $1
		ORDER BY created_at DESC
	`, accountID)
	if err != nil {
		return nil, err
	}
	return devs, nil
}

func (r *deviceRepo) Update(ctx context.Context, id int64, params model.UpdateDeviceRecordParams) (*model.DeviceRecord, error) {
	var dev model.DeviceRecord
	err := r.db.GetContext(ctx, &dev, `
		UPDATE devices SET
			serial = COALESCE($2, serial),
			note = COALESCE($3, note)
		WHERE id = $1
		RETURNING *
	`, id, params.Serial, params.Note)
	return HandleNotFound(&dev, err)
}

func (r *deviceRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM devices WHERE id = $1`, id)
	return err
}

func (r *deviceRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM devices`)
	return count, err
}
