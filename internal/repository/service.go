package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/shegergsm/lookup-gateway/internal/model"
)

type ServiceRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Service, error)
	FindByCode(ctx context.Context, code string) (*model.Service, error)
	FindAll(ctx context.Context) ([]model.Service, error)
	Create(ctx context.Context, params model.CreateServiceParams) (*model.Service, error)
	Update(ctx context.Context, id int64, params model.UpdateServiceParams) (*model.Service, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type serviceRepo struct {
	db sqlxDB
}

func NewServiceRepository(db *sqlx.DB) ServiceRepository {
	return &serviceRepo{db: db}
}

func (r *serviceRepo) FindByID(ctx context.Context, id int64) (*model.Service, error) {
	var svc model.Service
	err := r.db.GetContext(ctx, &svc, `
		SELECT * FROM services WHERE id = $1
	`, id)
	return HandleNotFound(&svc, err)
}

func (r *serviceRepo) FindByCode(ctx context.Context, code string) (*model.Service, error) {
	var svc model.Service
	err := r.db.GetContext(ctx, &svc, `
		SELECT * FROM services WHERE code = $1
	`, code)
	return HandleNotFound(&svc, err)
}

func (r *serviceRepo) FindAll(ctx context.Context) ([]model.Service, error) {
	var svcs []model.Service
	err := r.db.SelectContext(ctx, &svcs, `
		SELECT * FROM services
		ORDER BY group_name ASC, name ASC
	`)
	if err != nil {
		return nil, err
	}
	return svcs, nil
}

func (r *serviceRepo) Create(ctx context.Context, params model.CreateServiceParams) (*model.Service, error) {
	var svc model.Service
	err := r.db.GetContext(ctx, &svc, `
		INSERT INTO services (code, name, description, endpoint, secret, is_public, group_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING *
	`, params.Code, params.Name, params.Description, params.Endpoint, params.Secret, params.IsPublic, params.Group)
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *serviceRepo) Update(ctx context.Context, id int64, params model.UpdateServiceParams) (*model.Service, error) {
	var svc model.Service
	err := r.db.GetContext(ctx, &svc, `
		UPDATE services SET
			code = COALESCE($2, code),
			name = COALESCE($3, name),
			description = COALESCE($4, description),
			endpoint = COALESCE($5, endpoint),
			secret = COALESCE($6, secret),
			is_public = COALESCE($7, is_public),
			group_name = COALESCE($8, group_name)
		WHERE id = $1
		RETURNING *
	`, id, params.Code, params.Name, params.Description, params.Endpoint, params.Secret, params.IsPublic, params.Group)
	return HandleNotFound(&svc, err)
}

func (r *serviceRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	return err
}

func (r *serviceRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM services`)
	return count, err
}
