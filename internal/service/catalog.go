package service

import (
	"context"
	"strings"

	"github.com/lib/pq"

	apperrors "github.com/shegergsm/lookup-gateway/internal/errors"
	"github.com/shegergsm/lookup-gateway/internal/model"
	"github.com/shegergsm/lookup-gateway/internal/repository"
	"github.com/shegergsm/lookup-gateway/internal/util"
)

type CatalogService struct {
	serviceRepo repository.ServiceRepository
}

func NewCatalogService(serviceRepo repository.ServiceRepository) *CatalogService {
	return &CatalogService{serviceRepo: serviceRepo}
}

// LookupByCode resolves a service code for the lookup pipeline. Codes
// are matched case-insensitively.
func (s *CatalogService) LookupByCode(ctx context.Context, code string) (*model.Service, error) {
	svc, err := s.serviceRepo.FindByCode(ctx, strings.ToLower(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, apperrors.ServiceNotFound()
	}
	return svc, nil
}

func (s *CatalogService) GetByID(ctx context.Context, id int64) (*model.Service, error) {
	svc, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, apperrors.NotFound("service")
	}
	return svc, nil
}

// List returns catalog entries. When publicOnly is set, entries marked
// private are filtered out.
func (s *CatalogService) List(ctx context.Context, publicOnly bool) ([]model.Service, error) {
	svcs, err := s.serviceRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if !publicOnly {
		return svcs, nil
	}
	public := make([]model.Service, 0, len(svcs))
	for _, svc := range svcs {
		if svc.IsPublic {
			public = append(public, svc)
		}
	}
	return public, nil
}

// ListGrouped returns public catalog entries grouped by their group name,
// preserving the catalog ordering within each group.
func (s *CatalogService) ListGrouped(ctx context.Context) (map[string][]model.Service, error) {
	svcs, err := s.List(ctx, true)
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]model.Service)
	for _, svc := range svcs {
		grouped[svc.Group] = append(grouped[svc.Group], svc)
	}
	return grouped, nil
}

func (s *CatalogService) Create(ctx context.Context, params model.CreateServiceParams) (*model.Service, error) {
	params.Code = strings.ToLower(strings.TrimSpace(params.Code))
	if !util.IsValidServiceCode(params.Code) {
		return nil, apperrors.InvalidInput("code", "must be lowercase letters, digits, hyphens or underscores")
	}
	if params.Endpoint == "" {
		return nil, apperrors.MissingRequired("endpoint")
	}

	svc, err := s.serviceRepo.Create(ctx, params)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.AlreadyExists("service code already in use")
		}
		return nil, err
	}
	return svc, nil
}

func (s *CatalogService) Update(ctx context.Context, id int64, params model.UpdateServiceParams) (*model.Service, error) {
	if params.Code != nil {
		code := strings.ToLower(strings.TrimSpace(*params.Code))
		if !util.IsValidServiceCode(code) {
			return nil, apperrors.InvalidInput("code", "must be lowercase letters, digits, hyphens or underscores")
		}
		params.Code = &code
	}

	svc, err := s.serviceRepo.Update(ctx, id, params)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.AlreadyExists("service code already in use")
		}
		return nil, err
	}
	if svc == nil {
		return nil, apperrors.NotFound("service")
	}
	return svc, nil
}

func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	svc, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if svc == nil {
		return apperrors.NotFound("service")
	}
	return s.serviceRepo.Delete(ctx, id)
}

func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
