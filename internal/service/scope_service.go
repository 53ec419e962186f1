package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/aldanj/msp-engagements/internal/config"
	"github.com/aldanj/msp-engagements/internal/customfields"
	"github.com/aldanj/msp-engagements/internal/model"
	"github.com/aldanj/msp-engagements/internal/query"
	"github.com/aldanj/msp-engagements/internal/repository"
)

type ScopeService struct {
	scopes    *repository.ScopeRepository
	contracts *repository.ContractRepository
	proposals *repository.ProposalRepository
	lookups   *repository.LookupRepository
	fields    *customfields.Catalog
	cfg       *config.Config
	log       zerolog.Logger
}

func NewScopeService(
	scopes *repository.ScopeRepository,
	contracts *repository.ContractRepository,
	proposals *repository.ProposalRepository,
	lookups *repository.LookupRepository,
	fields *customfields.Catalog,
	cfg *config.Config,
	log zerolog.Logger,
) *ScopeService {
	return &ScopeService{
		scopes:    scopes,
		contracts: contracts,
		proposals: proposals,
		lookups:   lookups,
		fields:    fields,
		cfg:       cfg,
		log:       log,
	}
}

type CreateScopeInput struct {
	ContractID          uuid.UUID
	ServiceID           uuid.UUID
	ScopeDetails        map[string]any
	Price               *float64
	Quantity            *int
	Unit                *string
	Notes               *string
	SAFStatus           *model.SAFStatus
	SAFServiceStartDate *time.Time
	SAFServiceEndDate   *time.Time
	SAFDocumentLink     *string
}

type UpdateScopeInput struct {
	ScopeDetails        map[string]any
	Price               *float64
	Quantity            *int
	Unit                *string
	Notes               *string
	IsActive            *bool
	SAFStatus           *model.SAFStatus
	SAFServiceStartDate *time.Time
	SAFServiceEndDate   *time.Time
	SAFDocumentLink     *string
}

func (s *ScopeService) Create(ctx context.Context, input CreateScopeInput) (*model.ServiceScope, error) {
	if err := validateScopePricing(input.Price, input.Quantity); err != nil {
		return nil, err
	}
	if err := validateSAFDates(input.SAFServiceStartDate, input.SAFServiceEndDate); err != nil {
		return nil, err
	}

	safStatus := model.SAFStatusNotInitiated
	if input.SAFStatus != nil {
		if !input.SAFStatus.Valid() {
			return nil, fmt.Errorf("%w: unknown SAF status %q", ErrInvalidInput, *input.SAFStatus)
		}
		safStatus = *input.SAFStatus
	}

	if _, err := s.contracts.GetByID(ctx, input.ContractID); err != nil {
		return nil, resolveErr(err, "contract", input.ContractID)
	}
	if _, err := s.lookups.GetService(ctx, input.ServiceID); err != nil {
		return nil, resolveErr(err, "service", input.ServiceID)
	}

	duplicate, err := s.scopes.PairExists(ctx, input.ContractID, input.ServiceID, nil)
	if err != nil {
		return nil, err
	}
	if duplicate {
		return nil, fmt.Errorf("%w: service %s is already in contract %s",
			ErrConflict, input.ServiceID, input.ContractID)
	}

	details, err := s.validateDetails(ctx, input.ScopeDetails)
	if err != nil {
		return nil, err
	}

	scope := &model.ServiceScope{
		ID:                  uuid.New(),
		ContractID:          input.ContractID,
		ServiceID:           input.ServiceID,
		ScopeDetails:        datatypes.JSONMap(details),
		Price:               input.Price,
		Quantity:            input.Quantity,
		Unit:                input.Unit,
		Notes:               input.Notes,
		IsActive:            true,
		SAFStatus:           safStatus,
		SAFServiceStartDate: input.SAFServiceStartDate,
		SAFServiceEndDate:   input.SAFServiceEndDate,
		SAFDocumentLink:     input.SAFDocumentLink,
	}
	if err := s.scopes.Create(ctx, scope); err != nil {
		return nil, writeErr(err, fmt.Sprintf("service %s is already in contract %s",
			input.ServiceID, input.ContractID))
	}

	return s.scopes.GetByID(ctx, scope.ID)
}

func (s *ScopeService) Get(ctx context.Context, id uuid.UUID) (*model.ServiceScope, error) {
	scope, err := s.scopes.GetByID(ctx, id)
	if err != nil {
		return nil, resolveErr(err, "service scope", id)
	}
	return scope, nil
}

func (s *ScopeService) List(ctx context.Context, filter repository.ScopeFilter, page, limit int) (*query.Result[model.ServiceScope], error) {
	p := query.NewPagination(page, limit, s.cfg.Lists.DefaultLimit, s.cfg.Lists.MaxLimit)
	return s.scopes.List(ctx, filter, p)
}

func (s *ScopeService) Update(ctx context.Context, id uuid.UUID, input UpdateScopeInput) (*model.ServiceScope, error) {
	scope, err := s.scopes.GetByID(ctx, id)
	if err != nil {
		return nil, resolveErr(err, "service scope", id)
	}

	price := scope.Price
	if input.Price != nil {
		price = input.Price
	}
	quantity := scope.Quantity
	if input.Quantity != nil {
		quantity = input.Quantity
	}
	if err := validateScopePricing(price, quantity); err != nil {
		return nil, err
	}
	scope.Price = price
	scope.Quantity = quantity

	safStart := scope.SAFServiceStartDate
	if input.SAFServiceStartDate != nil {
		safStart = input.SAFServiceStartDate
	}
	safEnd := scope.SAFServiceEndDate
	if input.SAFServiceEndDate != nil {
		safEnd = input.SAFServiceEndDate
	}
	if err := validateSAFDates(safStart, safEnd); err != nil {
		return nil, err
	}
	scope.SAFServiceStartDate = safStart
	scope.SAFServiceEndDate = safEnd

	if input.SAFStatus != nil {
		if !input.SAFStatus.Valid() {
			return nil, fmt.Errorf("%w: unknown SAF status %q", ErrInvalidInput, *input.SAFStatus)
		}
		scope.SAFStatus = *input.SAFStatus
	}
	if input.SAFDocumentLink != nil {
		scope.SAFDocumentLink = input.SAFDocumentLink
	}
	if input.Unit != nil {
		scope.Unit = input.Unit
	}
	if input.Notes != nil {
		scope.Notes = input.Notes
	}
	if input.IsActive != nil {
		scope.IsActive = *input.IsActive
	}

	if input.ScopeDetails != nil {
		validated, err := s.validateDetails(ctx, input.ScopeDetails)
		if err != nil {
			return nil, err
		}
		scope.ScopeDetails = datatypes.JSONMap(customfields.Merge(scope.ScopeDetails, validated))
	}

	if err := s.scopes.Update(ctx, scope); err != nil {
		return nil, writeErr(err, fmt.Sprintf("service %s is already in contract %s",
			scope.ServiceID, scope.ContractID))
	}

	return s.scopes.GetByID(ctx, id)
}

// Delete soft-deletes the scope by flipping isActive off.
func (s *ScopeService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.scopes.GetByID(ctx, id); err != nil {
		return resolveErr(err, "service scope", id)
	}
	return s.scopes.SoftDelete(ctx, id)
}

// HardDelete irreversibly removes the scope and its proposals. Blocked while
// any proposal of the scope is approved and past draft.
func (s *ScopeService) HardDelete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.scopes.GetByID(ctx, id); err != nil {
		return resolveErr(err, "service scope", id)
	}
	approved, err := s.proposals.CountApprovedInScope(ctx, id)
	if err != nil {
		return err
	}
	if approved > 0 {
		return fmt.Errorf("%w: scope %s has approved proposals and cannot be hard-deleted", ErrNotAllowed, id)
	}
	return s.scopes.HardDelete(ctx, id)
}

// validateDetails delegates the opaque scope configuration to the
// custom-field subsystem. With no registered definitions the payload passes
// through untouched; the shape is owned elsewhere.
func (s *ScopeService) validateDetails(ctx context.Context, payload map[string]any) (map[string]any, error) {
	if payload == nil {
		return nil, nil
	}
	defs, err := s.fields.DefinitionsFor(ctx, customfields.EntityKindServiceScope)
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return payload, nil
	}
	validated, err := customfields.Validate(payload, defs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	return validated, nil
}
