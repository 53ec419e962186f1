package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aldanj/msp-engagements/internal/config"
	"github.com/aldanj/msp-engagements/internal/model"
	"github.com/aldanj/msp-engagements/internal/query"
	"github.com/aldanj/msp-engagements/internal/repository"
)

type ContractService struct {
	contracts *repository.ContractRepository
	lookups   *repository.LookupRepository
	cfg       *config.Config
	log       zerolog.Logger
}

func NewContractService(
	contracts *repository.ContractRepository,
	lookups *repository.LookupRepository,
	cfg *config.Config,
	log zerolog.Logger,
) *ContractService {
	return &ContractService{contracts: contracts, lookups: lookups, cfg: cfg, log: log}
}

type CreateContractInput struct {
	Name               string
	ClientID           uuid.UUID
	StartDate          time.Time
	EndDate            time.Time
	RenewalDate        *time.Time
	Value              *float64
	DocumentLink       *string
	Notes              *string
	PreviousContractID *uuid.UUID
	Status             *model.ContractStatus
}

// UpdateContractInput is the explicit partial-update shape: every field is
// independently optional and only non-nil fields are applied.
type UpdateContractInput struct {
	Name               *string
	ClientID           *uuid.UUID
	StartDate          *time.Time
	EndDate            *time.Time
	RenewalDate        *time.Time
	Value              *float64
	DocumentLink       *string
	Notes              *string
	PreviousContractID *uuid.UUID
	Status             *model.ContractStatus
}

func (s *ContractService) Create(ctx context.Context, input CreateContractInput) (*model.Contract, error) {
	if err := validateContractName(input.Name); err != nil {
		return nil, err
	}
	if err := validateContractDates(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}
	if err := validateContractValue(input.Value); err != nil {
		return nil, err
	}

	status := model.ContractStatusDraft
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown contract status %q", ErrInvalidInput, *input.Status)
		}
		status = *input.Status
	}

	if _, err := s.lookups.GetClient(ctx, input.ClientID); err != nil {
		return nil, resolveErr(err, "client", input.ClientID)
	}
	if input.PreviousContractID != nil {
		if _, err := s.contracts.GetByID(ctx, *input.PreviousContractID); err != nil {
			return nil, resolveErr(err, "contract", *input.PreviousContractID)
		}
	}

	taken, err := s.contracts.NameExists(ctx, input.Name, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: contract name %q already exists", ErrConflict, input.Name)
	}

	contract := &model.Contract{
		ID:                 uuid.New(),
		Name:               input.Name,
		ClientID:           input.ClientID,
		StartDate:          input.StartDate,
		EndDate:            input.EndDate,
		RenewalDate:        input.RenewalDate,
		Value:              input.Value,
		DocumentLink:       input.DocumentLink,
		Notes:              input.Notes,
		PreviousContractID: input.PreviousContractID,
		Status:             status,
	}
	if err := s.contracts.Create(ctx, contract); err != nil {
		return nil, writeErr(err, fmt.Sprintf("contract name %q already exists", input.Name))
	}

	return s.contracts.GetByID(ctx, contract.ID)
}

func (s *ContractService) Get(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	contract, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, resolveErr(err, "contract", id)
	}
	return contract, nil
}

func (s *ContractService) List(ctx context.Context, filter repository.ContractFilter, page, limit int) (*query.Result[model.Contract], error) {
	p := query.NewPagination(page, limit, s.cfg.Lists.DefaultLimit, s.cfg.Lists.MaxLimit)
	return s.contracts.List(ctx, filter, p)
}

func (s *ContractService) Update(ctx context.Context, id uuid.UUID, input UpdateContractInput) (*model.Contract, error) {
	contract, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, resolveErr(err, "contract", id)
	}

	if input.Name != nil && *input.Name != contract.Name {
		if err := validateContractName(*input.Name); err != nil {
			return nil, err
		}
		taken, err := s.contracts.NameExists(ctx, *input.Name, &id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: contract name %q already exists", ErrConflict, *input.Name)
		}
		contract.Name = *input.Name
	}

	if input.ClientID != nil {
		if _, err := s.lookups.GetClient(ctx, *input.ClientID); err != nil {
			return nil, resolveErr(err, "client", *input.ClientID)
		}
		contract.ClientID = *input.ClientID
	}
	if input.PreviousContractID != nil {
		if _, err := s.contracts.GetByID(ctx, *input.PreviousContractID); err != nil {
			return nil, resolveErr(err, "contract", *input.PreviousContractID)
		}
		contract.PreviousContractID = input.PreviousContractID
	}

	start := contract.StartDate
	if input.StartDate != nil {
		start = *input.StartDate
	}
	end := contract.EndDate
	if input.EndDate != nil {
		end = *input.EndDate
	}
	if err := validateContractDates(start, end); err != nil {
		return nil, err
	}
	contract.StartDate = start
	contract.EndDate = end

	if input.RenewalDate != nil {
		contract.RenewalDate = input.RenewalDate
	}
	if input.Value != nil {
		if err := validateContractValue(input.Value); err != nil {
			return nil, err
		}
		contract.Value = input.Value
	}
	if input.DocumentLink != nil {
		contract.DocumentLink = input.DocumentLink
	}
	if input.Notes != nil {
		contract.Notes = input.Notes
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown contract status %q", ErrInvalidInput, *input.Status)
		}
		contract.Status = *input.Status
	}

	if err := s.contracts.Update(ctx, contract); err != nil {
		return nil, writeErr(err, fmt.Sprintf("contract name %q already exists", contract.Name))
	}

	return s.contracts.GetByID(ctx, id)
}

// Export returns the contracts matching the filter together with their
// active-scope totals, for the portfolio spreadsheet. Capped at 10000 rows.
func (s *ContractService) Export(ctx context.Context, filter repository.ContractFilter) ([]model.Contract, map[uuid.UUID]float64, error) {
	result, err := s.contracts.List(ctx, filter, query.Pagination{Page: 1, Limit: 10000})
	if err != nil {
		return nil, nil, err
	}

	totals := make(map[uuid.UUID]float64, len(result.Data))
	for _, contract := range result.Data {
		total, err := s.contracts.SumActiveScopes(ctx, contract.ID)
		if err != nil {
			return nil, nil, err
		}
		totals[contract.ID] = total
	}
	return result.Data, totals, nil
}

// Total returns the aggregate value of the contract's active scopes.
func (s *ContractService) Total(ctx context.Context, id uuid.UUID) (float64, error) {
	if _, err := s.contracts.GetByID(ctx, id); err != nil {
		return 0, resolveErr(err, "contract", id)
	}
	return s.contracts.SumActiveScopes(ctx, id)
}
