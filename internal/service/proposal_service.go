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

type ProposalService struct {
	proposals *repository.ProposalRepository
	scopes    *repository.ScopeRepository
	lookups   *repository.LookupRepository
	fields    *customfields.Catalog
	cfg       *config.Config
	log       zerolog.Logger
	now       func() time.Time
}

func NewProposalService(
	proposals *repository.ProposalRepository,
	scopes *repository.ScopeRepository,
	lookups *repository.LookupRepository,
	fields *customfields.Catalog,
	cfg *config.Config,
	log zerolog.Logger,
) *ProposalService {
	return &ProposalService{
		proposals: proposals,
		scopes:    scopes,
		lookups:   lookups,
		fields:    fields,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

type CreateProposalInput struct {
	ServiceScopeID        uuid.UUID
	ProposalType          model.ProposalType
	DocumentLink          string
	Version               *int
	Title                 *string
	Description           *string
	Notes                 *string
	ProposalValue         *float64
	Currency              *string
	EstimatedDurationDays *int
	ValidUntilDate        *time.Time
	SubmittedAt           *time.Time
	AssigneeUserID        *uuid.UUID
	CustomFieldData       map[string]any
}

type UpdateProposalInput struct {
	ServiceScopeID        *uuid.UUID
	ProposalType          *model.ProposalType
	DocumentLink          *string
	Version               *int
	Title                 *string
	Description           *string
	Notes                 *string
	ProposalValue         *float64
	Currency              *string
	EstimatedDurationDays *int
	ValidUntilDate        *time.Time
	SubmittedAt           *time.Time
	ApprovedAt            *time.Time
	AssigneeUserID        *uuid.UUID
	Status                *model.ProposalStatus
	CustomFieldData       map[string]any
}

// Create registers a proposal under a scope. pathScopeID is the
// scope-scoped route's path parameter; when present it must match the body's
// serviceScopeId.
func (s *ProposalService) Create(ctx context.Context, input CreateProposalInput, pathScopeID *uuid.UUID) (*model.Proposal, error) {
	if pathScopeID != nil && *pathScopeID != input.ServiceScopeID {
		return nil, fmt.Errorf("%w: serviceScopeId %s does not match the path scope %s",
			ErrInvalidInput, input.ServiceScopeID, *pathScopeID)
	}
	if !input.ProposalType.Valid() {
		return nil, fmt.Errorf("%w: unknown proposal type %q", ErrInvalidInput, input.ProposalType)
	}
	if err := validateDocumentLink(input.DocumentLink); err != nil {
		return nil, err
	}
	if err := validateDuration(input.EstimatedDurationDays); err != nil {
		return nil, err
	}
	if err := validateProposalDates(input.SubmittedAt, nil, input.ValidUntilDate, s.now()); err != nil {
		return nil, err
	}

	currency, defaulted, err := resolveCurrency(input.ProposalValue, input.Currency)
	if err != nil {
		return nil, err
	}
	if defaulted {
		s.log.Info().
			Str("scope_id", input.ServiceScopeID.String()).
			Str("currency", model.DefaultCurrency).
			Msg("proposal value without currency, defaulting")
	}

	if _, err := s.scopes.GetByID(ctx, input.ServiceScopeID); err != nil {
		return nil, resolveErr(err, "service scope", input.ServiceScopeID)
	}
	if input.AssigneeUserID != nil {
		if _, err := s.lookups.GetUser(ctx, *input.AssigneeUserID); err != nil {
			return nil, resolveErr(err, "user", *input.AssigneeUserID)
		}
	}

	fieldData, err := s.validateFields(ctx, input.CustomFieldData)
	if err != nil {
		return nil, err
	}

	proposal := &model.Proposal{
		ID:                    uuid.New(),
		ServiceScopeID:        input.ServiceScopeID,
		ProposalType:          input.ProposalType,
		DocumentLink:          input.DocumentLink,
		Version:               input.Version,
		Title:                 input.Title,
		Description:           input.Description,
		Notes:                 input.Notes,
		ProposalValue:         input.ProposalValue,
		Currency:              currency,
		EstimatedDurationDays: input.EstimatedDurationDays,
		ValidUntilDate:        input.ValidUntilDate,
		SubmittedAt:           input.SubmittedAt,
		AssigneeUserID:        input.AssigneeUserID,
		Status:                model.ProposalStatusDraft,
		CustomFieldData:       datatypes.JSONMap(fieldData),
	}
	if err := s.proposals.Create(ctx, proposal); err != nil {
		return nil, err
	}

	return s.proposals.GetByID(ctx, proposal.ID)
}

func (s *ProposalService) Get(ctx context.Context, id uuid.UUID) (*model.Proposal, error) {
	proposal, err := s.proposals.GetByID(ctx, id)
	if err != nil {
		return nil, resolveErr(err, "proposal", id)
	}
	return proposal, nil
}

func (s *ProposalService) List(ctx context.Context, filter repository.ProposalFilter, page, limit int) (*query.Result[model.Proposal], error) {
	p := query.NewPagination(page, limit, s.cfg.Lists.ProposalDefaultLimit, s.cfg.Lists.MaxLimit)
	return s.proposals.List(ctx, filter, p)
}

func (s *ProposalService) Update(ctx context.Context, id uuid.UUID, input UpdateProposalInput) (*model.Proposal, error) {
	proposal, err := s.proposals.GetByID(ctx, id)
	if err != nil {
		return nil, resolveErr(err, "proposal", id)
	}

	// The owning scope is immutable once the proposal exists.
	if input.ServiceScopeID != nil && *input.ServiceScopeID != proposal.ServiceScopeID {
		return nil, fmt.Errorf("%w: serviceScopeId cannot be changed", ErrInvalidInput)
	}

	if input.ProposalType != nil {
		if !input.ProposalType.Valid() {
			return nil, fmt.Errorf("%w: unknown proposal type %q", ErrInvalidInput, *input.ProposalType)
		}
		proposal.ProposalType = *input.ProposalType
	}
	if input.DocumentLink != nil {
		if err := validateDocumentLink(*input.DocumentLink); err != nil {
			return nil, err
		}
		proposal.DocumentLink = *input.DocumentLink
	}
	if input.EstimatedDurationDays != nil {
		if err := validateDuration(input.EstimatedDurationDays); err != nil {
			return nil, err
		}
		proposal.EstimatedDurationDays = input.EstimatedDurationDays
	}

	// Date consistency runs against the effective values: incoming where
	// provided, stored otherwise.
	submittedAt := proposal.SubmittedAt
	if input.SubmittedAt != nil {
		submittedAt = input.SubmittedAt
	}
	approvedAt := proposal.ApprovedAt
	if input.ApprovedAt != nil {
		approvedAt = input.ApprovedAt
	}
	validUntil := proposal.ValidUntilDate
	if input.ValidUntilDate != nil {
		validUntil = input.ValidUntilDate
	}
	if err := validateProposalDates(submittedAt, approvedAt, validUntil, s.now()); err != nil {
		return nil, err
	}
	proposal.SubmittedAt = submittedAt
	proposal.ApprovedAt = approvedAt
	proposal.ValidUntilDate = validUntil

	value := proposal.ProposalValue
	if input.ProposalValue != nil {
		value = input.ProposalValue
	}
	currencyInput := proposal.Currency
	if input.Currency != nil {
		currencyInput = input.Currency
	}
	currency, defaulted, err := resolveCurrency(value, currencyInput)
	if err != nil {
		return nil, err
	}
	if defaulted {
		s.log.Info().
			Str("proposal_id", id.String()).
			Str("currency", model.DefaultCurrency).
			Msg("proposal value without currency, defaulting")
	}
	proposal.ProposalValue = value
	proposal.Currency = currency

	if input.AssigneeUserID != nil {
		if _, err := s.lookups.GetUser(ctx, *input.AssigneeUserID); err != nil {
			return nil, resolveErr(err, "user", *input.AssigneeUserID)
		}
		proposal.AssigneeUserID = input.AssigneeUserID
	}

	if input.Status != nil && *input.Status != proposal.Status {
		if !input.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown proposal status %q", ErrInvalidInput, *input.Status)
		}
		if !model.CanTransition(proposal.Status, *input.Status) {
			return nil, fmt.Errorf("%w: cannot transition proposal from %q to %q, allowed: %v",
				ErrInvalidInput, proposal.Status, *input.Status,
				model.AllowedTransitions(proposal.Status))
		}
		proposal.Status = *input.Status
	}

	if input.Version != nil {
		proposal.Version = input.Version
	}
	if input.Title != nil {
		proposal.Title = input.Title
	}
	if input.Description != nil {
		proposal.Description = input.Description
	}
	if input.Notes != nil {
		proposal.Notes = input.Notes
	}

	if input.CustomFieldData != nil {
		validated, err := s.validateFields(ctx, input.CustomFieldData)
		if err != nil {
			return nil, err
		}
		proposal.CustomFieldData = datatypes.JSONMap(customfields.Merge(proposal.CustomFieldData, validated))
	}

	if err := s.proposals.Update(ctx, proposal); err != nil {
		return nil, err
	}

	return s.proposals.GetByID(ctx, id)
}

// Delete removes a proposal. An approved proposal that is past draft is
// protected; this is a business guard on top of the transition table.
func (s *ProposalService) Delete(ctx context.Context, id uuid.UUID) error {
	proposal, err := s.proposals.GetByID(ctx, id)
	if err != nil {
		return resolveErr(err, "proposal", id)
	}
	if proposal.IsApproved() && !proposal.IsDraft() {
		return fmt.Errorf("%w: proposal %s is approved and cannot be deleted", ErrNotAllowed, id)
	}
	return s.proposals.Delete(ctx, id)
}

func (s *ProposalService) validateFields(ctx context.Context, payload map[string]any) (map[string]any, error) {
	if payload == nil {
		return nil, nil
	}
	defs, err := s.fields.DefinitionsFor(ctx, customfields.EntityKindProposal)
	if err != nil {
		return nil, err
	}
	validated, err := customfields.Validate(payload, defs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	return validated, nil
}
