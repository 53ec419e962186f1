package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldanj/msp-engagements/internal/model"
	"github.com/aldanj/msp-engagements/internal/query"
)

type ProposalRepository struct {
	db *gorm.DB
}

func NewProposalRepository(db *gorm.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

type ProposalFilter struct {
	ServiceScopeID    *uuid.UUID
	Status            *model.ProposalStatus
	ProposalType      *model.ProposalType
	AssigneeUserID    *uuid.UUID
	Currency          *string
	MinValue          *float64
	MaxValue          *float64
	SubmittedDateFrom *time.Time
	SubmittedDateTo   *time.Time
	Search            string
	SortBy            string
	SortDirection     string
}

var proposalSort = query.Sort{
	Allowed: map[string]string{
		"title":         "title",
		"proposalValue": "proposal_value",
		"status":        "status",
		"submittedAt":   "submitted_at",
		"validUntil":    "valid_until_date",
		"createdAt":     "created_at",
	},
	Default: "created_at",
	Nullable: map[string]bool{
		"title":         true,
		"proposalValue": true,
		"submittedAt":   true,
		"validUntil":    true,
	},
}

func (r *ProposalRepository) Create(ctx context.Context, proposal *model.Proposal) error {
	return r.db.WithContext(ctx).Create(proposal).Error
}

func (r *ProposalRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Proposal, error) {
	var proposal model.Proposal
	err := r.db.WithContext(ctx).
		Preload("ServiceScope").
		Preload("ServiceScope.Contract").
		Preload("ServiceScope.Service").
		Preload("Assignee").
		Where("id = ?", id).
		First(&proposal).Error
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (r *ProposalRepository) Update(ctx context.Context, proposal *model.Proposal) error {
	return r.db.WithContext(ctx).Save(proposal).Error
}

func (r *ProposalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Proposal{}).Error
}

func (r *ProposalRepository) List(ctx context.Context, filter ProposalFilter, p query.Pagination) (*query.Result[model.Proposal], error) {
	b := query.NewBuilder(r.db.WithContext(ctx).Model(&model.Proposal{})).
		Equal("service_scope_id", filter.ServiceScopeID).
		Equal("status", filter.Status).
		Equal("proposal_type", filter.ProposalType).
		Equal("assignee_user_id", filter.AssigneeUserID).
		Equal("currency", filter.Currency).
		AtLeast("proposal_value", filter.MinValue).
		AtMost("proposal_value", filter.MaxValue).
		AtLeast("submitted_at", filter.SubmittedDateFrom).
		AtMost("submitted_at", filter.SubmittedDateTo).
		Search(filter.Search, "title", "description", "notes").
		OrderBy(filter.SortBy, filter.SortDirection, proposalSort)

	return query.Run[model.Proposal](b, p, "ServiceScope", "Assignee")
}

// CountApprovedInScope reports how many proposals of a scope are past
// approval and no longer draft. Used by the scope hard-delete guard.
func (r *ProposalRepository) CountApprovedInScope(ctx context.Context, scopeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Proposal{}).
		Where("service_scope_id = ?", scopeID).
		Where("status IN ?", []model.ProposalStatus{
			model.ProposalStatusApproved,
			model.ProposalStatusAcceptedByClient,
			model.ProposalStatusInImplementation,
			model.ProposalStatusCompleted,
		}).
		Count(&count).Error
	return count, err
}
