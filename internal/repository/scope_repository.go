package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldanj/msp-engagements/internal/model"
	"github.com/aldanj/msp-engagements/internal/query"
)

type ScopeRepository struct {
	db *gorm.DB
}

func NewScopeRepository(db *gorm.DB) *ScopeRepository {
	return &ScopeRepository{db: db}
}

type ScopeFilter struct {
	ContractID    *uuid.UUID
	ServiceID     *uuid.UUID
	IsActive      *bool
	SAFStatus     *model.SAFStatus
	MinPrice      *float64
	MaxPrice      *float64
	Search        string
	SortBy        string
	SortDirection string
}

var scopeSort = query.Sort{
	Allowed: map[string]string{
		"price":     "service_scopes.price",
		"quantity":  "service_scopes.quantity",
		"safStatus": "service_scopes.saf_status",
		"createdAt": "service_scopes.created_at",
	},
	Default: "service_scopes.created_at",
	Nullable: map[string]bool{
		"price":    true,
		"quantity": true,
	},
}

func (r *ScopeRepository) Create(ctx context.Context, scope *model.ServiceScope) error {
	return r.db.WithContext(ctx).Create(scope).Error
}

func (r *ScopeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ServiceScope, error) {
	var scope model.ServiceScope
	err := r.db.WithContext(ctx).
		Preload("Contract").
		Preload("Service").
		Preload("Proposals").
		Where("id = ?", id).
		First(&scope).Error
	if err != nil {
		return nil, err
	}
	return &scope, nil
}

func (r *ScopeRepository) Update(ctx context.Context, scope *model.ServiceScope) error {
	return r.db.WithContext(ctx).Save(scope).Error
}

// PairExists probes the (contract, service) uniqueness key. Both active and
// soft-deleted scopes count, matching the unique index.
func (r *ScopeRepository) PairExists(ctx context.Context, contractID, serviceID uuid.UUID, excludeID *uuid.UUID) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.ServiceScope{}).
		Where("contract_id = ? AND service_id = ?", contractID, serviceID)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ScopeRepository) List(ctx context.Context, filter ScopeFilter, p query.Pagination) (*query.Result[model.ServiceScope], error) {
	base := r.db.WithContext(ctx).Model(&model.ServiceScope{})
	if filter.Search != "" {
		base = base.
			Select("service_scopes.*").
			Joins("JOIN services ON services.id = service_scopes.service_id")
	}

	b := query.NewBuilder(base).
		Equal("service_scopes.contract_id", filter.ContractID).
		Equal("service_scopes.service_id", filter.ServiceID).
		Equal("service_scopes.is_active", filter.IsActive).
		Equal("service_scopes.saf_status", filter.SAFStatus).
		AtLeast("service_scopes.price", filter.MinPrice).
		AtMost("service_scopes.price", filter.MaxPrice).
		Search(filter.Search, "services.name", "service_scopes.notes", "service_scopes.scope_details").
		OrderBy(filter.SortBy, filter.SortDirection, scopeSort)

	return query.Run[model.ServiceScope](b, p, "Service", "Contract")
}

// SoftDelete flips the scope off without touching its rows.
func (r *ScopeRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.ServiceScope{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

// HardDelete irreversibly removes the scope and its proposals in one
// transaction.
func (r *ScopeRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("service_scope_id = ?", id).Delete(&model.Proposal{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.ServiceScope{}).Error
	})
}
