package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldanj/msp-engagements/internal/model"
	"github.com/aldanj/msp-engagements/internal/query"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// ContractFilter carries the recognized list filters; nil fields are omitted
// from the query.
type ContractFilter struct {
	Status        *model.ContractStatus
	ClientID      *uuid.UUID
	DateFrom      *time.Time
	DateTo        *time.Time
	Search        string
	SortBy        string
	SortDirection string
}

var contractSort = query.Sort{
	Allowed: map[string]string{
		"name":      "name",
		"startDate": "start_date",
		"endDate":   "end_date",
		"value":     "value",
		"status":    "status",
		"createdAt": "created_at",
	},
	Default:  "created_at",
	Nullable: map[string]bool{"value": true},
}

func (r *ContractRepository) Create(ctx context.Context, contract *model.Contract) error {
	return r.db.WithContext(ctx).Create(contract).Error
}

func (r *ContractRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	var contract model.Contract
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("ServiceScopes").
		Preload("ServiceScopes.Service").
		Where("id = ?", id).
		First(&contract).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *ContractRepository) Update(ctx context.Context, contract *model.Contract) error {
	return r.db.WithContext(ctx).Save(contract).Error
}

// NameExists probes the contract-name uniqueness key, optionally excluding
// the row being updated. The unique index is the real guarantor; this probe
// only exists to produce a friendly conflict error first.
func (r *ContractRepository) NameExists(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.Contract{}).Where("name = ?", name)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ContractRepository) List(ctx context.Context, filter ContractFilter, p query.Pagination) (*query.Result[model.Contract], error) {
	b := query.NewBuilder(r.db.WithContext(ctx).Model(&model.Contract{})).
		Equal("status", filter.Status).
		Equal("client_id", filter.ClientID).
		AtLeast("start_date", filter.DateFrom).
		AtMost("end_date", filter.DateTo).
		Search(filter.Search, "name", "notes").
		OrderBy(filter.SortBy, filter.SortDirection, contractSort)

	return query.Run[model.Contract](b, p, "Client")
}

// SumActiveScopes computes the contract total: price times quantity over the
// active scopes that carry a price, quantity defaulting to 1. Returns 0 for
// an empty set.
func (r *ContractRepository) SumActiveScopes(ctx context.Context, contractID uuid.UUID) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(price * COALESCE(quantity, 1)), 0)
		FROM service_scopes
		WHERE contract_id = ? AND is_active AND price IS NOT NULL
	`, contractID).Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
