package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ProposalType string

const (
	ProposalTypeTechnical          ProposalType = "technical"
	ProposalTypeFinancial          ProposalType = "financial"
	ProposalTypeTechnicalFinancial ProposalType = "technical_financial"
	ProposalTypeArchitecture       ProposalType = "architecture"
	ProposalTypeImplementation     ProposalType = "implementation"
	ProposalTypePricing            ProposalType = "pricing"
	ProposalTypeScopeChange        ProposalType = "scope_change"
	ProposalTypeOther              ProposalType = "other"
)

func (t ProposalType) Valid() bool {
	switch t {
	case ProposalTypeTechnical, ProposalTypeFinancial, ProposalTypeTechnicalFinancial,
		ProposalTypeArchitecture, ProposalTypeImplementation, ProposalTypePricing,
		ProposalTypeScopeChange, ProposalTypeOther:
		return true
	}
	return false
}

// DefaultCurrency is applied when a proposal carries a value without an
// explicit currency.
const DefaultCurrency = "SAR"

type Proposal struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ServiceScopeID uuid.UUID    `gorm:"type:uuid;not null;index" json:"serviceScopeId"`
	ProposalType   ProposalType `gorm:"size:32;not null" json:"proposalType"`
	DocumentLink   string       `gorm:"size:500;not null" json:"documentLink"`

	Version     *int    `json:"version,omitempty"`
	Title       *string `gorm:"size:255" json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Notes       *string `json:"notes,omitempty"`

	ProposalValue         *float64 `gorm:"type:numeric(14,2)" json:"proposalValue,omitempty"`
	Currency              *string  `gorm:"size:3" json:"currency,omitempty"`
	EstimatedDurationDays *int     `json:"estimatedDurationDays,omitempty"`

	ValidUntilDate *time.Time `json:"validUntilDate,omitempty"`
	SubmittedAt    *time.Time `json:"submittedAt,omitempty"`
	ApprovedAt     *time.Time `json:"approvedAt,omitempty"`

	AssigneeUserID *uuid.UUID `gorm:"type:uuid" json:"assigneeUserId,omitempty"`

	Status          ProposalStatus    `gorm:"size:32;not null;default:draft;index" json:"status"`
	CustomFieldData datatypes.JSONMap `gorm:"type:jsonb" json:"customFieldData,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ServiceScope *ServiceScope `gorm:"foreignKey:ServiceScopeID" json:"serviceScope,omitempty"`
	Assignee     *User         `gorm:"foreignKey:AssigneeUserID" json:"assignee,omitempty"`
}

func (Proposal) TableName() string { return "proposals" }

// IsApproved reports whether the proposal has passed approval at some point
// of its lifecycle. Used by the delete guard.
func (p *Proposal) IsApproved() bool {
	switch p.Status {
	case ProposalStatusApproved, ProposalStatusAcceptedByClient,
		ProposalStatusInImplementation, ProposalStatusCompleted:
		return true
	}
	return false
}

func (p *Proposal) IsDraft() bool {
	return p.Status == ProposalStatusDraft
}
