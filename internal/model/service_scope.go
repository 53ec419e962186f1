package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SAFStatus string

const (
	SAFStatusNotInitiated SAFStatus = "not_initiated"
	SAFStatusPending      SAFStatus = "pending"
	SAFStatusInProgress   SAFStatus = "in_progress"
	SAFStatusCompleted    SAFStatus = "completed"
	SAFStatusOnHold       SAFStatus = "on_hold"
	SAFStatusCancelled    SAFStatus = "cancelled"
)

func (s SAFStatus) Valid() bool {
	switch s {
	case SAFStatusNotInitiated, SAFStatusPending, SAFStatusInProgress,
		SAFStatusCompleted, SAFStatusOnHold, SAFStatusCancelled:
		return true
	}
	return false
}

// ServiceScope is one service sold under a contract. A given service may
// appear at most once per contract, active or not.
type ServiceScope struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ContractID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_service_scopes_contract_service" json:"contractId"`
	ServiceID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_service_scopes_contract_service" json:"serviceId"`

	// ScopeDetails is an opaque per-service configuration blob; its shape is
	// owned by the custom-field subsystem, not by this model.
	ScopeDetails datatypes.JSONMap `gorm:"type:jsonb" json:"scopeDetails,omitempty"`

	Price    *float64 `gorm:"type:numeric(14,2)" json:"price,omitempty"`
	Quantity *int     `json:"quantity,omitempty"`
	Unit     *string  `gorm:"size:64" json:"unit,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
	IsActive bool     `gorm:"not null;default:true;index" json:"isActive"`

	SAFStatus           SAFStatus  `gorm:"size:32;not null;default:not_initiated" json:"safStatus"`
	SAFServiceStartDate *time.Time `json:"safServiceStartDate,omitempty"`
	SAFServiceEndDate   *time.Time `json:"safServiceEndDate,omitempty"`
	SAFDocumentLink     *string    `gorm:"size:500" json:"safDocumentLink,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Contract  *Contract        `gorm:"foreignKey:ContractID" json:"contract,omitempty"`
	Service   *ServiceOffering `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Proposals []Proposal       `gorm:"foreignKey:ServiceScopeID" json:"proposals,omitempty"`
}

func (ServiceScope) TableName() string { return "service_scopes" }
