package model

import (
	"time"

	"github.com/google/uuid"
)

type ContractStatus string

const (
	ContractStatusDraft           ContractStatus = "draft"
	ContractStatusPendingApproval ContractStatus = "pending_approval"
	ContractStatusActive          ContractStatus = "active"
	ContractStatusRenewedActive   ContractStatus = "renewed_active"
	ContractStatusRenewedInactive ContractStatus = "renewed_inactive"
	ContractStatusExpired         ContractStatus = "expired"
	ContractStatusTerminated      ContractStatus = "terminated"
	ContractStatusCancelled       ContractStatus = "cancelled"
	ContractStatusSuspended       ContractStatus = "suspended"
	ContractStatusOnHold          ContractStatus = "on_hold"
)

// ContractValueMax is the largest storable contract value, NUMERIC(14,2).
const ContractValueMax = 999_999_999_999.99

func (s ContractStatus) Valid() bool {
	switch s {
	case ContractStatusDraft, ContractStatusPendingApproval, ContractStatusActive,
		ContractStatusRenewedActive, ContractStatusRenewedInactive, ContractStatusExpired,
		ContractStatusTerminated, ContractStatusCancelled, ContractStatusSuspended,
		ContractStatusOnHold:
		return true
	}
	return false
}

type Contract struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name               string         `gorm:"uniqueIndex:uq_contracts_name;size:255;not null" json:"name"`
	ClientID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"clientId"`
	StartDate          time.Time      `gorm:"not null" json:"startDate"`
	EndDate            time.Time      `gorm:"not null" json:"endDate"`
	RenewalDate        *time.Time     `json:"renewalDate,omitempty"`
	Value              *float64       `gorm:"type:numeric(14,2)" json:"value,omitempty"`
	DocumentLink       *string        `gorm:"size:500" json:"documentLink,omitempty"`
	Notes              *string        `json:"notes,omitempty"`
	PreviousContractID *uuid.UUID     `gorm:"type:uuid" json:"previousContractId,omitempty"`
	Status             ContractStatus `gorm:"size:32;not null;default:draft;index" json:"status"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`

	Client           *Client        `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	PreviousContract *Contract      `gorm:"foreignKey:PreviousContractID" json:"previousContract,omitempty"`
	ServiceScopes    []ServiceScope `gorm:"foreignKey:ContractID" json:"serviceScopes,omitempty"`
}

func (Contract) TableName() string { return "contracts" }
