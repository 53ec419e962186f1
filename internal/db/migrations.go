package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`CREATE TABLE IF NOT EXISTS clients (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		contact_name VARCHAR(255),
		email VARCHAR(255),
		phone VARCHAR(64),
		address TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS services (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		category VARCHAR(128),
		description TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		full_name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		role VARCHAR(32) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_users_email ON users (email);`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'contract_status') THEN
			CREATE TYPE contract_status AS ENUM (
				'draft', 'pending_approval', 'active', 'renewed_active',
				'renewed_inactive', 'expired', 'terminated', 'cancelled',
				'suspended', 'on_hold'
			);
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'saf_status') THEN
			CREATE TYPE saf_status AS ENUM (
				'not_initiated', 'pending', 'in_progress', 'completed',
				'on_hold', 'cancelled'
			);
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'proposal_status') THEN
			CREATE TYPE proposal_status AS ENUM (
				'draft', 'in_preparation', 'submitted', 'under_review',
				'pending_approval', 'pending_client_review', 'requires_revision',
				'approved', 'rejected', 'withdrawn', 'archived',
				'accepted_by_client', 'in_implementation', 'completed'
			);
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'proposal_type') THEN
			CREATE TYPE proposal_type AS ENUM (
				'technical', 'financial', 'technical_financial', 'architecture',
				'implementation', 'pricing', 'scope_change', 'other'
			);
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS contracts (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		client_id UUID NOT NULL REFERENCES clients(id),
		start_date TIMESTAMPTZ NOT NULL,
		end_date TIMESTAMPTZ NOT NULL,
		renewal_date TIMESTAMPTZ,
		value NUMERIC(14,2),
		document_link VARCHAR(500),
		notes TEXT,
		previous_contract_id UUID REFERENCES contracts(id),
		status contract_status NOT NULL DEFAULT 'draft',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT chk_contracts_dates CHECK (end_date > start_date),
		CONSTRAINT chk_contracts_value CHECK (value IS NULL OR value >= 0)
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_contracts_name ON contracts (name);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_client_id ON contracts (client_id);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_status ON contracts (status);`,
	`CREATE TABLE IF NOT EXISTS service_scopes (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		contract_id UUID NOT NULL REFERENCES contracts(id),
		service_id UUID NOT NULL REFERENCES services(id),
		scope_details JSONB,
		price NUMERIC(14,2),
		quantity INTEGER,
		unit VARCHAR(64),
		notes TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		saf_status saf_status NOT NULL DEFAULT 'not_initiated',
		saf_service_start_date TIMESTAMPTZ,
		saf_service_end_date TIMESTAMPTZ,
		saf_document_link VARCHAR(500),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT chk_service_scopes_price CHECK (price IS NULL OR price > 0),
		CONSTRAINT chk_service_scopes_quantity CHECK (quantity IS NULL OR quantity >= 1)
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_service_scopes_contract_service
		ON service_scopes (contract_id, service_id);`,
	`CREATE INDEX IF NOT EXISTS idx_service_scopes_contract_id ON service_scopes (contract_id);`,
	`CREATE INDEX IF NOT EXISTS idx_service_scopes_is_active ON service_scopes (is_active);`,
	`CREATE TABLE IF NOT EXISTS proposals (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		service_scope_id UUID NOT NULL REFERENCES service_scopes(id),
		proposal_type proposal_type NOT NULL,
		document_link VARCHAR(500) NOT NULL,
		version INTEGER,
		title VARCHAR(255),
		description TEXT,
		notes TEXT,
		proposal_value NUMERIC(14,2),
		currency VARCHAR(3),
		estimated_duration_days INTEGER,
		valid_until_date TIMESTAMPTZ,
		submitted_at TIMESTAMPTZ,
		approved_at TIMESTAMPTZ,
		assignee_user_id UUID REFERENCES users(id),
		status proposal_status NOT NULL DEFAULT 'draft',
		custom_field_data JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT chk_proposals_value CHECK (proposal_value IS NULL OR proposal_value >= 0),
		CONSTRAINT chk_proposals_duration CHECK (
			estimated_duration_days IS NULL
			OR (estimated_duration_days BETWEEN 1 AND 3650)
		)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_proposals_service_scope_id ON proposals (service_scope_id);`,
	`CREATE INDEX IF NOT EXISTS idx_proposals_status ON proposals (status);`,
	`CREATE INDEX IF NOT EXISTS idx_proposals_assignee_user_id ON proposals (assignee_user_id) WHERE assignee_user_id IS NOT NULL;`,
	`CREATE TABLE IF NOT EXISTS custom_field_definitions (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		entity_kind VARCHAR(64) NOT NULL,
		name VARCHAR(128) NOT NULL,
		label VARCHAR(255),
		field_type VARCHAR(32) NOT NULL,
		required BOOLEAN NOT NULL DEFAULT FALSE,
		options JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_custom_field_definitions_kind_name
		ON custom_field_definitions (entity_kind, name);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
