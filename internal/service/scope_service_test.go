package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/aldanj/msp-engagements/internal/model"
	"github.com/aldanj/msp-engagements/internal/repository"
)

func TestScopeCreate(t *testing.T) {
	env := newTestEnv(t)
	clientID := env.seedClient(t)
	contract := env.createContract(t, "Managed WAN 2026", clientID)
	serviceID := env.seedService(t, "Monitoring")

	scope := env.createScope(t, contract.ID, serviceID, 100, 2)

	if !scope.IsActive {
		t.Fatal("new scope should be active")
	}
	if scope.SAFStatus != model.SAFStatusNotInitiated {
		t.Fatalf("safStatus = %q, want not_initiated", scope.SAFStatus)
	}
	if scope.Service == nil || scope.Service.ID != serviceID {
		t.Fatal("service not preloaded on the returned scope")
	}
}

func TestScopeCreateDuplicatePair(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	clientID := env.seedClient(t)
	contract := env.createContract(t, "Managed WAN 2026", clientID)
	other := env.createContract(t, "Managed LAN 2026", clientID)
	serviceID := env.seedService(t, "Monitoring")

	env.createScope(t, contract.ID, serviceID, 100, 1)

	price := 100.0
	_, err := env.scopes.Create(ctx, CreateScopeInput{
		ContractID: contract.ID,
		ServiceID:  serviceID,
		Price:      &price,
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// The same service under a different contract is fine.
	if _, err := env.scopes.Create(ctx, CreateScopeInput{
		ContractID: other.ID,
		ServiceID:  serviceID,
		Price:      &price,
	}); err != nil {
		t.Fatalf("same service, other contract: %v", err)
	}
}

func TestScopeCreateUnknownRefs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	clientID := env.seedClient(t)
	contract := env.createContract(t, "Managed WAN 2026", clientID)
	serviceID := env.seedService(t, "Monitoring")

	_, err := env.scopes.Create(ctx, CreateScopeInput{ContractID: uuid.New(), ServiceID: serviceID})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown contract: expected ErrNotFound, got %v", err)
	}

	_, err = env.scopes.Create(ctx, CreateScopeInput{ContractID: contract.ID, ServiceID: uuid.New()})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown service: expected ErrNotFound, got %v", err)
	}
}

func TestScopeCreateInvalidPricing(t *testing.T) {
	env := newTestEnv(t)
	clientID := env.seedClient(t)
	contract := env.createContract(t, "Managed WAN 2026", clientID)
	serviceID := env.seedService(t, "Monitoring")

	price := 0.0
	_, err := env.scopes.Create(context.Background(), CreateScopeInput{
		ContractID: contract.ID,
		ServiceID:  serviceID,
		Price:      &price,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestScopeUpdateMergesDetails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	clientID := env.seedClient(t)
	contract := env.createContract(t, "Managed WAN 2026", clientID)
	serviceID := env.seedService(t, "Monitoring")

	price := 100.0
	scope, err := env.scopes.Create(ctx, CreateScopeInput{
		ContractID:   contract.ID,
		ServiceID:    serviceID,
		Price:        &price,
		ScopeDetails: map[string]any{"sites": float64(4), "coverage": "8x5"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := env.scopes.Update(ctx, scope.ID, UpdateScopeInput{
		ScopeDetails: map[string]any{"coverage": "24x7", "onsite": true},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.ScopeDetails["coverage"] != "24x7" {
		t.Fatalf("coverage = %v, want 24x7", updated.ScopeDetails["coverage"])
	}
	if updated.ScopeDetails["sites"] != float64(4) {
		t.Fatalf("untouched key lost: %v", updated.ScopeDetails["sites"])
	}
	if updated.ScopeDetails["onsite"] != true {
		t.Fatal("new key not merged")
	}
}

func TestScopeSoftDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	clientID := env.seedClient(t)
	contract := env.createContract(t, "Managed WAN 2026", clientID)
	serviceID := env.seedService(t, "Monitoring")
	scope := env.createScope(t, contract.ID, serviceID, 100, 1)

	if err := env.scopes.Delete(ctx, scope.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// The row survives with isActive off.
	got, err := env.scopes.Get(ctx, scope.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got.IsActive {
		t.Fatal("scope still active after soft delete")
	}

	active := true
	result, err := env.scopes.List(ctx, repository.ScopeFilter{
		ContractID: &contract.ID,
		IsActive:   &active,
	}, 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Count != 0 {
		t.Fatalf("active list count = %d, want 0", result.Count)
	}
}

func TestScopeHardDeleteGuard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	clientID := env.seedClient(t)
	contract := env.createContract(t, "Managed WAN 2026", clientID)
	serviceID := env.seedService(t, "Monitoring")
	scope := env.createScope(t, contract.ID, serviceID, 100, 1)

	proposal, err := env.proposals.Create(ctx, CreateProposalInput{
		ServiceScopeID: scope.ID,
		ProposalType:   model.ProposalTypeTechnical,
		DocumentLink:   "https://docs.example.com/p/1",
	}, nil)
	if err != nil {
		t.Fatalf("create proposal: %v", err)
	}

	advance := func(to model.ProposalStatus) {
		t.Helper()
		if _, err := env.proposals.Update(ctx, proposal.ID, UpdateProposalInput{Status: &to}); err != nil {
			t.Fatalf("advance to %s: %v", to, err)
		}
	}
	advance(model.ProposalStatusSubmitted)
	advance(model.ProposalStatusUnderReview)
	advance(model.ProposalStatusPendingApproval)
	advance(model.ProposalStatusApproved)

	err = env.scopes.HardDelete(ctx, scope.ID)
	if !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("expected ErrNotAllowed, got %v", err)
	}

	// Without approved proposals the hard delete cascades.
	free := env.createScope(t, contract.ID, env.seedService(t, "Backup"), 50, 1)
	if _, err := env.proposals.Create(ctx, CreateProposalInput{
		ServiceScopeID: free.ID,
		ProposalType:   model.ProposalTypeFinancial,
		DocumentLink:   "https://docs.example.com/p/2",
	}, nil); err != nil {
		t.Fatalf("create draft proposal: %v", err)
	}
	if err := env.scopes.HardDelete(ctx, free.ID); err != nil {
		t.Fatalf("hard delete: %v", err)
	}
	if _, err := env.scopes.Get(ctx, free.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after hard delete, got %v", err)
	}

	var remaining int64
	if err := env.db.Model(&model.Proposal{}).
		Where("service_scope_id = ?", free.ID).
		Count(&remaining).Error; err != nil {
		t.Fatalf("count proposals: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("%d proposals survived the cascade", remaining)
	}
}
