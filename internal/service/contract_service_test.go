package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/aldanj/msp-engagements/internal/model"
	"github.com/aldanj/msp-engagements/internal/repository"
)

func TestContractCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	clientID := env.seedClient(t)

	contract, err := env.contracts.Create(ctx, CreateContractInput{
		Name:      "Managed WAN 2026",
		ClientID:  clientID,
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		Value:     floatPtr(120000),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if contract.Status != model.ContractStatusDraft {
		t.Fatalf("status = %q, want draft", contract.Status)
	}
	if contract.Client == nil || contract.Client.ID != clientID {
		t.Fatal("client not preloaded on the returned contract")
	}
}

func TestContractCreateNameConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	clientID := env.seedClient(t)
	env.createContract(t, "Managed WAN 2026", clientID)

	_, err := env.contracts.Create(ctx, CreateContractInput{
		Name:      "Managed WAN 2026",
		ClientID:  clientID,
		StartDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestContractCreateUnknownClient(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.contracts.Create(context.Background(), CreateContractInput{
		Name:      "Orphaned Deal",
		ClientID:  uuid.New(),
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestContractCreateInvalidDates(t *testing.T) {
	env := newTestEnv(t)
	clientID := env.seedClient(t)

	_, err := env.contracts.Create(context.Background(), CreateContractInput{
		Name:      "Backwards Dates",
		ClientID:  clientID,
		StartDate: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestContractUpdatePartial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	clientID := env.seedClient(t)
	contract := env.createContract(t, "Managed WAN 2026", clientID)

	status := model.ContractStatusActive
	updated, err := env.contracts.Update(ctx, contract.ID, UpdateContractInput{
		Status: &status,
		Notes:  strPtr("countersigned"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != model.ContractStatusActive {
		t.Fatalf("status = %q, want active", updated.Status)
	}
	if updated.Name != "Managed WAN 2026" {
		t.Fatalf("untouched name changed to %q", updated.Name)
	}
	if updated.Notes == nil || *updated.Notes != "countersigned" {
		t.Fatal("notes not applied")
	}
}

func TestContractUpdateRenameConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	clientID := env.seedClient(t)
	env.createContract(t, "Managed WAN 2026", clientID)
	second := env.createContract(t, "Managed LAN 2026", clientID)

	_, err := env.contracts.Update(ctx, second.ID, UpdateContractInput{
		Name: strPtr("Managed WAN 2026"),
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// Re-submitting its own name is not a conflict.
	if _, err := env.contracts.Update(ctx, second.ID, UpdateContractInput{
		Name: strPtr("Managed LAN 2026"),
	}); err != nil {
		t.Fatalf("self-rename: %v", err)
	}
}

func TestContractUpdateEffectiveDates(t *testing.T) {
	env := newTestEnv(t)
	clientID := env.seedClient(t)
	contract := env.createContract(t, "Managed WAN 2026", clientID)

	// Moving only the start date past the stored end date must fail.
	_, err := env.contracts.Update(context.Background(), contract.ID, UpdateContractInput{
		StartDate: timePtr(time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC)),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestContractGetMissing(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.contracts.Get(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestContractListFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	clientID := env.seedClient(t)
	contract := env.createContract(t, "Managed WAN 2026", clientID)
	env.createContract(t, "Security Operations 2026", clientID)

	status := model.ContractStatusActive
	if _, err := env.contracts.Update(ctx, contract.ID, UpdateContractInput{Status: &status}); err != nil {
		t.Fatalf("activate: %v", err)
	}

	result, err := env.contracts.List(ctx, repository.ContractFilter{Status: &status}, 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Count != 1 {
		t.Fatalf("count = %d, want 1", result.Count)
	}
	if result.Data[0].ID != contract.ID {
		t.Fatal("filter returned the wrong contract")
	}

	result, err = env.contracts.List(ctx, repository.ContractFilter{Search: "security"}, 1, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Count != 1 || result.Data[0].Name != "Security Operations 2026" {
		t.Fatalf("search returned %d rows", result.Count)
	}
}

func TestContractTotal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	clientID := env.seedClient(t)
	contract := env.createContract(t, "Managed WAN 2026", clientID)
	monitoring := env.seedService(t, "Monitoring")
	backup := env.seedService(t, "Backup")
	patching := env.seedService(t, "Patching")

	// price 100 x 2 = 200
	env.createScope(t, contract.ID, monitoring, 100, 2)

	// no quantity counts as 1: price 50 x 1 = 50
	price := 50.0
	if _, err := env.scopes.Create(ctx, CreateScopeInput{
		ContractID: contract.ID,
		ServiceID:  backup,
		Price:      &price,
	}); err != nil {
		t.Fatalf("create backup scope: %v", err)
	}

	// soft-deleted scopes are excluded
	deleted := env.createScope(t, contract.ID, patching, 999, 1)
	if err := env.scopes.Delete(ctx, deleted.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	total, err := env.contracts.Total(ctx, contract.ID)
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 250 {
		t.Fatalf("total = %v, want 250", total)
	}
}
