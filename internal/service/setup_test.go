package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/aldanj/msp-engagements/internal/config"
	"github.com/aldanj/msp-engagements/internal/customfields"
	"github.com/aldanj/msp-engagements/internal/model"
	"github.com/aldanj/msp-engagements/internal/repository"
	"github.com/aldanj/msp-engagements/internal/testutil"
)

type testEnv struct {
	db        *gorm.DB
	contracts *ContractService
	scopes    *ScopeService
	proposals *ProposalService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupDB(t)
	cfg := &config.Config{
		Lists: config.ListConfig{
			DefaultLimit:         10,
			ProposalDefaultLimit: 50,
			MaxLimit:             100,
		},
	}
	log := zerolog.Nop()

	contractRepo := repository.NewContractRepository(db)
	scopeRepo := repository.NewScopeRepository(db)
	proposalRepo := repository.NewProposalRepository(db)
	lookupRepo := repository.NewLookupRepository(db)
	fields := customfields.NewCatalog(db)

	return &testEnv{
		db:        db,
		contracts: NewContractService(contractRepo, lookupRepo, cfg, log),
		scopes: NewScopeService(
			scopeRepo, contractRepo, proposalRepo, lookupRepo, fields, cfg, log),
		proposals: NewProposalService(
			proposalRepo, scopeRepo, lookupRepo, fields, cfg, log),
	}
}

func (e *testEnv) seedClient(t *testing.T) uuid.UUID {
	t.Helper()
	client := model.Client{ID: uuid.New(), Name: "Falcon Logistics"}
	if err := e.db.Create(&client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return client.ID
}

func (e *testEnv) seedService(t *testing.T, name string) uuid.UUID {
	t.Helper()
	svc := model.ServiceOffering{ID: uuid.New(), Name: name, IsActive: true}
	if err := e.db.Create(&svc).Error; err != nil {
		t.Fatalf("seed service: %v", err)
	}
	return svc.ID
}

func (e *testEnv) seedUser(t *testing.T) uuid.UUID {
	t.Helper()
	user := model.User{
		ID:       uuid.New(),
		FullName: "Sara Al-Harbi",
		Email:    uuid.NewString() + "@example.com",
		Role:     "account_manager",
		IsActive: true,
	}
	if err := e.db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user.ID
}

func (e *testEnv) createContract(t *testing.T, name string, clientID uuid.UUID) *model.Contract {
	t.Helper()
	contract, err := e.contracts.Create(context.Background(), CreateContractInput{
		Name:      name,
		ClientID:  clientID,
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create contract: %v", err)
	}
	return contract
}

func (e *testEnv) createScope(t *testing.T, contractID, serviceID uuid.UUID, price float64, quantity int) *model.ServiceScope {
	t.Helper()
	scope, err := e.scopes.Create(context.Background(), CreateScopeInput{
		ContractID: contractID,
		ServiceID:  serviceID,
		Price:      &price,
		Quantity:   &quantity,
	})
	if err != nil {
		t.Fatalf("create scope: %v", err)
	}
	return scope
}
