package query_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldanj/msp-engagements/internal/model"
	"github.com/aldanj/msp-engagements/internal/query"
	"github.com/aldanj/msp-engagements/internal/testutil"
)

func seedContracts(t *testing.T, db *gorm.DB, n int) uuid.UUID {
	t.Helper()
	clientID := uuid.New()
	if err := db.Create(&model.Client{ID: clientID, Name: "Acme Networks"}).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		c := model.Contract{
			ID:        uuid.New(),
			Name:      fmt.Sprintf("Contract %02d", i),
			ClientID:  clientID,
			StartDate: start,
			EndDate:   start.AddDate(1, 0, 0),
			Status:    model.ContractStatusActive,
		}
		if err := db.Create(&c).Error; err != nil {
			t.Fatalf("seed contract %d: %v", i, err)
		}
	}
	return clientID
}

func TestNewPaginationClamps(t *testing.T) {
	cases := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, 1, 10},
		{-5, -1, 1, 10},
		{2, 50, 2, 50},
		{1, 500, 1, 100},
	}
	for _, tc := range cases {
		p := query.NewPagination(tc.page, tc.limit, 10, 100)
		if p.Page != tc.wantPage || p.Limit != tc.wantLimit {
			t.Fatalf("NewPagination(%d, %d) = %+v, want page=%d limit=%d",
				tc.page, tc.limit, p, tc.wantPage, tc.wantLimit)
		}
	}
}

func TestRunPaginates(t *testing.T) {
	db := testutil.SetupDB(t)
	seedContracts(t, db, 25)

	b := query.NewBuilder(db.Model(&model.Contract{})).
		OrderBy("name", "ASC", query.Sort{
			Allowed: map[string]string{"name": "name"},
			Default: "created_at",
		})

	res, err := query.Run[model.Contract](b, query.Pagination{Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if res.Count != 25 {
		t.Fatalf("count = %d, want 25", res.Count)
	}
	if res.TotalPages != 3 {
		t.Fatalf("totalPages = %d, want 3", res.TotalPages)
	}
	if len(res.Data) != 10 {
		t.Fatalf("len(data) = %d, want 10", len(res.Data))
	}
	if res.Data[0].Name != "Contract 11" || res.Data[9].Name != "Contract 20" {
		t.Fatalf("page 2 spans %q..%q, want Contract 11..Contract 20",
			res.Data[0].Name, res.Data[9].Name)
	}
}

func TestRunLastPartialPage(t *testing.T) {
	db := testutil.SetupDB(t)
	seedContracts(t, db, 25)

	b := query.NewBuilder(db.Model(&model.Contract{})).
		OrderBy("name", "ASC", query.Sort{
			Allowed: map[string]string{"name": "name"},
			Default: "created_at",
		})

	res, err := query.Run[model.Contract](b, query.Pagination{Page: 3, Limit: 10})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Data) != 5 {
		t.Fatalf("len(data) = %d, want 5", len(res.Data))
	}
}

func TestBuilderPredicates(t *testing.T) {
	db := testutil.SetupDB(t)
	clientID := seedContracts(t, db, 5)

	var other *uuid.UUID
	b := query.NewBuilder(db.Model(&model.Contract{})).
		Equal("client_id", clientID).
		Equal("previous_contract_id", other).
		Search("contract 03", "name")

	res, err := query.Run[model.Contract](b, query.Pagination{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Count != 1 {
		t.Fatalf("count = %d, want 1", res.Count)
	}
	if res.Data[0].Name != "Contract 03" {
		t.Fatalf("got %q, want Contract 03", res.Data[0].Name)
	}
}

func TestSearchEmptyTermIsSkipped(t *testing.T) {
	db := testutil.SetupDB(t)
	seedContracts(t, db, 3)

	b := query.NewBuilder(db.Model(&model.Contract{})).Search("   ", "name")
	res, err := query.Run[model.Contract](b, query.Pagination{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Count != 3 {
		t.Fatalf("count = %d, want 3", res.Count)
	}
}
