// Package testutil provides the shared test database. Tests run against an
// in-memory sqlite instance with the production models automigrated, so the
// repository and service layers exercise real SQL.
package testutil

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aldanj/msp-engagements/internal/customfields"
	"github.com/aldanj/msp-engagements/internal/model"
)

func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	err = db.AutoMigrate(
		&model.Client{},
		&model.ServiceOffering{},
		&model.User{},
		&model.Contract{},
		&model.ServiceScope{},
		&model.Proposal{},
		&customfields.Definition{},
	)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return db
}
