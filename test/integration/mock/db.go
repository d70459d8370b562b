// Package mock provides shared test doubles for integration tests.
package mock

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dealership/backoffice/internal/integration/persistence/model"
)

var dbOnce sync.Once
var testDB *Db

// Db wraps an in-memory SQLite connection migrated with the full ledger
// schema. A single connection serializes all access, which stands in for the
// row locks Postgres provides in production.
type Db struct {
	DbConn *gorm.DB
	models []any
}

// NewDb returns the shared in-memory database, creating it on first use.
func NewDb() *Db {
	dbOnce.Do(func() {
		testDB = open()
	})
	return testDB
}

func open() *Db {
	dbSQL, err := sql.Open("sqlite", "file::memory:?cache=shared")
	if err != nil {
		panic(err)
	}

	dbSQL.SetMaxOpenConns(1)

	dbConn, err := gorm.Open(sqlite.Dialector{Conn: dbSQL}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect to database. err: " + err.Error())
	}

	models := []any{
		&model.ClientModel{},
		&model.SaleModel{},
		&model.NoteModel{},
		&model.PaymentModel{},
		&model.RatingBandModel{},
		&model.RatingHistoryModel{},
	}

	if err := dbConn.AutoMigrate(models...); err != nil {
		panic(fmt.Sprintf("failed to migrate test schema. err: %s", err.Error()))
	}

	return &Db{
		DbConn: dbConn,
		models: models,
	}
}

// ClearDB removes all rows from every ledger table, keeping the schema. Run
// it between scenarios so each starts from an empty ledger.
func (d *Db) ClearDB() error {
	// Delete children before parents to respect foreign keys.
	for i := len(d.models) - 1; i >= 0; i-- {
		err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().
			Delete(d.models[i]).Error
		if err != nil {
			return err
		}
	}
	return nil
}
