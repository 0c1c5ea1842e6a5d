package core

import (
	"context"
	"fmt"
	"os"

	"travelcore/internal/infra/persistence/memory"
	"travelcore/internal/infra/persistence/postgres"
	"travelcore/internal/infra/persistence/sqlite"
	"travelcore/pkg/domain"
)

// StorageDriver identifies a concrete convergence ledger implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// LedgerOptions selects and locates a ledger backend.
type LedgerOptions struct {
	Driver      StorageDriver
	SQLitePath  string
	PostgresDSN string
}

// LedgerOptionsFromEnv reads ledger selection from the environment.
// Defaults to sqlite when unset.
//
//	TRAVELCORE_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	TRAVELCORE_SQLITE_PATH: path to sqlite file (default ./travelcore.db)
//	TRAVELCORE_POSTGRES_DSN: postgres DSN when driver=postgres
func LedgerOptionsFromEnv() LedgerOptions {
	driver := os.Getenv("TRAVELCORE_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageSQLite)
	}
	return LedgerOptions{
		Driver:      StorageDriver(driver),
		SQLitePath:  os.Getenv("TRAVELCORE_SQLITE_PATH"),
		PostgresDSN: os.Getenv("TRAVELCORE_POSTGRES_DSN"),
	}
}

// OpenLedger opens the convergence ledger described by opts.
func OpenLedger(ctx context.Context, opts LedgerOptions) (domain.ConvergenceLedger, error) {
	switch opts.Driver {
	case StorageMemory:
		return memory.NewLedger(), nil
	case StorageSQLite, "":
		return sqlite.NewLedger(opts.SQLitePath)
	case StoragePostgres:
		return postgres.NewLedger(ctx, opts.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", opts.Driver)
	}
}
