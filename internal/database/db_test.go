package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/Dante110103/app-inventario/internal/config"
)

func TestInitSchemaIsIdempotent(t *testing.T) {
	db, err := NewConnection(&config.DatabaseConfig{
		Path:        filepath.Join(t.TempDir(), "inventario_test.db"),
		BusyTimeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := InitSchema(ctx, db); err != nil {
		t.Fatalf("First init: %v", err)
	}
	if err := InitSchema(ctx, db); err != nil {
		t.Fatalf("Second init should be a no-op: %v", err)
	}

	for _, table := range []string{"productos", "ventas", "servicios", "ventas_servicios", "streaming", "ventas_streaming"} {
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			t.Errorf("Table %s missing after init: %v", table, err)
		}
	}
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	db, err := NewConnection(&config.DatabaseConfig{
		Path:        filepath.Join(t.TempDir(), "inventario_test.db"),
		BusyTimeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := InitSchema(ctx, db); err != nil {
		t.Fatalf("Init schema: %v", err)
	}

	wantErr := ErrInvalidInput
	err = WithTransaction(ctx, db, DefaultTxOptions(), func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO servicios (nombre) VALUES ('Install')`); err != nil {
			return err
		}
		return wantErr
	})
	if err != wantErr {
		t.Fatalf("Expected the callback error back, got: %v", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM servicios`).Scan(&count); err != nil {
		t.Fatalf("Count services: %v", err)
	}
	if count != 0 {
		t.Errorf("Insert survived a rolled-back transaction: %d rows", count)
	}
}
