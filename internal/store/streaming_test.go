package store

import (
	"context"
	"errors"
	"testing"

	"github.com/Dante110103/app-inventario/internal/database"
	"github.com/shopspring/decimal"
)

func TestStreamingAccountCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	created, err := CreateStreamingAccount(ctx, db, "Netflix", decimal.NewFromFloat(15.99))
	if err != nil {
		t.Fatalf("Create streaming account: %v", err)
	}

	if _, err := CreateStreamingAccount(ctx, db, "Netflix", decimal.NewFromInt(20)); !errors.Is(err, database.ErrDuplicateKey) {
		t.Errorf("Expected duplicate key, got: %v", err)
	}

	if err := UpdateStreamingAccount(ctx, db, created.ID, "Netflix 4K", decimal.NewFromFloat(19.99)); err != nil {
		t.Fatalf("Update streaming account: %v", err)
	}

	got, err := GetStreamingAccount(ctx, db, created.ID)
	if err != nil {
		t.Fatalf("Get streaming account: %v", err)
	}
	if got.Name != "Netflix 4K" || !got.MonthlyPrice.Equal(decimal.NewFromFloat(19.99)) {
		t.Errorf("Unexpected account after update: %+v", got)
	}

	if err := DeleteStreamingAccount(ctx, db, created.ID); err != nil {
		t.Fatalf("Delete streaming account: %v", err)
	}
	if _, err := GetStreamingAccount(ctx, db, created.ID); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("Expected not found after delete, got: %v", err)
	}
}

func TestRecordStreamingSale(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	account, err := CreateStreamingAccount(ctx, db, "Spotify", decimal.NewFromFloat(9.99))
	if err != nil {
		t.Fatalf("Create streaming account: %v", err)
	}

	sale, err := RecordStreamingSale(ctx, db, account.ID, account.MonthlyPrice)
	if err != nil {
		t.Fatalf("Record streaming sale: %v", err)
	}
	if !sale.Value.Equal(decimal.NewFromFloat(9.99)) {
		t.Errorf("Expected value 9.99, got %s", sale.Value)
	}

	if n := countRows(t, db, "ventas_streaming"); n != 1 {
		t.Errorf("Expected 1 ledger row, got %d", n)
	}

	if _, err := RecordStreamingSale(ctx, db, 999, decimal.NewFromInt(10)); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("Expected not found, got: %v", err)
	}
}
