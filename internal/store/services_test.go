package store

import (
	"context"
	"errors"
	"testing"

	"github.com/Dante110103/app-inventario/internal/database"
	"github.com/shopspring/decimal"
)

func TestServiceCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	created, err := CreateService(ctx, db, "Install")
	if err != nil {
		t.Fatalf("Create service: %v", err)
	}

	if _, err := CreateService(ctx, db, "Install"); !errors.Is(err, database.ErrDuplicateKey) {
		t.Errorf("Expected duplicate key, got: %v", err)
	}

	if err := UpdateService(ctx, db, created.ID, "Installation"); err != nil {
		t.Fatalf("Update service: %v", err)
	}

	got, err := GetService(ctx, db, created.ID)
	if err != nil {
		t.Fatalf("Get service: %v", err)
	}
	if got.Name != "Installation" {
		t.Errorf("Expected renamed service, got: %+v", got)
	}

	if err := UpdateService(ctx, db, 999, "Repair"); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("Expected not found, got: %v", err)
	}

	if err := DeleteService(ctx, db, created.ID); err != nil {
		t.Fatalf("Delete service: %v", err)
	}
	if err := DeleteService(ctx, db, created.ID); err != nil {
		t.Errorf("Repeat delete should be a no-op, got: %v", err)
	}
}

func TestListServicesOrderedByName(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"Repair", "Install", "Cleaning"} {
		if _, err := CreateService(ctx, db, name); err != nil {
			t.Fatalf("Create service %q: %v", name, err)
		}
	}

	services, err := ListServices(ctx, db)
	if err != nil {
		t.Fatalf("List services: %v", err)
	}
	if len(services) != 3 {
		t.Fatalf("Expected 3 services, got %d", len(services))
	}
	if services[0].Name != "Cleaning" || services[2].Name != "Repair" {
		t.Errorf("Expected name-ascending order, got: %+v", services)
	}
}

func TestRecordServiceSale(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	service, err := CreateService(ctx, db, "Install")
	if err != nil {
		t.Fatalf("Create service: %v", err)
	}

	sale, err := RecordServiceSale(ctx, db, service.ID, decimal.NewFromFloat(25.0))
	if err != nil {
		t.Fatalf("Record service sale: %v", err)
	}
	if !sale.Value.Equal(decimal.NewFromFloat(25.0)) {
		t.Errorf("Expected value 25, got %s", sale.Value)
	}

	if n := countRows(t, db, "ventas_servicios"); n != 1 {
		t.Errorf("Expected 1 ledger row, got %d", n)
	}

	if _, err := RecordServiceSale(ctx, db, 999, decimal.NewFromInt(10)); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("Expected not found, got: %v", err)
	}
}
