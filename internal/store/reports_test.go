package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/Dante110103/app-inventario/internal/models"
	"github.com/shopspring/decimal"
)

func backdateProductSale(t *testing.T, db *sql.DB, productID int64, total decimal.Decimal, at time.Time) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO ventas (producto_id, cantidad, precio_total, fecha_venta) VALUES (?, 1, ?, ?)`,
		productID, total, at.Unix())
	if err != nil {
		t.Fatalf("Insert backdated product sale: %v", err)
	}
}

func backdateServiceSale(t *testing.T, db *sql.DB, serviceID int64, value decimal.Decimal, at time.Time) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO ventas_servicios (servicio_id, valor_venta, fecha_venta) VALUES (?, ?, ?)`,
		serviceID, value, at.Unix())
	if err != nil {
		t.Fatalf("Insert backdated service sale: %v", err)
	}
}

func backdateStreamingSale(t *testing.T, db *sql.DB, accountID int64, value decimal.Decimal, at time.Time) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO ventas_streaming (streaming_id, valor_venta, fecha_venta) VALUES (?, ?, ?)`,
		accountID, value, at.Unix())
	if err != nil {
		t.Fatalf("Insert backdated streaming sale: %v", err)
	}
}

func TestSalesTodayFiltersOtherDates(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	product, err := CreateProduct(ctx, db, "Widget", "", decimal.NewFromInt(10), 10)
	if err != nil {
		t.Fatalf("Create product: %v", err)
	}

	if _, err := RecordProductSale(ctx, db, product.ID, 2); err != nil {
		t.Fatalf("Record sale: %v", err)
	}
	backdateProductSale(t, db, product.ID, decimal.NewFromInt(50), time.Now().AddDate(0, 0, -1))

	rows, err := SalesToday(ctx, db, models.KindProduct)
	if err != nil {
		t.Fatalf("Sales today: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row for today, got %d", len(rows))
	}
	if rows[0].ItemName != "Widget" || rows[0].Quantity != 2 {
		t.Errorf("Unexpected row: %+v", rows[0])
	}
	if !rows[0].Amount.Equal(decimal.NewFromInt(20)) {
		t.Errorf("Expected amount 20, got %s", rows[0].Amount)
	}
}

func TestSalesTodayKeepsHistoryAfterCatalogDelete(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	product, err := CreateProduct(ctx, db, "Widget", "", decimal.NewFromInt(10), 10)
	if err != nil {
		t.Fatalf("Create product: %v", err)
	}
	if _, err := RecordProductSale(ctx, db, product.ID, 1); err != nil {
		t.Fatalf("Record sale: %v", err)
	}
	if err := DeleteProduct(ctx, db, product.ID); err != nil {
		t.Fatalf("Delete product: %v", err)
	}

	rows, err := SalesToday(ctx, db, models.KindProduct)
	if err != nil {
		t.Fatalf("Sales today: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected the orphaned sale to survive, got %d rows", len(rows))
	}
	if rows[0].ItemName != "(deleted)" {
		t.Errorf("Expected placeholder name, got %q", rows[0].ItemName)
	}
}

func TestSalesTodayNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	service, err := CreateService(ctx, db, "Install")
	if err != nil {
		t.Fatalf("Create service: %v", err)
	}

	now := time.Now()
	backdateServiceSale(t, db, service.ID, decimal.NewFromInt(10), now.Add(-2*time.Hour))
	backdateServiceSale(t, db, service.ID, decimal.NewFromInt(20), now.Add(-1*time.Hour))

	rows, err := SalesToday(ctx, db, models.KindService)
	if err != nil {
		t.Fatalf("Sales today: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if !rows[0].Amount.Equal(decimal.NewFromInt(20)) {
		t.Errorf("Expected newest sale first, got: %+v", rows)
	}
}

func TestDailyHistoryTotals(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	product, err := CreateProduct(ctx, db, "Widget", "", decimal.NewFromInt(10), 10)
	if err != nil {
		t.Fatalf("Create product: %v", err)
	}
	service, err := CreateService(ctx, db, "Install")
	if err != nil {
		t.Fatalf("Create service: %v", err)
	}
	account, err := CreateStreamingAccount(ctx, db, "Netflix", decimal.NewFromInt(15))
	if err != nil {
		t.Fatalf("Create streaming account: %v", err)
	}

	yesterday := time.Now().AddDate(0, 0, -1)
	twoDaysAgo := time.Now().AddDate(0, 0, -2)

	backdateProductSale(t, db, product.ID, decimal.NewFromInt(30), yesterday)
	backdateServiceSale(t, db, service.ID, decimal.NewFromInt(20), yesterday)
	backdateStreamingSale(t, db, account.ID, decimal.NewFromInt(15), twoDaysAgo)

	// Today's revenue must never leak into the rollup.
	if _, err := RecordProductSale(ctx, db, product.ID, 1); err != nil {
		t.Fatalf("Record sale: %v", err)
	}

	totals, err := DailyHistoryTotals(ctx, db)
	if err != nil {
		t.Fatalf("Daily history totals: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("Expected 2 history rows, got %d: %+v", len(totals), totals)
	}

	today := time.Now().Format("2006-01-02")
	for _, row := range totals {
		if row.Date == today {
			t.Errorf("Rollup includes the current date: %+v", row)
		}
	}

	if totals[0].Date != yesterday.Format("2006-01-02") {
		t.Errorf("Expected newest date first, got: %+v", totals)
	}
	if !totals[0].Total.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Expected yesterday's total 50, got %s", totals[0].Total)
	}
	if !totals[1].Total.Equal(decimal.NewFromInt(15)) {
		t.Errorf("Expected two-days-ago total 15, got %s", totals[1].Total)
	}
}

func TestSalesTodayUnknownKind(t *testing.T) {
	db := setupTestDB(t)

	if _, err := SalesToday(context.Background(), db, models.Kind("voucher")); err == nil {
		t.Error("Expected an error for an unknown kind")
	}
}
