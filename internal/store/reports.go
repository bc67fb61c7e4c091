package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Dante110103/app-inventario/internal/models"
	"github.com/shopspring/decimal"
)

// TodayRow is one ledger entry on the current calendar date, joined with
// the catalog name. The join is LEFT so history survives catalog deletes.
type TodayRow struct {
	SaleID   int64           `json:"sale_id"`
	ItemName string          `json:"item_name"`
	Quantity int             `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
	SoldAt   time.Time       `json:"sold_at"`
}

// DailyTotal is one row of the historical rollup: the summed revenue of
// all three ledgers on a past calendar date.
type DailyTotal struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
}

const deletedItemName = "(deleted)"

var todayQueries = map[models.Kind]string{
	models.KindProduct: `
		SELECT v.id, COALESCE(p.nombre, '` + deletedItemName + `'), v.cantidad, v.precio_total, v.fecha_venta
		FROM ventas v
		LEFT JOIN productos p ON p.id = v.producto_id
		WHERE v.fecha_venta >= ? AND v.fecha_venta < ?
		ORDER BY v.fecha_venta DESC, v.id DESC`,
	models.KindService: `
		SELECT v.id, COALESCE(s.nombre, '` + deletedItemName + `'), 1, v.valor_venta, v.fecha_venta
		FROM ventas_servicios v
		LEFT JOIN servicios s ON s.id = v.servicio_id
		WHERE v.fecha_venta >= ? AND v.fecha_venta < ?
		ORDER BY v.fecha_venta DESC, v.id DESC`,
	models.KindStreaming: `
		SELECT v.id, COALESCE(s.nombre, '` + deletedItemName + `'), 1, v.valor_venta, v.fecha_venta
		FROM ventas_streaming v
		LEFT JOIN streaming s ON s.id = v.streaming_id
		WHERE v.fecha_venta >= ? AND v.fecha_venta < ?
		ORDER BY v.fecha_venta DESC, v.id DESC`,
}

// SalesToday returns the given kind's ledger entries for the current
// server-local calendar date, newest first.
func SalesToday(ctx context.Context, db *sql.DB, kind models.Kind) ([]TodayRow, error) {
	query, ok := todayQueries[kind]
	if !ok {
		return nil, fmt.Errorf("unknown catalog kind %q", kind)
	}

	start, end := dayBounds(time.Now())

	rows, err := db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("sales today: %w", err)
	}
	defer rows.Close()

	var report []TodayRow
	for rows.Next() {
		var row TodayRow
		var soldAt int64
		if err := rows.Scan(&row.SaleID, &row.ItemName, &row.Quantity, &row.Amount, &soldAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		row.SoldAt = time.Unix(soldAt, 0)
		report = append(report, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return report, nil
}

// SumAmounts totals a today report, mirroring the per-kind and grand
// totals shown on the reports page.
func SumAmounts(rows []TodayRow) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Amount)
	}
	return total
}

// DailyHistoryTotals rolls up all three ledgers into per-date revenue
// totals, newest first. The current date is excluded: today is always
// presented through SalesToday instead, never twice.
func DailyHistoryTotals(ctx context.Context, db *sql.DB) ([]DailyTotal, error) {
	query := `
		SELECT dia, SUM(importe)
		FROM (
			SELECT date(fecha_venta, 'unixepoch', 'localtime') AS dia, precio_total AS importe FROM ventas
			UNION ALL
			SELECT date(fecha_venta, 'unixepoch', 'localtime'), valor_venta FROM ventas_servicios
			UNION ALL
			SELECT date(fecha_venta, 'unixepoch', 'localtime'), valor_venta FROM ventas_streaming
		)
		WHERE dia <> ?
		GROUP BY dia
		ORDER BY dia DESC`

	rows, err := db.QueryContext(ctx, query, time.Now().Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("daily history totals: %w", err)
	}
	defer rows.Close()

	var totals []DailyTotal
	for rows.Next() {
		var total DailyTotal
		if err := rows.Scan(&total.Date, &total.Total); err != nil {
			return nil, fmt.Errorf("scan daily total: %w", err)
		}
		totals = append(totals, total)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return totals, nil
}

func dayBounds(t time.Time) (int64, int64) {
	year, month, day := t.Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	return start.Unix(), start.AddDate(0, 0, 1).Unix()
}
