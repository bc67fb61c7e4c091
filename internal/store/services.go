package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Dante110103/app-inventario/internal/database"
	"github.com/Dante110103/app-inventario/internal/models"
	"github.com/shopspring/decimal"
)

func CreateService(ctx context.Context, db *sql.DB, name string) (*models.Service, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name must not be empty", database.ErrInvalidInput)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO servicios (nombre) VALUES (?)`,
		strings.TrimSpace(name))
	if err != nil {
		if database.IsDuplicateKey(err) {
			return nil, fmt.Errorf("%w: a service with that name already exists", database.ErrDuplicateKey)
		}
		return nil, fmt.Errorf("create service: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}

	return GetService(ctx, db, id)
}

func GetService(ctx context.Context, db *sql.DB, id int64) (*models.Service, error) {
	service := &models.Service{}

	err := db.QueryRowContext(ctx,
		`SELECT id, nombre FROM servicios WHERE id = ?`,
		id).Scan(&service.ID, &service.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: service %d", database.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get service: %w", err)
	}

	return service, nil
}

func ListServices(ctx context.Context, db *sql.DB) ([]models.Service, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, nombre FROM servicios ORDER BY nombre ASC`)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var services []models.Service
	for rows.Next() {
		var service models.Service
		if err := rows.Scan(&service.ID, &service.Name); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, service)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return services, nil
}

func UpdateService(ctx context.Context, db *sql.DB, id int64, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name must not be empty", database.ErrInvalidInput)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE servicios SET nombre = ? WHERE id = ?`,
		strings.TrimSpace(name), id)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return fmt.Errorf("%w: another service already uses that name", database.ErrDuplicateKey)
		}
		return fmt.Errorf("update service: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: service %d", database.ErrNotFound, id)
	}

	return nil
}

func DeleteService(ctx context.Context, db *sql.DB, id int64) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM servicios WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	return nil
}

// RecordServiceSale appends a ledger row with the value chosen at sale
// time. Services have no stock.
func RecordServiceSale(ctx context.Context, db *sql.DB, serviceID int64, value decimal.Decimal) (*models.ServiceSale, error) {
	if _, err := GetService(ctx, db, serviceID); err != nil {
		return nil, err
	}

	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO ventas_servicios (servicio_id, valor_venta, fecha_venta)
		 VALUES (?, ?, ?)`,
		serviceID, value, now.Unix())
	if err != nil {
		return nil, fmt.Errorf("record service sale: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("record service sale: %w", err)
	}

	return &models.ServiceSale{
		ID:        id,
		ServiceID: serviceID,
		Value:     value,
		SoldAt:    now,
	}, nil
}
