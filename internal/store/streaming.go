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

func CreateStreamingAccount(ctx context.Context, db *sql.DB, name string, monthlyPrice decimal.Decimal) (*models.StreamingAccount, error) {
	if err := validateStreamingAccount(name, monthlyPrice); err != nil {
		return nil, err
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO streaming (nombre, precio_mensual) VALUES (?, ?)`,
		strings.TrimSpace(name), monthlyPrice)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return nil, fmt.Errorf("%w: a streaming account with that name already exists", database.ErrDuplicateKey)
		}
		return nil, fmt.Errorf("create streaming account: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create streaming account: %w", err)
	}

	return GetStreamingAccount(ctx, db, id)
}

func GetStreamingAccount(ctx context.Context, db *sql.DB, id int64) (*models.StreamingAccount, error) {
	account := &models.StreamingAccount{}

	err := db.QueryRowContext(ctx,
		`SELECT id, nombre, precio_mensual FROM streaming WHERE id = ?`,
		id).Scan(&account.ID, &account.Name, &account.MonthlyPrice)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: streaming account %d", database.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get streaming account: %w", err)
	}

	return account, nil
}

func ListStreamingAccounts(ctx context.Context, db *sql.DB) ([]models.StreamingAccount, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, nombre, precio_mensual FROM streaming ORDER BY nombre ASC`)
	if err != nil {
		return nil, fmt.Errorf("list streaming accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.StreamingAccount
	for rows.Next() {
		var account models.StreamingAccount
		if err := rows.Scan(&account.ID, &account.Name, &account.MonthlyPrice); err != nil {
			return nil, fmt.Errorf("scan streaming account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return accounts, nil
}

func UpdateStreamingAccount(ctx context.Context, db *sql.DB, id int64, name string, monthlyPrice decimal.Decimal) error {
	if err := validateStreamingAccount(name, monthlyPrice); err != nil {
		return err
	}

	result, err := db.ExecContext(ctx,
		`UPDATE streaming SET nombre = ?, precio_mensual = ? WHERE id = ?`,
		strings.TrimSpace(name), monthlyPrice, id)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return fmt.Errorf("%w: another streaming account already uses that name", database.ErrDuplicateKey)
		}
		return fmt.Errorf("update streaming account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: streaming account %d", database.ErrNotFound, id)
	}

	return nil
}

func DeleteStreamingAccount(ctx context.Context, db *sql.DB, id int64) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM streaming WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete streaming account: %w", err)
	}
	return nil
}

// RecordStreamingSale appends a ledger row. The value is the monthly
// price snapshotted when the line was added to the ticket.
func RecordStreamingSale(ctx context.Context, db *sql.DB, accountID int64, value decimal.Decimal) (*models.StreamingSale, error) {
	if _, err := GetStreamingAccount(ctx, db, accountID); err != nil {
		return nil, err
	}

	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO ventas_streaming (streaming_id, valor_venta, fecha_venta)
		 VALUES (?, ?, ?)`,
		accountID, value, now.Unix())
	if err != nil {
		return nil, fmt.Errorf("record streaming sale: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("record streaming sale: %w", err)
	}

	return &models.StreamingSale{
		ID:          id,
		StreamingID: accountID,
		Value:       value,
		SoldAt:      now,
	}, nil
}

func validateStreamingAccount(name string, monthlyPrice decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name must not be empty", database.ErrInvalidInput)
	}
	if monthlyPrice.IsNegative() {
		return fmt.Errorf("%w: monthly price must not be negative", database.ErrInvalidInput)
	}
	return nil
}
