package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/Dante110103/app-inventario/internal/database"
	"github.com/Dante110103/app-inventario/internal/models"
	"github.com/shopspring/decimal"
)

func CreateProduct(ctx context.Context, db *sql.DB, name, barcode string, price decimal.Decimal, stock int) (*models.Product, error) {
	if err := validateProduct(name, price, stock); err != nil {
		return nil, err
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO productos (nombre, codigo_barras, precio_venta, stock)
		 VALUES (?, ?, ?, ?)`,
		strings.TrimSpace(name), nullableBarcode(barcode), price, stock)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return nil, fmt.Errorf("%w: a product with that name or barcode already exists", database.ErrDuplicateKey)
		}
		return nil, fmt.Errorf("create product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	return GetProduct(ctx, db, id)
}

func GetProduct(ctx context.Context, db *sql.DB, id int64) (*models.Product, error) {
	product := &models.Product{}
	var barcode sql.NullString

	err := db.QueryRowContext(ctx,
		`SELECT id, nombre, codigo_barras, precio_venta, stock
		 FROM productos
		 WHERE id = ?`,
		id).Scan(&product.ID, &product.Name, &barcode, &product.Price, &product.Stock)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: product %d", database.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	product.Barcode = barcode.String
	return product, nil
}

func ListProducts(ctx context.Context, db *sql.DB) ([]models.Product, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, nombre, codigo_barras, precio_venta, stock
		 FROM productos
		 ORDER BY nombre ASC`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func UpdateProduct(ctx context.Context, db *sql.DB, id int64, name, barcode string, price decimal.Decimal, stock int) error {
	if err := validateProduct(name, price, stock); err != nil {
		return err
	}

	result, err := db.ExecContext(ctx,
		`UPDATE productos
		 SET nombre = ?, codigo_barras = ?, precio_venta = ?, stock = ?
		 WHERE id = ?`,
		strings.TrimSpace(name), nullableBarcode(barcode), price, stock, id)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return fmt.Errorf("%w: another product already uses that name or barcode", database.ErrDuplicateKey)
		}
		return fmt.Errorf("update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: product %d", database.ErrNotFound, id)
	}

	return nil
}

// DeleteProduct removes the row if present. Historical sales referencing
// the product are kept; an absent id is not an error.
func DeleteProduct(ctx context.Context, db *sql.DB, id int64) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM productos WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// SearchProducts runs an exact barcode match when the query looks like a
// scanned code (all digits, at least 4 of them) and a bounded
// case-insensitive name match otherwise.
func SearchProducts(ctx context.Context, db *sql.DB, query string) ([]models.Product, error) {
	var rows *sql.Rows
	var err error

	if isBarcodeQuery(query) {
		rows, err = db.QueryContext(ctx,
			`SELECT id, nombre, codigo_barras, precio_venta, stock
			 FROM productos
			 WHERE codigo_barras = ?`,
			query)
	} else {
		rows, err = db.QueryContext(ctx,
			`SELECT id, nombre, codigo_barras, precio_venta, stock
			 FROM productos
			 WHERE nombre LIKE ?
			 ORDER BY nombre ASC
			 LIMIT 20`,
			"%"+query+"%")
	}
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// LowStockProducts feeds the reorder-suggestion view.
func LowStockProducts(ctx context.Context, db *sql.DB, threshold int) ([]models.Product, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, nombre, codigo_barras, precio_venta, stock
		 FROM productos
		 WHERE stock <= ?
		 ORDER BY stock ASC`,
		threshold)
	if err != nil {
		return nil, fmt.Errorf("low stock products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// RecordProductSale decrements stock and appends the ledger row in one
// transaction; either both persist or neither does.
func RecordProductSale(ctx context.Context, db *sql.DB, productID int64, quantity int) (*models.Sale, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", database.ErrInvalidInput)
	}

	var sale *models.Sale

	err := database.WithRetry(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		var price decimal.Decimal
		var stock int

		err := tx.QueryRowContext(ctx,
			`SELECT precio_venta, stock FROM productos WHERE id = ?`,
			productID).Scan(&price, &stock)
		if err != nil {
			if err == sql.ErrNoRows {
				return fmt.Errorf("%w: product %d", database.ErrNotFound, productID)
			}
			return fmt.Errorf("load product: %w", err)
		}

		if stock < quantity {
			return fmt.Errorf("%w: only %d left in stock", database.ErrInsufficientStock, stock)
		}

		result, err := tx.ExecContext(ctx,
			`UPDATE productos
			 SET stock = stock - ?
			 WHERE id = ?
			   AND stock >= ?`,
			quantity, productID, quantity)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return fmt.Errorf("%w: only %d left in stock", database.ErrInsufficientStock, stock)
		}

		now := time.Now()
		total := price.Mul(decimal.NewFromInt(int64(quantity)))

		res, err := tx.ExecContext(ctx,
			`INSERT INTO ventas (producto_id, cantidad, precio_total, fecha_venta)
			 VALUES (?, ?, ?, ?)`,
			productID, quantity, total, now.Unix())
		if err != nil {
			return fmt.Errorf("record sale: %w", err)
		}

		saleID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("record sale: %w", err)
		}

		sale = &models.Sale{
			ID:        saleID,
			ProductID: productID,
			Quantity:  quantity,
			Total:     total,
			SoldAt:    now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sale, nil
}

func validateProduct(name string, price decimal.Decimal, stock int) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name must not be empty", database.ErrInvalidInput)
	}
	if price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", database.ErrInvalidInput)
	}
	if stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", database.ErrInvalidInput)
	}
	return nil
}

// Empty barcodes are stored as NULL so the unique index ignores them.
func nullableBarcode(barcode string) sql.NullString {
	barcode = strings.TrimSpace(barcode)
	return sql.NullString{String: barcode, Valid: barcode != ""}
}

func isBarcodeQuery(query string) bool {
	if len(query) < 4 {
		return false
	}
	for _, r := range query {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func scanProducts(rows *sql.Rows) ([]models.Product, error) {
	var products []models.Product
	for rows.Next() {
		var product models.Product
		var barcode sql.NullString
		err := rows.Scan(&product.ID, &product.Name, &barcode, &product.Price, &product.Stock)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		product.Barcode = barcode.String
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return products, nil
}
