package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Dante110103/app-inventario/internal/config"
	_ "modernc.org/sqlite"
)

func NewConnection(cfg *config.DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
		cfg.Path, cfg.BusyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// sqlite allows a single writer; one pooled connection keeps
	// concurrent requests serialized by the engine instead of failing
	// with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS productos (
		id INTEGER PRIMARY KEY,
		nombre TEXT NOT NULL UNIQUE,
		codigo_barras TEXT UNIQUE,
		precio_venta TEXT NOT NULL,
		stock INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS ventas (
		id INTEGER PRIMARY KEY,
		producto_id INTEGER NOT NULL,
		cantidad INTEGER NOT NULL,
		precio_total TEXT NOT NULL,
		fecha_venta INTEGER NOT NULL,
		FOREIGN KEY (producto_id) REFERENCES productos (id)
	)`,
	`CREATE TABLE IF NOT EXISTS servicios (
		id INTEGER PRIMARY KEY,
		nombre TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS ventas_servicios (
		id INTEGER PRIMARY KEY,
		servicio_id INTEGER NOT NULL,
		valor_venta TEXT NOT NULL,
		fecha_venta INTEGER NOT NULL,
		FOREIGN KEY (servicio_id) REFERENCES servicios (id)
	)`,
	`CREATE TABLE IF NOT EXISTS streaming (
		id INTEGER PRIMARY KEY,
		nombre TEXT NOT NULL UNIQUE,
		precio_mensual TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ventas_streaming (
		id INTEGER PRIMARY KEY,
		streaming_id INTEGER NOT NULL,
		valor_venta TEXT NOT NULL,
		fecha_venta INTEGER NOT NULL,
		FOREIGN KEY (streaming_id) REFERENCES streaming (id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_productos_nombre ON productos(nombre)`,
	`CREATE INDEX IF NOT EXISTS idx_productos_codigo ON productos(codigo_barras)`,
}

// InitSchema creates the six tables and the search indexes. Every
// statement is idempotent, so it runs unconditionally at startup.
func InitSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
