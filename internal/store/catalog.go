package store

import (
	"context"
	"database/sql"

	"github.com/Dante110103/app-inventario/internal/models"
	"github.com/shopspring/decimal"
)

// Entry is the common view of a catalog row shared by all three kinds,
// used when adding to the ticket and when committing it.
type Entry struct {
	ID        int64
	Name      string
	UnitPrice decimal.Decimal
}

// Catalog unifies the per-kind stores behind one lookup and one
// sale-recording hook, so the cart and checkout paths dispatch by kind
// instead of duplicating per-kind wiring.
type Catalog interface {
	Kind() models.Kind
	Lookup(ctx context.Context, db *sql.DB, id int64) (*Entry, error)
	RecordSale(ctx context.Context, db *sql.DB, id int64, quantity int, value decimal.Decimal) error
}

func CatalogFor(kind models.Kind) (Catalog, bool) {
	switch kind {
	case models.KindProduct:
		return productCatalog{}, true
	case models.KindService:
		return serviceCatalog{}, true
	case models.KindStreaming:
		return streamingCatalog{}, true
	}
	return nil, false
}

type productCatalog struct{}

func (productCatalog) Kind() models.Kind { return models.KindProduct }

func (productCatalog) Lookup(ctx context.Context, db *sql.DB, id int64) (*Entry, error) {
	product, err := GetProduct(ctx, db, id)
	if err != nil {
		return nil, err
	}
	return &Entry{ID: product.ID, Name: product.Name, UnitPrice: product.Price}, nil
}

func (productCatalog) RecordSale(ctx context.Context, db *sql.DB, id int64, quantity int, _ decimal.Decimal) error {
	_, err := RecordProductSale(ctx, db, id, quantity)
	return err
}

type serviceCatalog struct{}

func (serviceCatalog) Kind() models.Kind { return models.KindService }

func (serviceCatalog) Lookup(ctx context.Context, db *sql.DB, id int64) (*Entry, error) {
	service, err := GetService(ctx, db, id)
	if err != nil {
		return nil, err
	}
	// Services carry no catalog price; the value is chosen at sale time.
	return &Entry{ID: service.ID, Name: service.Name}, nil
}

func (serviceCatalog) RecordSale(ctx context.Context, db *sql.DB, id int64, _ int, value decimal.Decimal) error {
	_, err := RecordServiceSale(ctx, db, id, value)
	return err
}

type streamingCatalog struct{}

func (streamingCatalog) Kind() models.Kind { return models.KindStreaming }

func (streamingCatalog) Lookup(ctx context.Context, db *sql.DB, id int64) (*Entry, error) {
	account, err := GetStreamingAccount(ctx, db, id)
	if err != nil {
		return nil, err
	}
	return &Entry{ID: account.ID, Name: account.Name, UnitPrice: account.MonthlyPrice}, nil
}

func (streamingCatalog) RecordSale(ctx context.Context, db *sql.DB, id int64, _ int, value decimal.Decimal) error {
	_, err := RecordStreamingSale(ctx, db, id, value)
	return err
}
