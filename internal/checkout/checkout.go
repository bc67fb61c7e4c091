// Package checkout turns a ticket into ledger entries and stock
// decrements.
package checkout

import (
	"context"
	"database/sql"

	"github.com/Dante110103/app-inventario/internal/cart"
	"github.com/Dante110103/app-inventario/internal/store"
)

// LineResult reports the outcome of committing one ticket line.
type LineResult struct {
	Line      cart.Line `json:"line"`
	Committed bool      `json:"committed"`
	Message   string    `json:"message,omitempty"`
}

// Commit drains the cart through the sales ledger in line order. Each
// line commits independently: a line that fails (stock may have run out
// since it was added) does not undo lines already recorded, and the
// remaining lines are still attempted. There is no ticket-level
// transaction; that is the accepted policy, not an oversight. The cart
// is cleared afterwards regardless of per-line outcomes.
func Commit(ctx context.Context, db *sql.DB, c *cart.Cart) []LineResult {
	results := make([]LineResult, 0, len(c.Lines))

	for _, line := range c.Lines {
		catalog, ok := store.CatalogFor(line.Kind)
		if !ok {
			results = append(results, LineResult{Line: line, Message: "unknown item kind"})
			continue
		}

		err := catalog.RecordSale(ctx, db, line.ItemID, line.Quantity, line.UnitPrice)
		if err != nil {
			results = append(results, LineResult{Line: line, Message: err.Error()})
			continue
		}

		results = append(results, LineResult{Line: line, Committed: true})
	}

	c.Clear()
	return results
}
