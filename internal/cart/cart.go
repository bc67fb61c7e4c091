// Package cart holds the in-progress ticket: an ordered list of line
// items a session has accumulated before checkout. Lines snapshot the
// catalog name and price at add time; later catalog edits do not change
// a ticket already in flight.
package cart

import (
	"errors"

	"github.com/Dante110103/app-inventario/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrInvalidValue    = errors.New("value must be greater than zero")
	ErrLineOutOfRange  = errors.New("no such line in the ticket")
)

type Line struct {
	Kind      models.Kind     `json:"kind"`
	ItemID    int64           `json:"item_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type Cart struct {
	Lines []Line `json:"lines"`
}

func New() *Cart {
	return &Cart{}
}

// AddProduct merges into an existing line for the same product instead
// of appending a duplicate; repeat adds accumulate quantity.
func (c *Cart) AddProduct(id int64, name string, unitPrice decimal.Decimal, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	for i := range c.Lines {
		line := &c.Lines[i]
		if line.Kind == models.KindProduct && line.ItemID == id {
			line.Quantity += quantity
			line.Subtotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
			return nil
		}
	}

	c.Lines = append(c.Lines, Line{
		Kind:      models.KindProduct,
		ItemID:    id,
		Name:      name,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Subtotal:  unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	})
	return nil
}

// AddService always appends: each add is a distinct sale intent even
// when the same service repeats.
func (c *Cart) AddService(id int64, name string, value decimal.Decimal) error {
	if !value.IsPositive() {
		return ErrInvalidValue
	}

	c.Lines = append(c.Lines, Line{
		Kind:      models.KindService,
		ItemID:    id,
		Name:      name,
		Quantity:  1,
		UnitPrice: value,
		Subtotal:  value,
	})
	return nil
}

// AddStreaming appends a line priced at the account's current monthly
// price. No merge, same as services.
func (c *Cart) AddStreaming(id int64, name string, monthlyPrice decimal.Decimal) {
	c.Lines = append(c.Lines, Line{
		Kind:      models.KindStreaming,
		ItemID:    id,
		Name:      name,
		Quantity:  1,
		UnitPrice: monthlyPrice,
		Subtotal:  monthlyPrice,
	})
}

// RemoveLine removes the line at the zero-based position and returns it.
func (c *Cart) RemoveLine(position int) (Line, error) {
	if position < 0 || position >= len(c.Lines) {
		return Line{}, ErrLineOutOfRange
	}

	removed := c.Lines[position]
	c.Lines = append(c.Lines[:position], c.Lines[position+1:]...)
	return removed, nil
}

func (c *Cart) Clear() {
	c.Lines = nil
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Subtotal)
	}
	return total
}

func (c *Cart) Len() int {
	return len(c.Lines)
}
