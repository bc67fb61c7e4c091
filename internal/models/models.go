package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies one of the three sellable catalog types.
type Kind string

const (
	KindProduct   Kind = "product"
	KindService   Kind = "service"
	KindStreaming Kind = "streaming"
)

type Product struct {
	ID      int64           `json:"id"`
	Name    string          `json:"name"`
	Barcode string          `json:"barcode,omitempty"`
	Price   decimal.Decimal `json:"price"`
	Stock   int             `json:"stock"`
}

type Service struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type StreamingAccount struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
}

type Sale struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
	SoldAt    time.Time       `json:"sold_at"`
}

type ServiceSale struct {
	ID        int64           `json:"id"`
	ServiceID int64           `json:"service_id"`
	Value     decimal.Decimal `json:"value"`
	SoldAt    time.Time       `json:"sold_at"`
}

type StreamingSale struct {
	ID          int64           `json:"id"`
	StreamingID int64           `json:"streaming_id"`
	Value       decimal.Decimal `json:"value"`
	SoldAt      time.Time       `json:"sold_at"`
}
