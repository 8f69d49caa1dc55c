package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Sale struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	SaleDate    time.Time       `json:"sale_date"`
	CreatedAt   time.Time       `json:"created_at"`
}

type CreateSaleRequest struct {
	ProductID int64           `json:"product_id" validate:"required,gt=0"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	SaleDate  *time.Time      `json:"sale_date"` // Quando ausente, usa a data atual
}

// SaleRecord é a linha de venda já unida ao nome do produto, usada na agregação de receita
type SaleRecord struct {
	SaleID      int64
	ProductID   int64
	ProductName string
	Amount      decimal.Decimal
	SaleDate    time.Time
}

// SalesFilter é o filtro aplicado pelo repositório na busca de vendas.
// From é inclusivo e Until é exclusivo.
type SalesFilter struct {
	ProductIDs []int64
	From       *time.Time
	Until      *time.Time
}
