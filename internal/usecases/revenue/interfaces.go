package revenue

import (
	"context"

	"github.com/appdotbuilder/revenue-dashboard/internal/domain"
)

// SalesFetcher é a capacidade de leitura do armazenamento de vendas consumida pelas consultas de receita.
// As linhas podem vir em qualquer ordem.
type SalesFetcher interface {
	FetchSales(ctx context.Context, filter domain.SalesFilter) ([]domain.SaleRecord, error)
}

// Reporter expõe as consultas de receita para as camadas de transporte
type Reporter interface {
	// TotalRevenue retorna a receita por período somando todos os produtos, em ordem crescente de período
	TotalRevenue(ctx context.Context, filter domain.RevenueFilter) ([]domain.RevenueDataPoint, error)

	// ProductBreakdown retorna a receita por produto e período, em ordem crescente de período e depois de produto
	ProductBreakdown(ctx context.Context, filter domain.RevenueFilter) ([]domain.RevenueDataPoint, error)
}
