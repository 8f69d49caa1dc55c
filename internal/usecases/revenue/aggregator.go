package revenue

import (
	"time"

	"github.com/appdotbuilder/revenue-dashboard/internal/domain"
	"github.com/appdotbuilder/revenue-dashboard/pkg/optional"
	"github.com/shopspring/decimal"
)

// aggregationKey identifica um balde. productID fica zerado quando não há quebra por produto.
type aggregationKey struct {
	productID int64
	period    string
}

// accumulator guarda a soma parcial de um balde e os nomes de produto vistos nele
type accumulator struct {
	period    string
	productID int64
	firstName string
	names     map[string]struct{}
	revenue   decimal.Decimal
}

// Aggregate agrupa as vendas por período (e por produto quando groupByProduct) somando os valores.
// O resultado não é ordenado.
//
// Sem quebra por produto, o produto só é informado quando todas as linhas da entrada são do mesmo produto.
func Aggregate(rows []domain.SaleRecord, g domain.Granularity, groupByProduct bool, loc *time.Location) []domain.RevenueDataPoint {
	buckets := make(map[aggregationKey]*accumulator)
	order := make([]aggregationKey, 0)
	products := make(map[int64]struct{})

	for _, row := range rows {
		period := FormatPeriod(row.SaleDate, g, loc)

		key := aggregationKey{period: period}
		if groupByProduct {
			key.productID = row.ProductID
		}

		acc, ok := buckets[key]
		if !ok {
			acc = &accumulator{
				period:    period,
				productID: row.ProductID,
				firstName: row.ProductName,
				names:     make(map[string]struct{}),
				revenue:   decimal.Zero,
			}
			buckets[key] = acc
			order = append(order, key)
		}

		acc.revenue = acc.revenue.Add(row.Amount)
		acc.names[row.ProductName] = struct{}{}
		products[row.ProductID] = struct{}{}
	}

	singleProduct := len(products) == 1

	points := make([]domain.RevenueDataPoint, 0, len(order))
	for _, key := range order {
		acc := buckets[key]

		point := domain.RevenueDataPoint{
			Period:  acc.period,
			Revenue: acc.revenue,
		}

		switch {
		case groupByProduct:
			point.ProductID = optional.Some(acc.productID)
			point.ProductName = optional.Some(acc.firstName)
		case singleProduct:
			point.ProductID = optional.Some(acc.productID)
			if len(acc.names) == 1 {
				point.ProductName = optional.Some(acc.firstName)
			}
		}

		points = append(points, point)
	}

	return points
}
