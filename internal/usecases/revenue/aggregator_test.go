package revenue

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appdotbuilder/revenue-dashboard/internal/domain"
)

func sale(productID int64, name, amount string, at time.Time) domain.SaleRecord {
	return domain.SaleRecord{
		ProductID:   productID,
		ProductName: name,
		Amount:      decimal.RequireFromString(amount),
		SaleDate:    at,
	}
}

func totalOf(points []domain.RevenueDataPoint) decimal.Decimal {
	total := decimal.Zero
	for _, p := range points {
		total = total.Add(p.Revenue)
	}
	return total
}

func TestAggregate_emptyInput(t *testing.T) {
	points := Aggregate(nil, domain.GranularityMonthly, false, time.UTC)
	require.NotNil(t, points)
	assert.Empty(t, points)

	points = Aggregate([]domain.SaleRecord{}, domain.GranularityDaily, true, time.UTC)
	require.NotNil(t, points)
	assert.Empty(t, points)
}

func TestAggregate_totalAcrossProducts(t *testing.T) {
	rows := []domain.SaleRecord{
		sale(1, "A", "40.00", date(2024, time.January, 10)),
		sale(2, "B", "60.00", date(2024, time.January, 20)),
	}

	points := Aggregate(rows, domain.GranularityMonthly, false, time.UTC)

	require.Len(t, points, 1)
	assert.Equal(t, "2024-01", points[0].Period)
	assert.True(t, decimal.RequireFromString("100").Equal(points[0].Revenue))
	assert.False(t, points[0].ProductID.IsSet())
	assert.False(t, points[0].ProductName.IsSet())
}

func TestAggregate_breakdownKeepsProductsApart(t *testing.T) {
	rows := []domain.SaleRecord{
		sale(1, "A", "40.00", date(2024, time.January, 10)),
		sale(2, "B", "60.00", date(2024, time.January, 20)),
		sale(1, "A", "5.50", date(2024, time.January, 21)),
	}

	points := Aggregate(rows, domain.GranularityMonthly, true, time.UTC)
	require.Len(t, points, 2)

	byProduct := make(map[int64]domain.RevenueDataPoint)
	for _, p := range points {
		id, ok := p.ProductID.Get()
		require.True(t, ok)
		assert.True(t, p.ProductName.IsSet())
		byProduct[id] = p
	}

	assert.Equal(t, "45.5", byProduct[1].Revenue.String())
	assert.Equal(t, "60", byProduct[2].Revenue.String())
	assert.Equal(t, "A", byProduct[1].ProductName.OrElse(""))
	assert.Equal(t, "B", byProduct[2].ProductName.OrElse(""))
}

func TestAggregate_singleProductCarriesIdentity(t *testing.T) {
	rows := []domain.SaleRecord{
		sale(7, "Widget", "10.00", date(2024, time.January, 10)),
		sale(7, "Widget", "15.00", date(2024, time.February, 10)),
	}

	points := Aggregate(rows, domain.GranularityMonthly, false, time.UTC)
	require.Len(t, points, 2)
	for _, p := range points {
		assert.Equal(t, int64(7), p.ProductID.OrElse(0))
		assert.Equal(t, "Widget", p.ProductName.OrElse(""))
	}
}

func TestAggregate_singleProductWithConflictingNamesOmitsName(t *testing.T) {
	rows := []domain.SaleRecord{
		sale(7, "Widget", "10.00", date(2024, time.January, 10)),
		sale(7, "Widget v2", "15.00", date(2024, time.January, 11)),
	}

	points := Aggregate(rows, domain.GranularityMonthly, false, time.UTC)
	require.Len(t, points, 1)
	assert.Equal(t, int64(7), points[0].ProductID.OrElse(0))
	assert.False(t, points[0].ProductName.IsSet())
}

func TestAggregate_conservesRevenue(t *testing.T) {
	rows := []domain.SaleRecord{
		sale(1, "A", "0.10", date(2023, time.December, 31)),
		sale(1, "A", "0.20", date(2024, time.January, 1)),
		sale(2, "B", "19.99", date(2024, time.January, 7)),
		sale(3, "C", "1000.01", date(2024, time.June, 30)),
		sale(2, "B", "0.01", date(2025, time.January, 1)),
	}

	want := decimal.RequireFromString("1020.31")

	for _, g := range domain.Granularities {
		for _, byProduct := range []bool{false, true} {
			points := Aggregate(rows, g, byProduct, time.UTC)
			assert.True(t, want.Equal(totalOf(points)), "granularidade %s, por produto %v", g, byProduct)
		}
	}
}

func TestAggregate_bucketsAreUnique(t *testing.T) {
	rows := []domain.SaleRecord{
		sale(1, "A", "1", date(2024, time.January, 1)),
		sale(2, "B", "2", date(2024, time.January, 1)),
		sale(1, "A", "3", date(2024, time.January, 1)),
		sale(1, "A", "4", date(2024, time.January, 2)),
	}

	points := Aggregate(rows, domain.GranularityDaily, true, time.UTC)
	seen := make(map[string]bool)
	for _, p := range points {
		key := p.Period + "/" + p.ProductName.OrElse("")
		assert.False(t, seen[key], "balde repetido %s", key)
		seen[key] = true
	}
	assert.Len(t, points, 3)
}

func TestAggregate_exactDecimalSums(t *testing.T) {
	var rows []domain.SaleRecord
	for i := 0; i < 10; i++ {
		rows = append(rows, sale(1, "A", "0.10", date(2024, time.May, 1)))
	}

	points := Aggregate(rows, domain.GranularityYearly, false, time.UTC)
	require.Len(t, points, 1)
	assert.Equal(t, "1.00", points[0].Revenue.StringFixed(2))
	assert.True(t, decimal.NewFromInt(1).Equal(points[0].Revenue))
}
