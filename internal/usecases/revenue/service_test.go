package revenue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appdotbuilder/revenue-dashboard/internal/domain"
)

// memoryStore aplica o SalesFilter sobre vendas em memória e registra as chamadas
type memoryStore struct {
	mu      sync.Mutex
	rows    []domain.SaleRecord
	err     error
	calls   int
	filters []domain.SalesFilter
}

func (m *memoryStore) FetchSales(_ context.Context, filter domain.SalesFilter) ([]domain.SaleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.filters = append(m.filters, filter)

	if m.err != nil {
		return nil, m.err
	}

	return lo.Filter(m.rows, func(row domain.SaleRecord, _ int) bool {
		if len(filter.ProductIDs) > 0 && !lo.Contains(filter.ProductIDs, row.ProductID) {
			return false
		}
		if filter.From != nil && row.SaleDate.Before(*filter.From) {
			return false
		}
		if filter.Until != nil && !row.SaleDate.Before(*filter.Until) {
			return false
		}
		return true
	}), nil
}

func (m *memoryStore) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func dayPtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func januaryStore() *memoryStore {
	return &memoryStore{rows: []domain.SaleRecord{
		sale(1, "A", "40.00", time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC)),
		sale(2, "B", "60.00", time.Date(2024, time.January, 20, 18, 30, 0, 0, time.UTC)),
	}}
}

func TestService_TotalRevenue(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		filter domain.RevenueFilter
		want   []domain.RevenueDataPoint
	}{
		{
			name:   "todos os produtos no mês",
			filter: domain.RevenueFilter{Granularity: domain.GranularityMonthly},
			want: []domain.RevenueDataPoint{
				{Period: "2024-01", Revenue: decimal.RequireFromString("100")},
			},
		},
		{
			name:   "granularidade vazia usa mensal",
			filter: domain.RevenueFilter{},
			want: []domain.RevenueDataPoint{
				{Period: "2024-01", Revenue: decimal.RequireFromString("100")},
			},
		},
		{
			name:   "anual",
			filter: domain.RevenueFilter{Granularity: domain.GranularityYearly},
			want: []domain.RevenueDataPoint{
				{Period: "2024", Revenue: decimal.RequireFromString("100")},
			},
		},
		{
			name:   "diário ordenado por período",
			filter: domain.RevenueFilter{Granularity: domain.GranularityDaily},
			want: []domain.RevenueDataPoint{
				{Period: "2024-01-10", Revenue: decimal.RequireFromString("40")},
				{Period: "2024-01-20", Revenue: decimal.RequireFromString("60")},
			},
		},
		{
			name:   "intervalo sem vendas",
			filter: domain.RevenueFilter{StartDate: dayPtr(2023, time.January, 1), EndDate: dayPtr(2023, time.December, 31)},
			want:   []domain.RevenueDataPoint{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(januaryStore(), time.UTC)

			got, err := svc.TotalRevenue(ctx, tt.filter)
			require.NoError(t, err)
			require.NotNil(t, got)
			require.Len(t, got, len(tt.want))

			for i := range tt.want {
				assert.Equal(t, tt.want[i].Period, got[i].Period)
				assert.True(t, tt.want[i].Revenue.Equal(got[i].Revenue), "receita %s", got[i].Revenue)
				assert.False(t, got[i].ProductID.IsSet())
				assert.False(t, got[i].ProductName.IsSet())
			}
		})
	}
}

func TestService_TotalRevenue_singleProductFilter(t *testing.T) {
	svc := NewService(januaryStore(), time.UTC)

	got, err := svc.TotalRevenue(context.Background(), domain.RevenueFilter{ProductIDs: []int64{1}})
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "2024-01", got[0].Period)
	assert.Equal(t, "40.00", got[0].Revenue.StringFixed(2))
	assert.Equal(t, int64(1), got[0].ProductID.OrElse(0))
	assert.Equal(t, "A", got[0].ProductName.OrElse(""))
}

func TestService_ProductBreakdown(t *testing.T) {
	svc := NewService(januaryStore(), time.UTC)

	got, err := svc.ProductBreakdown(context.Background(), domain.RevenueFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "2024-01", got[0].Period)
	assert.Equal(t, int64(1), got[0].ProductID.OrElse(0))
	assert.Equal(t, "A", got[0].ProductName.OrElse(""))
	assert.Equal(t, "40.00", got[0].Revenue.StringFixed(2))

	assert.Equal(t, "2024-01", got[1].Period)
	assert.Equal(t, int64(2), got[1].ProductID.OrElse(0))
	assert.Equal(t, "B", got[1].ProductName.OrElse(""))
	assert.Equal(t, "60.00", got[1].Revenue.StringFixed(2))
}

func TestService_ProductBreakdown_sortsByPeriodThenProduct(t *testing.T) {
	store := &memoryStore{rows: []domain.SaleRecord{
		sale(3, "C", "1", date(2024, time.February, 1)),
		sale(2, "B", "1", date(2024, time.January, 1)),
		sale(1, "A", "1", date(2024, time.February, 1)),
		sale(3, "C", "1", date(2024, time.January, 1)),
	}}
	svc := NewService(store, time.UTC)

	got, err := svc.ProductBreakdown(context.Background(), domain.RevenueFilter{})
	require.NoError(t, err)

	type key struct {
		period string
		id     int64
	}
	keys := lo.Map(got, func(p domain.RevenueDataPoint, _ int) key {
		return key{p.Period, p.ProductID.OrElse(0)}
	})
	assert.Equal(t, []key{{"2024-01", 2}, {"2024-01", 3}, {"2024-02", 1}, {"2024-02", 3}}, keys)
}

func TestService_endDateIncludesWholeDay(t *testing.T) {
	store := &memoryStore{rows: []domain.SaleRecord{
		sale(1, "A", "10", time.Date(2024, time.January, 31, 23, 59, 0, 0, time.UTC)),
		sale(1, "A", "99", time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)),
	}}
	svc := NewService(store, time.UTC)

	got, err := svc.TotalRevenue(context.Background(), domain.RevenueFilter{
		StartDate: dayPtr(2024, time.January, 31),
		EndDate:   dayPtr(2024, time.January, 31),
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "10.00", got[0].Revenue.StringFixed(2))

	require.Len(t, store.filters, 1)
	assert.Equal(t, time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC), *store.filters[0].From)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), *store.filters[0].Until)
}

func TestService_normalizesProductIDs(t *testing.T) {
	store := januaryStore()
	svc := NewService(store, time.UTC)

	_, err := svc.TotalRevenue(context.Background(), domain.RevenueFilter{ProductIDs: []int64{2, 1, 2}})
	require.NoError(t, err)

	require.Len(t, store.filters, 1)
	assert.Equal(t, []int64{1, 2}, store.filters[0].ProductIDs)
}

func TestService_storeErrorIsReturnedUnchanged(t *testing.T) {
	storeErr := errors.New("conexão recusada")
	svc := NewService(&memoryStore{err: storeErr}, time.UTC)

	_, err := svc.TotalRevenue(context.Background(), domain.RevenueFilter{})
	assert.Same(t, storeErr, err)

	_, err = svc.ProductBreakdown(context.Background(), domain.RevenueFilter{})
	assert.Same(t, storeErr, err)
}

func TestService_invalidFiltersNeverReachStore(t *testing.T) {
	tests := []struct {
		name   string
		filter domain.RevenueFilter
	}{
		{"granularidade desconhecida", domain.RevenueFilter{Granularity: "hourly"}},
		{"produto zero", domain.RevenueFilter{ProductIDs: []int64{0}}},
		{"produto negativo", domain.RevenueFilter{ProductIDs: []int64{1, -4}}},
		{"início depois do fim", domain.RevenueFilter{
			StartDate: dayPtr(2024, time.February, 2),
			EndDate:   dayPtr(2024, time.February, 1),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := januaryStore()
			svc := NewService(store, time.UTC)

			_, err := svc.TotalRevenue(context.Background(), tt.filter)
			assert.True(t, IsInvalidFilter(err), "erro %v", err)

			_, err = svc.ProductBreakdown(context.Background(), tt.filter)
			assert.True(t, IsInvalidFilter(err), "erro %v", err)

			assert.Zero(t, store.callCount())
		})
	}
}

func TestService_sameDayRangeIsValid(t *testing.T) {
	svc := NewService(januaryStore(), time.UTC)

	got, err := svc.TotalRevenue(context.Background(), domain.RevenueFilter{
		StartDate: dayPtr(2024, time.January, 10),
		EndDate:   dayPtr(2024, time.January, 10),
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "40.00", got[0].Revenue.StringFixed(2))
}

func TestService_revenueScenarios(t *testing.T) {
	sameDay := []domain.SaleRecord{
		sale(1, "A", "30.00", time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)),
		sale(1, "A", "10.00", time.Date(2024, time.January, 15, 13, 0, 0, 0, time.UTC)),
		sale(2, "B", "60.00", time.Date(2024, time.January, 15, 17, 0, 0, 0, time.UTC)),
	}
	consecutiveDays := []domain.SaleRecord{
		sale(1, "A", "30.00", time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)),
		sale(1, "A", "20.00", time.Date(2024, time.January, 16, 10, 0, 0, 0, time.UTC)),
	}

	type wantPoint struct {
		period      string
		revenue     string
		productID   int64
		productName string
	}

	tests := []struct {
		name        string
		rows        []domain.SaleRecord
		breakdown   bool
		granularity domain.Granularity
		want        []wantPoint
	}{
		{
			name:        "total diário soma os dois produtos",
			rows:        sameDay,
			granularity: domain.GranularityDaily,
			want:        []wantPoint{{period: "2024-01-15", revenue: "100.00"}},
		},
		{
			name:        "quebra diária separa os produtos",
			rows:        sameDay,
			breakdown:   true,
			granularity: domain.GranularityDaily,
			want: []wantPoint{
				{period: "2024-01-15", revenue: "40.00", productID: 1, productName: "A"},
				{period: "2024-01-15", revenue: "60.00", productID: 2, productName: "B"},
			},
		},
		{
			name:        "anual junta dias seguidos",
			rows:        consecutiveDays,
			granularity: domain.GranularityYearly,
			want:        []wantPoint{{period: "2024", revenue: "50.00", productID: 1, productName: "A"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&memoryStore{rows: tt.rows}, time.UTC)
			filter := domain.RevenueFilter{Granularity: tt.granularity}

			var (
				points []domain.RevenueDataPoint
				err    error
			)
			if tt.breakdown {
				points, err = svc.ProductBreakdown(context.Background(), filter)
			} else {
				points, err = svc.TotalRevenue(context.Background(), filter)
			}
			require.NoError(t, err)
			require.Len(t, points, len(tt.want))

			for i, want := range tt.want {
				assert.Equal(t, want.period, points[i].Period)
				assert.Equal(t, want.revenue, points[i].Revenue.StringFixed(2))

				id, hasID := points[i].ProductID.Get()
				assert.Equal(t, want.productID != 0, hasID)
				assert.Equal(t, want.productID, id)
				assert.Equal(t, want.productName, points[i].ProductName.OrElse(""))
			}
		})
	}
}
