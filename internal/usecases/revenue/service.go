package revenue

import (
	"context"
	"sort"
	"time"

	"github.com/appdotbuilder/revenue-dashboard/internal/domain"
	"github.com/appdotbuilder/revenue-dashboard/pkg/log"
	"github.com/samber/lo"
)

// Service implementa as consultas de receita sobre um SalesFetcher injetado
type Service struct {
	store    SalesFetcher
	location *time.Location
}

// NewService cria o serviço de receita. loc é o calendário usado para os períodos e para os limites de data.
func NewService(store SalesFetcher, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}

	return &Service{
		store:    store,
		location: loc,
	}
}

// TotalRevenue soma a receita de todos os produtos filtrados por período
func (s *Service) TotalRevenue(ctx context.Context, filter domain.RevenueFilter) ([]domain.RevenueDataPoint, error) {
	points, err := s.query(ctx, filter, false)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Period < points[j].Period
	})

	return points, nil
}

// ProductBreakdown mantém a receita separada por produto dentro de cada período
func (s *Service) ProductBreakdown(ctx context.Context, filter domain.RevenueFilter) ([]domain.RevenueDataPoint, error) {
	points, err := s.query(ctx, filter, true)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(points, func(i, j int) bool {
		if points[i].Period != points[j].Period {
			return points[i].Period < points[j].Period
		}
		return points[i].ProductID.OrElse(0) < points[j].ProductID.OrElse(0)
	})

	return points, nil
}

func (s *Service) query(ctx context.Context, filter domain.RevenueFilter, groupByProduct bool) ([]domain.RevenueDataPoint, error) {
	logger := log.ForContext(ctx)

	filter, err := NormalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	salesFilter := s.salesFilter(filter)
	rows, err := s.store.FetchSales(ctx, salesFilter)
	if err != nil {
		logger.WithError(err).WithFields(log.Fields{
			"granularity": filter.Granularity,
			"products":    len(filter.ProductIDs),
		}).Error("revenue: erro ao buscar vendas")
		return nil, err
	}

	points := Aggregate(rows, filter.Granularity, groupByProduct, s.location)

	logger.WithFields(log.Fields{
		"granularity":      filter.Granularity,
		"group_by_product": groupByProduct,
		"rows":             len(rows),
		"points":           len(points),
	}).Debug("revenue: consulta agregada")

	return points, nil
}

// salesFilter converte os dias de calendário inclusivos em limites de instante:
// From no início do dia inicial e Until no início do dia seguinte ao final.
func (s *Service) salesFilter(filter domain.RevenueFilter) domain.SalesFilter {
	salesFilter := domain.SalesFilter{
		ProductIDs: filter.ProductIDs,
	}

	if filter.StartDate != nil {
		from := startOfDay(*filter.StartDate, s.location)
		salesFilter.From = &from
	}

	if filter.EndDate != nil {
		until := startOfDay(*filter.EndDate, s.location).AddDate(0, 0, 1)
		salesFilter.Until = &until
	}

	return salesFilter
}

// NormalizeFilter valida os filtros e aplica os padrões: granularidade mensal e
// produtos sem repetição em ordem crescente.
func NormalizeFilter(filter domain.RevenueFilter) (domain.RevenueFilter, error) {
	if filter.Granularity == "" {
		filter.Granularity = domain.DefaultGranularity
	}
	if !filter.Granularity.Valid() {
		return filter, invalidFilter("granularidade desconhecida %q", filter.Granularity)
	}

	for _, id := range filter.ProductIDs {
		if id <= 0 {
			return filter, invalidFilter("id de produto inválido %d", id)
		}
	}

	if len(filter.ProductIDs) > 0 {
		ids := lo.Uniq(filter.ProductIDs)
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		filter.ProductIDs = ids
	} else {
		filter.ProductIDs = nil
	}

	if filter.StartDate != nil && filter.EndDate != nil && calendarDay(*filter.StartDate).After(calendarDay(*filter.EndDate)) {
		return filter, invalidFilter("start_date %s posterior a end_date %s",
			filter.StartDate.Format(time.DateOnly), filter.EndDate.Format(time.DateOnly))
	}

	return filter, nil
}

// startOfDay usa o dia de calendário de t (na localização do próprio t) à meia-noite em loc
func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func calendarDay(t time.Time) time.Time {
	return startOfDay(t, time.UTC)
}
