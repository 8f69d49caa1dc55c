package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gocarina/gocsv"
	"github.com/samber/lo"

	"github.com/appdotbuilder/revenue-dashboard/internal/domain"
	"github.com/appdotbuilder/revenue-dashboard/internal/usecases/revenue"
	"github.com/appdotbuilder/revenue-dashboard/pkg/apiErrors"
	"github.com/appdotbuilder/revenue-dashboard/pkg/log"
	"github.com/appdotbuilder/revenue-dashboard/pkg/utils"
)

const (
	formatJSON = "json"
	formatCSV  = "csv"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// revenueQuery são os parâmetros aceitos pelas rotas de receita
type revenueQuery struct {
	ProductIDs  string `validate:"omitempty,max=2048"`
	StartDate   string `validate:"omitempty,datetime=2006-01-02"`
	EndDate     string `validate:"omitempty,datetime=2006-01-02"`
	Granularity string `validate:"omitempty,oneof=yearly monthly weekly daily"`
	Format      string `validate:"omitempty,oneof=json csv"`
}

// revenueCSVRow é a linha exportada em ?format=csv
type revenueCSVRow struct {
	Period      string `csv:"period"`
	Revenue     string `csv:"revenue"`
	ProductID   string `csv:"product_id"`
	ProductName string `csv:"product_name"`
}

type revenueQueryFunc func(context.Context, domain.RevenueFilter) ([]domain.RevenueDataPoint, error)

// TotalRevenue retorna a receita somada de todos os produtos filtrados por período
func TotalRevenue(reporter revenue.Reporter, loc *time.Location) http.Handler {
	return revenueHandler("revenue-total", reporter.TotalRevenue, loc)
}

// ProductBreakdown retorna a receita por produto em cada período
func ProductBreakdown(reporter revenue.Reporter, loc *time.Location) http.Handler {
	return revenueHandler("revenue-breakdown", reporter.ProductBreakdown, loc)
}

func revenueHandler(name string, query revenueQueryFunc, loc *time.Location) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		params := r.URL.Query()
		q := revenueQuery{
			ProductIDs:  strings.TrimSpace(params.Get("product_ids")),
			StartDate:   strings.TrimSpace(params.Get("start_date")),
			EndDate:     strings.TrimSpace(params.Get("end_date")),
			Granularity: strings.ToLower(strings.TrimSpace(params.Get("granularity"))),
			Format:      strings.ToLower(strings.TrimSpace(params.Get("format"))),
		}

		if err := validate.Struct(q); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetros de consulta inválidos", err.Error())
			return
		}

		filter, err := parseRevenueFilter(q, loc)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetros de consulta inválidos", err.Error())
			return
		}

		points, err := query(r.Context(), filter)
		if err != nil {
			if revenue.IsInvalidFilter(err) {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Filtro de receita inválido", err.Error())
				return
			}

			logger.WithError(err).Errorf("%s: erro ao consultar receita", name)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Falha ao consultar receita", nil)
			return
		}

		logger.WithFields(log.Fields{
			"granularity": filter.Granularity,
			"points":      len(points),
		}).Infof("%s: consulta concluída", name)

		if q.Format == formatCSV {
			writeRevenueCSV(r.Context(), w, name, points)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, points)
	})
}

func parseRevenueFilter(q revenueQuery, loc *time.Location) (domain.RevenueFilter, error) {
	filter := domain.RevenueFilter{}

	granularity, err := domain.ParseGranularity(q.Granularity)
	if err != nil {
		return filter, err
	}
	filter.Granularity = granularity

	if q.ProductIDs != "" {
		ids, err := parseProductIDs(q.ProductIDs)
		if err != nil {
			return filter, err
		}
		filter.ProductIDs = ids
	}

	if filter.StartDate, err = utils.ParseDate(q.StartDate, loc); err != nil {
		return filter, err
	}
	if filter.EndDate, err = utils.ParseDate(q.EndDate, loc); err != nil {
		return filter, err
	}

	return filter, nil
}

func parseProductIDs(raw string) ([]int64, error) {
	parts := lo.Filter(
		lo.Map(strings.Split(raw, ","), func(s string, _ int) string { return strings.TrimSpace(s) }),
		func(s string, _ int) bool { return s != "" },
	)

	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func writeRevenueCSV(ctx context.Context, w http.ResponseWriter, name string, points []domain.RevenueDataPoint) {
	rows := lo.Map(points, func(p domain.RevenueDataPoint, _ int) revenueCSVRow {
		row := revenueCSVRow{
			Period:  p.Period,
			Revenue: p.Revenue.StringFixed(2),
		}
		if id, ok := p.ProductID.Get(); ok {
			row.ProductID = strconv.FormatInt(id, 10)
		}
		row.ProductName = p.ProductName.OrElse("")
		return row
	})

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+".csv\"")
	w.WriteHeader(http.StatusOK)

	if err := gocsv.Marshal(&rows, w); err != nil {
		log.ForContext(ctx).WithError(err).Errorf("%s: erro ao gerar CSV", name)
	}
}
