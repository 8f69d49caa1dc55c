package revenue

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/appdotbuilder/revenue-dashboard/internal/cache"
	"github.com/appdotbuilder/revenue-dashboard/internal/domain"
	"github.com/appdotbuilder/revenue-dashboard/pkg/log"
)

const (
	queryTotal     = "total"
	queryBreakdown = "breakdown"
)

// sharedLoadTimeout limita a consulta compartilhada, que não herda o cancelamento de quem a iniciou
const sharedLoadTimeout = 30 * time.Second

type queryFunc func(context.Context, domain.RevenueFilter) ([]domain.RevenueDataPoint, error)

// CachedService guarda o resultado das consultas de receita e agrupa consultas idênticas simultâneas.
// Falhas do cache nunca falham a consulta.
type CachedService struct {
	next  Reporter
	cache cache.Cache
	group singleflight.Group
	// generation separa as consultas agrupadas antes e depois de cada Invalidate
	generation atomic.Int64
}

// WithCache habilita o cache de resultados sobre o serviço
func (s *Service) WithCache(c cache.Cache) *CachedService {
	return &CachedService{
		next:  s,
		cache: c,
	}
}

func (c *CachedService) TotalRevenue(ctx context.Context, filter domain.RevenueFilter) ([]domain.RevenueDataPoint, error) {
	return c.fetch(ctx, queryTotal, filter, c.next.TotalRevenue)
}

func (c *CachedService) ProductBreakdown(ctx context.Context, filter domain.RevenueFilter) ([]domain.RevenueDataPoint, error) {
	return c.fetch(ctx, queryBreakdown, filter, c.next.ProductBreakdown)
}

// Invalidate descarta os resultados guardados. Chamado após novas vendas.
func (c *CachedService) Invalidate(ctx context.Context) error {
	c.generation.Add(1)
	return c.cache.Invalidate(ctx)
}

func (c *CachedService) fetch(ctx context.Context, kind string, filter domain.RevenueFilter, load queryFunc) ([]domain.RevenueDataPoint, error) {
	logger := log.ForContext(ctx)

	filter, err := NormalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	key := cacheKey(kind, filter)
	generation := c.generation.Load()

	// leitura e gravação usam a mesma versão
	cacheable := true
	version, err := c.cache.Version(ctx)
	if err != nil {
		cacheable = false
		logger.WithError(err).WithField("key", key).Warn("revenue-cache: erro ao ler versão do cache, consultando o banco")
	}

	if cacheable {
		var cached []domain.RevenueDataPoint
		hit, err := c.cache.Get(ctx, version, key, &cached)
		if err != nil {
			logger.WithError(err).WithField("key", key).Warn("revenue-cache: erro ao ler cache, consultando o banco")
		} else if hit {
			logger.WithField("key", key).Debug("revenue-cache: resultado encontrado no cache")
			return cached, nil
		}
	}

	flightKey := fmt.Sprintf("g%d:v%d:%t:%s", generation, version, cacheable, key)
	resultChan := c.group.DoChan(flightKey, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLoadTimeout)
		defer cancel()

		points, err := load(loadCtx, filter)
		if err != nil {
			return nil, err
		}

		if cacheable && c.generation.Load() == generation {
			if err := c.cache.Set(loadCtx, version, key, points); err != nil {
				logger.WithError(err).WithField("key", key).Warn("revenue-cache: erro ao gravar cache")
			}
		}

		return points, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return nil, res.Err
		}
		// Chamadores agrupados recebem cópias independentes
		return slices.Clone(res.Val.([]domain.RevenueDataPoint)), nil
	}
}

// cacheKey monta a chave a partir do filtro já normalizado
func cacheKey(kind string, filter domain.RevenueFilter) string {
	products := "all"
	if len(filter.ProductIDs) > 0 {
		parts := make([]string, len(filter.ProductIDs))
		for i, id := range filter.ProductIDs {
			parts[i] = fmt.Sprintf("%d", id)
		}
		products = strings.Join(parts, ",")
	}

	return strings.Join([]string{
		kind,
		filter.Granularity.String(),
		products,
		dateToken(filter.StartDate),
		dateToken(filter.EndDate),
	}, ":")
}

func dateToken(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.DateOnly)
}
