package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/appdotbuilder/revenue-dashboard/internal/config"
	"github.com/appdotbuilder/revenue-dashboard/internal/domain"
	"github.com/appdotbuilder/revenue-dashboard/internal/usecases/revenue"
)

// tempo máximo de uma execução do pré-aquecimento
const warmupTimeout = 2 * time.Minute

// RevenueWarmupConfig representa a configuração do pré-aquecimento do cache de receita
type RevenueWarmupConfig struct {
	CronSchedule  string
	Enabled       bool
	Granularities []domain.Granularity
	MonthLookback int
}

// RevenueWarmupService executa periodicamente as consultas padrão do painel para manter o cache populado
type RevenueWarmupService struct {
	scheduler         *gocron.Scheduler
	config            RevenueWarmupConfig
	reporter          revenue.Reporter
	location          *time.Location
	now               func() time.Time
	syncRunning       bool
	syncMutex         sync.Mutex
	lastRunStartedAt  time.Time
	lastRunFinishedAt time.Time
	lastRunQueries    int
	lastRunErrors     int
}

// NewRevenueWarmupService cria o serviço de pré-aquecimento. Granularidades inválidas são ignoradas.
func NewRevenueWarmupService(reporter revenue.Reporter, appConfig *config.Config) *RevenueWarmupService {
	location := appConfig.App.Location
	if location == nil {
		location = time.Local
	}

	granularities := make([]domain.Granularity, 0, len(appConfig.RevenueWarmup.Granularities))
	for _, name := range appConfig.RevenueWarmup.Granularities {
		g, err := domain.ParseGranularity(name)
		if err != nil {
			logrus.WithError(err).Warn("Granularidade de pré-aquecimento ignorada")
			continue
		}
		granularities = append(granularities, g)
	}
	if len(granularities) == 0 {
		granularities = []domain.Granularity{domain.DefaultGranularity}
	}

	warmupConfig := RevenueWarmupConfig{
		CronSchedule:  appConfig.RevenueWarmup.CronSchedule,
		Enabled:       appConfig.RevenueWarmup.Enabled,
		Granularities: granularities,
		MonthLookback: appConfig.RevenueWarmup.MonthLookback,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":  warmupConfig.CronSchedule,
		"enabled":        warmupConfig.Enabled,
		"granularities":  warmupConfig.Granularities,
		"month_lookback": warmupConfig.MonthLookback,
	}).Info("Configuração do pré-aquecimento de receita carregada")

	return &RevenueWarmupService{
		scheduler: gocron.NewScheduler(location),
		config:    warmupConfig,
		reporter:  reporter,
		location:  location,
		now:       time.Now,
	}
}

// Start inicia o agendador
func (s *RevenueWarmupService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Pré-aquecimento de receita desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de pré-aquecimento de receita")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.warmup(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar pré-aquecimento de receita: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de pré-aquecimento de receita")
		s.scheduler.Stop()
	}()

	return nil
}

// filters monta as consultas aquecidas: sem limite de datas e a janela dos últimos meses
func (s *RevenueWarmupService) filters() []domain.RevenueFilter {
	now := s.now().In(s.location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)

	filters := make([]domain.RevenueFilter, 0, 2*len(s.config.Granularities))
	for _, g := range s.config.Granularities {
		filters = append(filters, domain.RevenueFilter{Granularity: g})

		if s.config.MonthLookback > 0 {
			start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, s.location).AddDate(0, -s.config.MonthLookback, 0)
			end := today
			filters = append(filters, domain.RevenueFilter{
				Granularity: g,
				StartDate:   &start,
				EndDate:     &end,
			})
		}
	}

	return filters
}

// warmup executa as consultas uma vez. Execuções sobrepostas são ignoradas.
func (s *RevenueWarmupService) warmup(ctx context.Context) bool {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Pré-aquecimento de receita já em andamento, ignorando")
		return false
	}
	s.syncRunning = true
	s.lastRunStartedAt = s.now()
	s.syncMutex.Unlock()

	ctx, cancel := context.WithTimeout(ctx, warmupTimeout)
	defer cancel()

	queries, failures := 0, 0
	for _, filter := range s.filters() {
		for name, query := range map[string]func(context.Context, domain.RevenueFilter) ([]domain.RevenueDataPoint, error){
			"total":     s.reporter.TotalRevenue,
			"breakdown": s.reporter.ProductBreakdown,
		} {
			queries++
			if _, err := query(ctx, filter); err != nil {
				failures++
				logrus.WithError(err).WithFields(logrus.Fields{
					"query":       name,
					"granularity": filter.Granularity,
				}).Error("Erro ao pré-aquecer consulta de receita")
			}
		}
	}

	s.syncMutex.Lock()
	s.syncRunning = false
	s.lastRunFinishedAt = s.now()
	s.lastRunQueries = queries
	s.lastRunErrors = failures
	duration := s.lastRunFinishedAt.Sub(s.lastRunStartedAt)
	s.syncMutex.Unlock()

	logrus.WithFields(logrus.Fields{
		"duration": duration.String(),
		"queries":  queries,
		"errors":   failures,
	}).Info("Pré-aquecimento de receita concluído")

	return true
}

// TriggerManualSync inicia manualmente um pré-aquecimento. Retorna false quando já há um em andamento.
func (s *RevenueWarmupService) TriggerManualSync() bool {
	s.syncMutex.Lock()
	running := s.syncRunning
	s.syncMutex.Unlock()

	if running {
		logrus.Info("Pré-aquecimento de receita já em andamento, ignorando solicitação manual")
		return false
	}

	logrus.Info("Iniciando pré-aquecimento manual de receita")
	go s.warmup(context.Background())
	return true
}

// GetStatus retorna o status atual do pré-aquecimento
func (s *RevenueWarmupService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_running":          s.syncRunning,
		"sync_cron":             s.config.CronSchedule,
		"sync_enabled":          s.config.Enabled,
		"granularities":         s.config.Granularities,
		"last_run_started_at":   s.lastRunStartedAt,
		"last_run_completed_at": s.lastRunFinishedAt,
		"last_run_queries":      s.lastRunQueries,
		"last_run_errors":       s.lastRunErrors,
	}
}
