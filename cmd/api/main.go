package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/appdotbuilder/revenue-dashboard/infrastructure/database/postgres"
	"github.com/appdotbuilder/revenue-dashboard/infrastructure/repository"
	"github.com/appdotbuilder/revenue-dashboard/internal/api"
	"github.com/appdotbuilder/revenue-dashboard/internal/api/handler"
	"github.com/appdotbuilder/revenue-dashboard/internal/cache"
	"github.com/appdotbuilder/revenue-dashboard/internal/config"
	"github.com/appdotbuilder/revenue-dashboard/internal/scheduler"
	"github.com/appdotbuilder/revenue-dashboard/internal/usecases/authenticating"
	"github.com/appdotbuilder/revenue-dashboard/internal/usecases/catalog"
	"github.com/appdotbuilder/revenue-dashboard/internal/usecases/revenue"
	"github.com/appdotbuilder/revenue-dashboard/pkg/log"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel)
	logrus.WithFields(logrus.Fields{
		"log_level": logrus.GetLevel().String(),
		"timezone":  cfg.App.Location.String(),
	}).Info("Configuração carregada")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	if cfg.Database.Migrate {
		if err := postgres.RunMigrations(pgConn.DB()); err != nil {
			logrus.WithError(err).Fatal("Erro ao aplicar migrações")
		}
	}

	productRepo := repository.NewProductRepository(pgConn)
	salesRepo := repository.NewSalesRepository(pgConn)

	resultCache, err := cache.New(ctx, cfg.Cache)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao inicializar o cache")
	}

	revenueService := revenue.NewService(salesRepo, cfg.App.Location).WithCache(resultCache)
	catalogService := catalog.NewService(productRepo, salesRepo, revenueService)
	authenticator := authenticating.NewService(cfg.Auth)

	if cfg.Auth.Enabled && cfg.Auth.Secret == "" {
		logrus.Fatal("AUTH_SECRET é obrigatório com AUTH_ENABLED=true")
	}
	if !cfg.Auth.Enabled {
		logrus.Warn("Autenticação desabilitada: todas as requisições seguem como administrador")
	}

	revenueWarmupService := scheduler.NewRevenueWarmupService(revenueService, cfg)
	if err := revenueWarmupService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de pré-aquecimento de receita")
	} else {
		logrus.Info("Agendador de pré-aquecimento de receita iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		pgConn,
		revenueService,
		catalogService,
		authenticator,
		handler.CronJobServices{RevenueWarmup: revenueWarmupService},
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
