// Comando report imprime a série de receita em JSON formatado usando a mesma configuração da API.
//
//	go run ./cmd/report -granularity weekly -start 2024-01-01 -end 2024-03-31 -products 1,2 -breakdown
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/appdotbuilder/revenue-dashboard/infrastructure/database/postgres"
	"github.com/appdotbuilder/revenue-dashboard/infrastructure/repository"
	"github.com/appdotbuilder/revenue-dashboard/internal/config"
	"github.com/appdotbuilder/revenue-dashboard/internal/domain"
	"github.com/appdotbuilder/revenue-dashboard/internal/usecases/revenue"
	"github.com/appdotbuilder/revenue-dashboard/pkg/log"
	"github.com/appdotbuilder/revenue-dashboard/pkg/utils"
)

func main() {
	granularity := flag.String("granularity", "monthly", "yearly, monthly, weekly ou daily")
	start := flag.String("start", "", "data inicial YYYY-MM-DD (inclusiva)")
	end := flag.String("end", "", "data final YYYY-MM-DD (inclusiva)")
	products := flag.String("products", "", "ids de produto separados por vírgula")
	breakdown := flag.Bool("breakdown", false, "separar a receita por produto")
	timeout := flag.Duration("timeout", 30*time.Second, "tempo máximo da consulta")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}
	log.Setup(cfg.App.LogLevel)

	filter, err := buildFilter(*granularity, *start, *end, *products, cfg.App.Location)
	if err != nil {
		fmt.Fprintln(os.Stderr, "parâmetros inválidos:", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}
	defer conn.Close()

	service := revenue.NewService(repository.NewSalesRepository(conn), cfg.App.Location)

	query := service.TotalRevenue
	if *breakdown {
		query = service.ProductBreakdown
	}

	points, err := query(ctx, filter)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao consultar receita")
	}

	out, err := utils.PrettyJson(points)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao formatar resultado")
	}
	fmt.Println(out)
}

func buildFilter(granularity, start, end, products string, loc *time.Location) (domain.RevenueFilter, error) {
	g, err := domain.ParseGranularity(granularity)
	if err != nil {
		return domain.RevenueFilter{}, err
	}

	filter := domain.RevenueFilter{Granularity: g}

	if filter.StartDate, err = utils.ParseDate(start, loc); err != nil {
		return filter, err
	}
	if filter.EndDate, err = utils.ParseDate(end, loc); err != nil {
		return filter, err
	}

	for _, part := range strings.Split(products, ",") {
		if part = strings.TrimSpace(part); part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return filter, fmt.Errorf("id de produto inválido %q", part)
		}
		filter.ProductIDs = append(filter.ProductIDs, id)
	}

	return revenue.NormalizeFilter(filter)
}
