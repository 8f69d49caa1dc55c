// Script de carga inicial: aplica as migrações e insere produtos e vendas de demonstração.
//
//	go run ./infrastructure/migration/script -months 18 -seed 42
package main

import (
	"context"
	"database/sql"
	"flag"
	"math/rand"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/appdotbuilder/revenue-dashboard/infrastructure/database/postgres"
	"github.com/appdotbuilder/revenue-dashboard/internal/config"
	"github.com/appdotbuilder/revenue-dashboard/pkg/log"
	"github.com/appdotbuilder/revenue-dashboard/pkg/utils"
)

type seedProduct struct {
	Name        string
	Description string
	Price       decimal.Decimal
}

type seedSale struct {
	ProductIndex int
	Quantity     int
	UnitPrice    decimal.Decimal
	SaleDate     time.Time
}

var demoProducts = []seedProduct{
	{"Caneca de cerâmica", "Caneca 350ml", decimal.RequireFromString("29.90")},
	{"Camiseta básica", "Algodão, tamanhos P a GG", decimal.RequireFromString("59.90")},
	{"Caderno pautado", "96 folhas", decimal.RequireFromString("18.50")},
	{"Garrafa térmica", "Inox 500ml", decimal.RequireFromString("89.00")},
	{"Mochila urbana", "Compartimento para notebook", decimal.RequireFromString("199.99")},
}

// demoSales gera vendas determinísticas para seed nos últimos months meses até now
func demoSales(seed int64, months int, now time.Time) []seedSale {
	rng := rand.New(rand.NewSource(seed))
	start := now.AddDate(0, -months, 0)

	sales := make([]seedSale, 0)
	for day := start; day.Before(now); day = day.AddDate(0, 0, 1) {
		for n := rng.Intn(4); n > 0; n-- {
			idx := rng.Intn(len(demoProducts))
			// variação de até 10% de desconto sobre o preço de tabela
			discount := decimal.NewFromInt(int64(rng.Intn(11))).Div(decimal.NewFromInt(100))
			unitPrice := demoProducts[idx].Price.Mul(decimal.NewFromInt(1).Sub(discount)).Round(2)

			sales = append(sales, seedSale{
				ProductIndex: idx,
				Quantity:     1 + rng.Intn(5),
				UnitPrice:    unitPrice,
				SaleDate:     day.Add(time.Duration(rng.Intn(24*60)) * time.Minute),
			})
		}
	}

	return sales
}

func insertProducts(tx *sql.Tx) ([]int64, error) {
	ids := make([]int64, 0, len(demoProducts))

	for _, p := range demoProducts {
		code, err := utils.GenerateID()
		if err != nil {
			return nil, err
		}

		var id int64
		err = squirrel.
			Insert("products").
			Columns("code", "name", "description", "price").
			Values(code, p.Name, p.Description, p.Price).
			Suffix("RETURNING id").
			PlaceholderFormat(squirrel.Dollar).
			RunWith(tx).
			QueryRow().
			Scan(&id)
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	logrus.WithField("products", len(ids)).Info("Produtos de demonstração inseridos")
	return ids, nil
}

func insertSales(tx *sql.Tx, productIDs []int64, sales []seedSale) error {
	startTime := time.Now()

	// lotes para não exceder o limite de parâmetros do Postgres
	const batchSize = 500
	for offset := 0; offset < len(sales); offset += batchSize {
		end := min(offset+batchSize, len(sales))

		query := squirrel.
			Insert("sales").
			Columns("product_id", "quantity", "unit_price", "total_amount", "sale_date").
			PlaceholderFormat(squirrel.Dollar).
			RunWith(tx)

		for _, s := range sales[offset:end] {
			total := s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
			query = query.Values(productIDs[s.ProductIndex], s.Quantity, s.UnitPrice, total, s.SaleDate)
		}

		if _, err := query.Exec(); err != nil {
			return err
		}
	}

	logrus.WithFields(logrus.Fields{
		"sales":    len(sales),
		"duration": time.Since(startTime).String(),
	}).Info("Vendas de demonstração inseridas")

	return nil
}

func main() {
	months := flag.Int("months", 18, "meses de histórico gerados")
	seed := flag.Int64("seed", 42, "semente do gerador de vendas")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}
	log.Setup(cfg.App.LogLevel)

	ctx := context.Background()

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}
	defer conn.Close()

	if err := postgres.RunMigrations(conn.DB()); err != nil {
		logrus.WithError(err).Fatal("Erro ao aplicar migrações")
	}

	sales := demoSales(*seed, *months, time.Now().In(cfg.App.Location))

	err = conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		productIDs, err := insertProducts(tx)
		if err != nil {
			return err
		}
		return insertSales(tx, productIDs, sales)
	})
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao inserir dados de demonstração")
	}

	logrus.Info("Carga de demonstração concluída")
}
