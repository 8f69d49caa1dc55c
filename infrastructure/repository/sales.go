// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/appdotbuilder/revenue-dashboard/infrastructure/database/postgres"
	"github.com/appdotbuilder/revenue-dashboard/internal/domain"
)

const (
	salesTable = "sales"
)

type SalesRepository interface {
	FetchSales(ctx context.Context, filter domain.SalesFilter) ([]domain.SaleRecord, error)
	CreateSale(ctx context.Context, sale *domain.Sale) (*domain.Sale, error)
}

type salesRepository struct {
	conn postgres.Queryer
}

func NewSalesRepository(conn postgres.Queryer) SalesRepository {
	return &salesRepository{
		conn: conn,
	}
}

// buildFetchSalesQuery monta a busca de vendas unidas ao produto.
// From é inclusivo e Until exclusivo.
func buildFetchSalesQuery(filter domain.SalesFilter) (string, []interface{}, error) {
	queryBuilder := squirrel.
		Select(
			"s.id",
			"s.product_id",
			"p.name",
			"s.total_amount",
			"s.sale_date",
		).
		From("sales s").
		Join("products p ON p.id = s.product_id").
		OrderBy("s.sale_date ASC", "s.id ASC").
		PlaceholderFormat(squirrel.Dollar)

	if len(filter.ProductIDs) > 0 {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"s.product_id": filter.ProductIDs})
	}

	if filter.From != nil {
		queryBuilder = queryBuilder.Where(squirrel.GtOrEq{"s.sale_date": *filter.From})
	}

	if filter.Until != nil {
		queryBuilder = queryBuilder.Where(squirrel.Lt{"s.sale_date": *filter.Until})
	}

	return queryBuilder.ToSql()
}

func (r *salesRepository) FetchSales(ctx context.Context, filter domain.SalesFilter) ([]domain.SaleRecord, error) {
	sqlQuery, args, err := buildFetchSalesQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	records := make([]domain.SaleRecord, 0)
	for rows.Next() {
		var record domain.SaleRecord
		if err := rows.Scan(
			&record.SaleID,
			&record.ProductID,
			&record.ProductName,
			&record.Amount,
			&record.SaleDate,
		); err != nil {
			return nil, fmt.Errorf("erro ao escanear venda: %w", err)
		}

		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return records, nil
}

func (r *salesRepository) CreateSale(ctx context.Context, sale *domain.Sale) (*domain.Sale, error) {
	saleDate := sale.SaleDate
	if saleDate.IsZero() {
		saleDate = time.Now()
	}

	sqlQuery, args, err := squirrel.
		Insert(salesTable).
		Columns("product_id", "quantity", "unit_price", "total_amount", "sale_date").
		Values(sale.ProductID, sale.Quantity, sale.UnitPrice, sale.TotalAmount, saleDate).
		Suffix("RETURNING id, sale_date, created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	created := *sale
	if err := r.conn.QueryRow(ctx, sqlQuery, args...).Scan(&created.ID, &created.SaleDate, &created.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("venda não inserida: %w", err)
		}
		return nil, err
	}

	return &created, nil
}
