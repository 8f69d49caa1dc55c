package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/appdotbuilder/revenue-dashboard/infrastructure/repository"
	"github.com/appdotbuilder/revenue-dashboard/internal/domain"
	"github.com/appdotbuilder/revenue-dashboard/pkg/apiErrors"
	"github.com/appdotbuilder/revenue-dashboard/pkg/log"
	"github.com/appdotbuilder/revenue-dashboard/pkg/utils"
)

// tentativas de gerar um código de produto sem colisão
const codeAttempts = 3

type CatalogService interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, request *domain.CreateProductRequest) (*domain.Product, error)
	CreateSale(ctx context.Context, request *domain.CreateSaleRequest) (*domain.Sale, error)
}

// Invalidator descarta resultados de receita guardados
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type Service struct {
	productRepo repository.ProductRepository
	salesRepo   repository.SalesRepository
	invalidator Invalidator
	validate    *validator.Validate
	generateID  func() (string, error)
	now         func() time.Time
}

func NewService(
	productRepo repository.ProductRepository,
	salesRepo repository.SalesRepository,
	invalidator Invalidator,
) *Service {
	return &Service{
		productRepo: productRepo,
		salesRepo:   salesRepo,
		invalidator: invalidator,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		generateID:  utils.GenerateID,
		now:         time.Now,
	}
}

func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.productRepo.ListProducts(ctx)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("catalog: erro ao listar produtos")
		return nil, NewCatalogError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao listar produtos no banco de dados")
	}

	return products, nil
}

func (s *Service) CreateProduct(ctx context.Context, request *domain.CreateProductRequest) (*domain.Product, error) {
	logger := log.ForContext(ctx)

	if request == nil {
		return nil, NewCatalogError(ErrInvalidProduct, apiErrors.ErrInvalidRequest, "Corpo da requisição ausente")
	}

	request.Name = strings.TrimSpace(request.Name)
	if err := s.validate.Struct(request); err != nil {
		return nil, NewCatalogError(ErrInvalidProduct, apiErrors.ErrMissingRequiredData, err.Error())
	}

	if !request.Price.IsPositive() {
		return nil, NewCatalogError(ErrInvalidProduct, apiErrors.ErrInvalidFormat, "O preço deve ser maior que zero")
	}

	product := &domain.Product{
		Name:        request.Name,
		Description: request.Description,
		Price:       request.Price.Round(2),
	}

	for attempt := 1; ; attempt++ {
		code, err := s.generateID()
		if err != nil {
			return nil, NewCatalogError(ErrGenerateCode, apiErrors.ErrInternalServer, "Falha ao gerar código do produto")
		}
		product.Code = code

		created, err := s.productRepo.CreateProduct(ctx, product)
		if err == nil {
			s.invalidateRevenue(ctx)
			logger.WithFields(log.Fields{
				"product_id": created.ID,
				"code":       created.Code,
			}).Info("catalog: produto criado")
			return created, nil
		}

		if errors.Is(err, repository.ErrDuplicateCode) && attempt < codeAttempts {
			logger.WithField("code", code).Warn("catalog: código de produto repetido, gerando outro")
			continue
		}

		logger.WithError(err).Error("catalog: erro ao criar produto")
		return nil, NewCatalogError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao salvar produto no banco de dados")
	}
}

// CreateSale registra a venda com total_amount = quantity * unit_price e invalida o cache de receita
func (s *Service) CreateSale(ctx context.Context, request *domain.CreateSaleRequest) (*domain.Sale, error) {
	logger := log.ForContext(ctx)

	if request == nil {
		return nil, NewCatalogError(ErrInvalidSale, apiErrors.ErrInvalidRequest, "Corpo da requisição ausente")
	}

	if err := s.validate.Struct(request); err != nil {
		return nil, NewCatalogError(ErrInvalidSale, apiErrors.ErrMissingRequiredData, err.Error())
	}

	if !request.UnitPrice.IsPositive() {
		return nil, NewCatalogError(ErrInvalidSale, apiErrors.ErrInvalidFormat, "O preço unitário deve ser maior que zero")
	}

	product, err := s.productRepo.GetProductByID(ctx, request.ProductID)
	if err != nil {
		logger.WithError(err).Error("catalog: erro ao buscar produto")
		return nil, NewCatalogError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao buscar produto no banco de dados")
	}
	if product == nil {
		return nil, NewCatalogError(ErrProductNotFound, apiErrors.ErrResourceNotFound, "Produto não encontrado")
	}

	unitPrice := request.UnitPrice.Round(2)
	sale := &domain.Sale{
		ProductID:   product.ID,
		Quantity:    request.Quantity,
		UnitPrice:   unitPrice,
		TotalAmount: unitPrice.Mul(decimal.NewFromInt(int64(request.Quantity))),
		SaleDate:    s.now(),
	}
	if request.SaleDate != nil {
		sale.SaleDate = *request.SaleDate
	}

	created, err := s.salesRepo.CreateSale(ctx, sale)
	if err != nil {
		logger.WithError(err).Error("catalog: erro ao criar venda")
		return nil, NewCatalogError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao salvar venda no banco de dados")
	}

	s.invalidateRevenue(ctx)

	logger.WithFields(log.Fields{
		"sale_id":    created.ID,
		"product_id": created.ProductID,
	}).Info("catalog: venda registrada")

	return created, nil
}

// invalidateRevenue descarta o cache de receita após escritas no catálogo; a escrita já foi confirmada
func (s *Service) invalidateRevenue(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx); err != nil {
		log.ForContext(ctx).WithError(err).Warn("catalog: erro ao invalidar cache de receita")
	}
}
