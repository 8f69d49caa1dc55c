package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/appdotbuilder/revenue-dashboard/infrastructure/repository"
	"github.com/appdotbuilder/revenue-dashboard/infrastructure/repository/mocks"
	"github.com/appdotbuilder/revenue-dashboard/internal/domain"
	"github.com/appdotbuilder/revenue-dashboard/pkg/apiErrors"
)

type countingInvalidator struct {
	calls int
	err   error
}

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.calls++
	return c.err
}

func newTestService(t *testing.T) (*Service, *mocks.MockProductRepository, *mocks.MockSalesRepository, *countingInvalidator) {
	t.Helper()
	ctrl := gomock.NewController(t)

	productRepo := mocks.NewMockProductRepository(ctrl)
	salesRepo := mocks.NewMockSalesRepository(ctrl)
	invalidator := &countingInvalidator{}

	svc := NewService(productRepo, salesRepo, invalidator)
	svc.now = func() time.Time { return time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC) }

	return svc, productRepo, salesRepo, invalidator
}

func assertCatalogError(t *testing.T, err error, base error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, base)

	var catalogErr *CatalogError
	require.ErrorAs(t, err, &catalogErr)
	assert.Equal(t, code, catalogErr.Code)
}

func TestService_ListProducts(t *testing.T) {
	svc, productRepo, _, _ := newTestService(t)
	ctx := context.Background()

	products := []*domain.Product{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	productRepo.EXPECT().ListProducts(ctx).Return(products, nil)

	got, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, products, got)

	productRepo.EXPECT().ListProducts(ctx).Return(nil, errors.New("conexão perdida"))
	_, err = svc.ListProducts(ctx)
	assertCatalogError(t, err, ErrDatabaseOperation, apiErrors.ErrDatabaseOperation)
}

func TestService_CreateProduct(t *testing.T) {
	ctx := context.Background()
	description := "Caneca de cerâmica"

	tests := []struct {
		name     string
		request  *domain.CreateProductRequest
		setup    func(svc *Service, repo *mocks.MockProductRepository)
		wantErr  error
		wantCode string
		validate func(t *testing.T, product *domain.Product)
	}{
		{
			name:    "produto válido",
			request: &domain.CreateProductRequest{Name: "  Caneca ", Description: &description, Price: decimal.RequireFromString("19.999")},
			setup: func(svc *Service, repo *mocks.MockProductRepository) {
				svc.generateID = func() (string, error) { return "Ab12Cd", nil }
				repo.EXPECT().
					CreateProduct(ctx, gomock.Any()).
					DoAndReturn(func(_ context.Context, p *domain.Product) (*domain.Product, error) {
						created := *p
						created.ID = 10
						return &created, nil
					})
			},
			validate: func(t *testing.T, product *domain.Product) {
				assert.Equal(t, int64(10), product.ID)
				assert.Equal(t, "Ab12Cd", product.Code)
				assert.Equal(t, "Caneca", product.Name)
				assert.Equal(t, "20.00", product.Price.StringFixed(2))
				assert.Equal(t, &description, product.Description)
			},
		},
		{
			name:    "código repetido gera outro",
			request: &domain.CreateProductRequest{Name: "Caneca", Price: decimal.NewFromInt(10)},
			setup: func(svc *Service, repo *mocks.MockProductRepository) {
				codes := []string{"AAAAAA", "BBBBBB"}
				svc.generateID = func() (string, error) {
					code := codes[0]
					codes = codes[1:]
					return code, nil
				}
				gomock.InOrder(
					repo.EXPECT().CreateProduct(ctx, gomock.Any()).Return(nil, repository.ErrDuplicateCode),
					repo.EXPECT().
						CreateProduct(ctx, gomock.Any()).
						DoAndReturn(func(_ context.Context, p *domain.Product) (*domain.Product, error) {
							created := *p
							created.ID = 11
							return &created, nil
						}),
				)
			},
			validate: func(t *testing.T, product *domain.Product) {
				assert.Equal(t, "BBBBBB", product.Code)
			},
		},
		{
			name:     "nome obrigatório",
			request:  &domain.CreateProductRequest{Name: "   ", Price: decimal.NewFromInt(10)},
			setup:    func(*Service, *mocks.MockProductRepository) {},
			wantErr:  ErrInvalidProduct,
			wantCode: apiErrors.ErrMissingRequiredData,
		},
		{
			name:     "preço zero",
			request:  &domain.CreateProductRequest{Name: "Caneca", Price: decimal.Zero},
			setup:    func(*Service, *mocks.MockProductRepository) {},
			wantErr:  ErrInvalidProduct,
			wantCode: apiErrors.ErrInvalidFormat,
		},
		{
			name:     "corpo ausente",
			request:  nil,
			setup:    func(*Service, *mocks.MockProductRepository) {},
			wantErr:  ErrInvalidProduct,
			wantCode: apiErrors.ErrInvalidRequest,
		},
		{
			name:    "falha no banco",
			request: &domain.CreateProductRequest{Name: "Caneca", Price: decimal.NewFromInt(10)},
			setup: func(svc *Service, repo *mocks.MockProductRepository) {
				svc.generateID = func() (string, error) { return "Ab12Cd", nil }
				repo.EXPECT().CreateProduct(ctx, gomock.Any()).Return(nil, errors.New("timeout"))
			},
			wantErr:  ErrDatabaseOperation,
			wantCode: apiErrors.ErrDatabaseOperation,
		},
		{
			name:    "falha ao gerar código",
			request: &domain.CreateProductRequest{Name: "Caneca", Price: decimal.NewFromInt(10)},
			setup: func(svc *Service, _ *mocks.MockProductRepository) {
				svc.generateID = func() (string, error) { return "", errors.New("sem entropia") }
			},
			wantErr:  ErrGenerateCode,
			wantCode: apiErrors.ErrInternalServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, productRepo, _, invalidator := newTestService(t)
			tt.setup(svc, productRepo)

			product, err := svc.CreateProduct(ctx, tt.request)
			if tt.wantErr != nil {
				assertCatalogError(t, err, tt.wantErr, tt.wantCode)
				assert.Nil(t, product)
				assert.Zero(t, invalidator.calls)
				return
			}

			require.NoError(t, err)
			tt.validate(t, product)
			assert.Equal(t, 1, invalidator.calls)
		})
	}
}

func TestService_CreateSale(t *testing.T) {
	ctx := context.Background()
	product := &domain.Product{ID: 3, Name: "Caneca", Price: decimal.NewFromInt(20)}
	saleDate := time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC)

	t.Run("calcula o total e invalida o cache", func(t *testing.T) {
		svc, productRepo, salesRepo, invalidator := newTestService(t)

		productRepo.EXPECT().GetProductByID(ctx, int64(3)).Return(product, nil)
		salesRepo.EXPECT().
			CreateSale(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, s *domain.Sale) (*domain.Sale, error) {
				created := *s
				created.ID = 99
				return &created, nil
			})

		sale, err := svc.CreateSale(ctx, &domain.CreateSaleRequest{
			ProductID: 3,
			Quantity:  3,
			UnitPrice: decimal.RequireFromString("19.99"),
			SaleDate:  &saleDate,
		})
		require.NoError(t, err)

		assert.Equal(t, int64(99), sale.ID)
		assert.Equal(t, "59.97", sale.TotalAmount.StringFixed(2))
		assert.Equal(t, saleDate, sale.SaleDate)
		assert.Equal(t, 1, invalidator.calls)
	})

	t.Run("data ausente usa o momento atual", func(t *testing.T) {
		svc, productRepo, salesRepo, _ := newTestService(t)

		productRepo.EXPECT().GetProductByID(ctx, int64(3)).Return(product, nil)
		salesRepo.EXPECT().
			CreateSale(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, s *domain.Sale) (*domain.Sale, error) {
				return s, nil
			})

		sale, err := svc.CreateSale(ctx, &domain.CreateSaleRequest{ProductID: 3, Quantity: 1, UnitPrice: decimal.NewFromInt(5)})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC), sale.SaleDate)
	})

	t.Run("falha ao invalidar o cache não falha a venda", func(t *testing.T) {
		svc, productRepo, salesRepo, invalidator := newTestService(t)
		invalidator.err = errors.New("redis fora do ar")

		productRepo.EXPECT().GetProductByID(ctx, int64(3)).Return(product, nil)
		salesRepo.EXPECT().CreateSale(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, s *domain.Sale) (*domain.Sale, error) {
			return s, nil
		})

		_, err := svc.CreateSale(ctx, &domain.CreateSaleRequest{ProductID: 3, Quantity: 1, UnitPrice: decimal.NewFromInt(5)})
		require.NoError(t, err)
		assert.Equal(t, 1, invalidator.calls)
	})

	t.Run("produto inexistente", func(t *testing.T) {
		svc, productRepo, _, invalidator := newTestService(t)
		productRepo.EXPECT().GetProductByID(ctx, int64(42)).Return(nil, nil)

		_, err := svc.CreateSale(ctx, &domain.CreateSaleRequest{ProductID: 42, Quantity: 1, UnitPrice: decimal.NewFromInt(5)})
		assertCatalogError(t, err, ErrProductNotFound, apiErrors.ErrResourceNotFound)
		assert.Zero(t, invalidator.calls)
	})

	t.Run("quantidade inválida", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)

		_, err := svc.CreateSale(ctx, &domain.CreateSaleRequest{ProductID: 3, Quantity: 0, UnitPrice: decimal.NewFromInt(5)})
		assertCatalogError(t, err, ErrInvalidSale, apiErrors.ErrMissingRequiredData)

		_, err = svc.CreateSale(ctx, &domain.CreateSaleRequest{ProductID: 3, Quantity: -2, UnitPrice: decimal.NewFromInt(5)})
		assertCatalogError(t, err, ErrInvalidSale, apiErrors.ErrMissingRequiredData)
	})

	t.Run("preço unitário inválido", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)

		_, err := svc.CreateSale(ctx, &domain.CreateSaleRequest{ProductID: 3, Quantity: 1, UnitPrice: decimal.RequireFromString("-1")})
		assertCatalogError(t, err, ErrInvalidSale, apiErrors.ErrInvalidFormat)
	})

	t.Run("falha no banco ao salvar", func(t *testing.T) {
		svc, productRepo, salesRepo, invalidator := newTestService(t)
		productRepo.EXPECT().GetProductByID(ctx, int64(3)).Return(product, nil)
		salesRepo.EXPECT().CreateSale(ctx, gomock.Any()).Return(nil, errors.New("fk violation"))

		_, err := svc.CreateSale(ctx, &domain.CreateSaleRequest{ProductID: 3, Quantity: 1, UnitPrice: decimal.NewFromInt(5)})
		assertCatalogError(t, err, ErrDatabaseOperation, apiErrors.ErrDatabaseOperation)
		assert.Zero(t, invalidator.calls)
	})
}
