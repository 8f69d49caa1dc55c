package catalog

import (
	"errors"
	"fmt"
)

// Erros específicos do catálogo de produtos e vendas
var (
	// Erros de validação
	ErrInvalidProduct = errors.New("produto inválido")
	ErrInvalidSale    = errors.New("venda inválida")

	// Erros de recurso
	ErrProductNotFound = errors.New("produto não encontrado")

	// Erros de banco de dados
	ErrDatabaseOperation = errors.New("erro ao realizar operação no banco de dados")

	// Erros de geração de código
	ErrGenerateCode = errors.New("erro ao gerar código do produto")
)

// CatalogError é um erro com contexto adicional para o catálogo
type CatalogError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	Details string // Detalhes adicionais
}

// Error implementa a interface error
func (e *CatalogError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *CatalogError) Unwrap() error {
	return e.Err
}

// NewCatalogError cria um novo CatalogError
func NewCatalogError(err error, code string, details string) *CatalogError {
	return &CatalogError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}
