package revenue

import "github.com/pkg/errors"

var (
	// ErrInvalidFilter indica filtros rejeitados antes de consultar o armazenamento
	ErrInvalidFilter = errors.New("filtro de receita inválido")
)

func invalidFilter(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidFilter, format, args...)
}

// IsInvalidFilter indica se o erro veio da validação dos filtros
func IsInvalidFilter(err error) bool {
	return errors.Is(err, ErrInvalidFilter)
}
