package repository

import "errors"

// ErrDuplicateCode indica colisão do código público do produto
var ErrDuplicateCode = errors.New("código de produto duplicado")
