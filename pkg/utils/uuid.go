package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// CodeLength é o tamanho dos códigos públicos de produto
	CodeLength = 6
)

// GenerateID gera um código alfanumérico curto para uso público
func GenerateID() (string, error) {
	return gonanoid.Generate(characters, CodeLength)
}
