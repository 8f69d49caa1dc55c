// Package optional representa valores que podem estar ausentes sem usar ponteiros ou valores sentinela
package optional

// Value guarda um valor e a indicação de presença
type Value[T any] struct {
	value T
	set   bool
}

// Some cria um valor presente
func Some[T any](v T) Value[T] {
	return Value[T]{value: v, set: true}
}

// None cria um valor ausente
func None[T any]() Value[T] {
	return Value[T]{}
}

// Get retorna o valor e se ele está presente
func (o Value[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet indica se o valor está presente
func (o Value[T]) IsSet() bool {
	return o.set
}

// IsZero permite que encoders com `omitzero` omitam valores ausentes
func (o Value[T]) IsZero() bool {
	return !o.set
}

// OrElse retorna o valor ou o fallback quando ausente
func (o Value[T]) OrElse(fallback T) T {
	if !o.set {
		return fallback
	}
	return o.value
}
