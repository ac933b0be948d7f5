package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Errores del libro de movimientos.
	ErrMissingField    = errors.New("campo requerido ausente")
	ErrInvalidQuantity = errors.New("cantidad inválida")
	ErrInvalidState    = errors.New("transición de estado inválida")
)

// FieldError asocia un error de validación al campo que lo produjo.
// errors.Is(err, ErrMissingField) sigue funcionando a través de Unwrap.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// MissingField construye un FieldError para un campo obligatorio ausente.
func MissingField(field string) error {
	return &FieldError{Field: field, Err: ErrMissingField}
}

// InvalidField construye un FieldError con el error base indicado.
func InvalidField(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}
