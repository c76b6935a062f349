package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrEmailAlreadyExists    = errors.New("el email ya está registrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrInvalidToken          = errors.New("token inválido o expirado")
	ErrAccessDenied          = errors.New("acceso denegado")
	ErrConflict              = errors.New("conflicto con el estado actual")
	ErrMissingField          = errors.New("campo obligatorio ausente")
	ErrInvalidField          = errors.New("valor de campo inválido")
	ErrAlreadySubmittedToday = errors.New("ya se envió un reporte hoy")
)

// FieldError señala el primer campo que invalidó un reporte.
// Envuelve ErrMissingField o ErrInvalidField para que errors.Is funcione.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("campo %q: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// MissingField construye el error de campo obligatorio ausente.
func MissingField(field string) error {
	return &FieldError{Field: field, Err: ErrMissingField}
}

// InvalidField construye el error de valor no numérico o no representable.
func InvalidField(field string) error {
	return &FieldError{Field: field, Err: ErrInvalidField}
}
