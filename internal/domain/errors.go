package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// El detalle legible se agrega con fmt.Errorf("%w: ...", ErrX, ...); comparar siempre con errors.Is.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicateName     = errors.New("el nombre ya existe")
	ErrDuplicateSKU      = errors.New("el SKU ya existe")
	ErrInvalidReference  = errors.New("referencia inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrStorage           = errors.New("error de almacenamiento")
)
