package entity

import "time"

// Límites de longitud de los campos de texto (coinciden con el esquema SQL).
const (
	MaxNameLength   = 100
	MaxSKULength    = 50
	MaxReasonLength = 200
)

// Category representa una categoría de artículos. El nombre es único.
// Al borrar la categoría se borran sus artículos y, en cascada, sus movimientos.
type Category struct {
	ID          string
	Name        string
	Description string
	ItemCount   int // solo lectura: se llena en los listados
	CreatedAt   time.Time
}
