package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeIn         = "in"         // entrada
	MovementTypeOut        = "out"        // salida
	MovementTypeAdjustment = "adjustment" // ajuste
)

// Motivos que registra el sistema.
const (
	ReasonInitialStock     = "Initial stock"
	ReasonManualAdjustment = "Manual adjustment"
	ReasonStockIn          = "Stock in"
	ReasonStockOut         = "Stock out"
)

// StockMovement registro inmutable de un cambio de cantidad de un artículo.
// Quantity es siempre una magnitud positiva; la dirección la da Type, nunca el signo.
type StockMovement struct {
	ID        string
	ItemID    string
	ItemName  string // solo lectura: join con items
	Type      string // in, out, adjustment
	Quantity  int
	Reason    string
	CreatedAt time.Time
}

// IsValidMovementType indica si t es uno de los tipos conocidos.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeAdjustment:
		return true
	}
	return false
}
