package dto

import "time"

// RegisterMovementRequest body para POST /api/items/:id/movements.
type RegisterMovementRequest struct {
	Type     string `json:"type" validate:"required,oneof=in out"`
	Quantity int    `json:"quantity" validate:"gt=0"`
	Reason   string `json:"reason" validate:"max=200"`
}

// MovementResponse salida de un movimiento de stock.
type MovementResponse struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	ItemName  string    `json:"item_name,omitempty"`
	Type      string    `json:"movement_type"`
	Quantity  int       `json:"quantity"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// MovementFilter filtro del listado de movimientos.
type MovementFilter struct {
	ItemID string `query:"item"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// RegisterMovementResponse artículo resultante y movimiento registrado.
type RegisterMovementResponse struct {
	Item     ItemResponse     `json:"item"`
	Movement MovementResponse `json:"movement"`
}
