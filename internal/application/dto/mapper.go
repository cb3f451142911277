package dto

import "github.com/jhoicas/inventory-tracker/internal/domain/entity"

// NewItemResponse construye la salida de un artículo; lowStockThreshold define el flag low_stock.
func NewItemResponse(item *entity.Item, lowStockThreshold int) ItemResponse {
	return ItemResponse{
		ID:           item.ID,
		Name:         item.Name,
		Description:  item.Description,
		Quantity:     item.Quantity,
		Price:        item.Price,
		SKU:          item.SKU,
		CategoryName: item.CategoryName,
		CategoryID:   item.CategoryID,
		TotalValue:   item.TotalValue(),
		LowStock:     item.IsLowStock(lowStockThreshold),
		OutOfStock:   item.IsOutOfStock(),
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

// NewItemResponses mapea una lista; nunca devuelve nil para que el JSON sea [].
func NewItemResponses(items []*entity.Item, lowStockThreshold int) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewItemResponse(it, lowStockThreshold))
	}
	return out
}

// NewCategoryResponse construye la salida de una categoría.
func NewCategoryResponse(c *entity.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ItemCount:   c.ItemCount,
		CreatedAt:   c.CreatedAt,
	}
}

// NewMovementResponse construye la salida de un movimiento.
func NewMovementResponse(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:        m.ID,
		ItemID:    m.ItemID,
		ItemName:  m.ItemName,
		Type:      m.Type,
		Quantity:  m.Quantity,
		Reason:    m.Reason,
		CreatedAt: m.CreatedAt,
	}
}

// NewMovementResponses mapea una lista; nunca devuelve nil.
func NewMovementResponses(list []*entity.StockMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, NewMovementResponse(m))
	}
	return out
}
