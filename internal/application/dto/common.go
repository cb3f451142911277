package dto

import (
	"fmt"
	"math"

	"github.com/jhoicas/inventory-tracker/internal/domain"
)

// PageRequest paginación 1-based para listados.
type PageRequest struct {
	Page     int `query:"page"`
	PageSize int `query:"page_size"`
}

// Normalize aplica valores por defecto: página mínima 1, tamaño por defecto y tope máximo.
// Falla con ErrInvalidInput si el offset de la página no cabe en un int.
func (p *PageRequest) Normalize(defaultSize, maxSize int) error {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = defaultSize
	}
	if maxSize > 0 && p.PageSize > maxSize {
		p.PageSize = maxSize
	}
	if p.PageSize < 1 {
		p.PageSize = 1
	}
	// offset + page_size también debe caber en un int.
	if maxPage := math.MaxInt / p.PageSize; p.Page > maxPage {
		return fmt.Errorf("%w: page debe ser como máximo %d", domain.ErrInvalidInput, maxPage)
	}
	return nil
}

// Offset filas a saltar para la página actual.
func (p PageRequest) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewPageResponse calcula los metadatos a partir de la petición normalizada y el total.
func NewPageResponse(p PageRequest, total int) PageResponse {
	pages := 0
	if p.PageSize > 0 {
		pages = (total + p.PageSize - 1) / p.PageSize
	}
	return PageResponse{
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      total,
		TotalPages: pages,
		HasNext:    p.Page < pages,
		HasPrev:    p.Page > 1,
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DeletedResponse confirmación de borrado.
type DeletedResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
