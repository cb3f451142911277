package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
	"github.com/jhoicas/inventory-tracker/internal/application/report"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

// ItemHandler maneja las peticiones HTTP para Item y sus movimientos.
type ItemHandler struct {
	uc      *inventory.ItemUseCase
	queries *report.ReportUseCase
	log     *logger.Logger
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *inventory.ItemUseCase, queries *report.ReportUseCase, log *logger.Logger) *ItemHandler {
	return &ItemHandler{uc: uc, queries: queries, log: log}
}

// List godoc
// @Summary      Listar artículos
// @Tags         items
// @Produce      json
// @Param        category   query     string  false  "ID de categoría"
// @Param        search     query     string  false  "Texto en nombre, descripción o SKU"
// @Param        sort       query     string  false  "name | quantity | price | created"  default(name)
// @Param        page       query     int     false  "Página (1-based)"                  default(1)
// @Param        page_size  query     int     false  "Tamaño de página"                  default(15)
// @Success      200        {object}  dto.ItemListResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	page, err := pageRequest(c)
	if err != nil {
		return validationError(c, err.Error())
	}
	filter := dto.ItemFilter{
		CategoryID: c.Query("category"),
		Search:     c.Query("search"),
		Sort:       c.Query("sort"),
	}
	out, err := h.queries.ListItems(c.Context(), filter, page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear artículo
// @Description  Si quantity > 0 registra un movimiento "in" con motivo "Initial stock".
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateItemRequest  true  "Datos del artículo"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener artículo por ID
// @Tags         items
// @Produce      json
// @Param        id   path      string  true  "ID del artículo"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar artículo
// @Description  Solo se aplican los campos presentes. Un cambio de quantity registra un movimiento
// @Description  "Manual adjustment" por la diferencia.
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "ID del artículo"
// @Param        body  body      dto.UpdateItemRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar artículo
// @Description  Borra el artículo y todos sus movimientos.
// @Tags         items
// @Produce      json
// @Param        id   path      string  true  "ID del artículo"
// @Success      200  {object}  dto.DeletedResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.DeletedResponse{ID: id, Deleted: true})
}

// RegisterMovement godoc
// @Summary      Registrar entrada o salida de stock
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id    path      string                       true  "ID del artículo"
// @Param        body  body      dto.RegisterMovementRequest  true  "type (in|out), quantity > 0, reason"
// @Success      201   {object}  dto.RegisterMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/movements [post]
func (h *ItemHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.RegisterMovement(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
