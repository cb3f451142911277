package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/application/report"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

// ReportHandler endpoints de consulta: movimientos, stock bajo, estadísticas, dashboard y PDF.
type ReportHandler struct {
	uc  *report.ReportUseCase
	log *logger.Logger
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.ReportUseCase, log *logger.Logger) *ReportHandler {
	return &ReportHandler{uc: uc, log: log}
}

// ListMovements godoc
// @Summary      Listar movimientos de stock
// @Tags         movements
// @Produce      json
// @Param        item       query     string  false  "ID del artículo"
// @Param        page       query     int     false  "Página (1-based)"  default(1)
// @Param        page_size  query     int     false  "Tamaño de página"  default(20)
// @Success      200        {object}  dto.MovementListResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/stock_movements [get]
func (h *ReportHandler) ListMovements(c *fiber.Ctx) error {
	page, err := pageRequest(c)
	if err != nil {
		return validationError(c, err.Error())
	}
	out, err := h.uc.ListMovements(c.Context(), dto.MovementFilter{ItemID: c.Query("item")}, page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Artículos con stock bajo
// @Tags         reports
// @Produce      json
// @Param        threshold  query     int  false  "Umbral (quantity < threshold); ausente = umbral configurado"
// @Success      200        {object}  dto.LowStockResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/low_stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	threshold, err := queryOptionalInt(c, "threshold")
	if err != nil {
		return validationError(c, err.Error())
	}
	out, err := h.uc.LowStock(c.Context(), threshold)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Estadísticas del inventario
// @Tags         reports
// @Produce      json
// @Success      200  {object}  dto.StatsResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/stats [get]
func (h *ReportHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Dashboard godoc
// @Summary      Resumen de portada
// @Description  Estadísticas, artículos con stock bajo y los últimos 5 movimientos.
// @Tags         reports
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.Dashboard(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// StockReportPDF godoc
// @Summary      Informe de stock en PDF
// @Tags         reports
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/stock.pdf [get]
func (h *ReportHandler) StockReportPDF(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.StockReportPDF(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}
