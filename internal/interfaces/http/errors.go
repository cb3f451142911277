package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

// errorStatus traduce un error de dominio a status HTTP y código.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrDuplicateName):
		return fiber.StatusConflict, "DUPLICATE_NAME"
	case errors.Is(err, domain.ErrDuplicateSKU):
		return fiber.StatusConflict, "DUPLICATE_SKU"
	case errors.Is(err, domain.ErrInvalidReference):
		return fiber.StatusUnprocessableEntity, "INVALID_REFERENCE"
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrStorage):
		return fiber.StatusServiceUnavailable, "STORAGE"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

// writeError responde con dto.ErrorResponse. Los 5xx se registran en el log.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	status, code := errorStatus(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Msg("error en petición")
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func validationError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: msg})
}

// queryInt lee un entero opcional de la query. Ausente = 0; mal formado = error.
func queryInt(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(key + " debe ser un entero")
	}
	return n, nil
}

// queryOptionalInt como queryInt, pero distingue el parámetro ausente (nil) de un 0 explícito.
func queryOptionalInt(c *fiber.Ctx, key string) (*int, error) {
	if c.Query(key) == "" {
		return nil, nil
	}
	n, err := queryInt(c, key)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// pageRequest lee page y page_size de la query.
func pageRequest(c *fiber.Ctx) (dto.PageRequest, error) {
	page, err := queryInt(c, "page")
	if err != nil {
		return dto.PageRequest{}, err
	}
	size, err := queryInt(c, "page_size")
	if err != nil {
		return dto.PageRequest{}, err
	}
	return dto.PageRequest{Page: page, PageSize: size}, nil
}
