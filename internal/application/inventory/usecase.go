package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	domaininv "github.com/jhoicas/inventory-tracker/internal/domain/inventory"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

// ItemUseCase casos de uso de artículos. Toda escritura que cambia la cantidad registra su
// movimiento en la misma transacción (TxRunner), con Commit o Rollback del conjunto.
type ItemUseCase struct {
	txRunner          TxRunner
	itemRepo          repository.ItemRepository
	recorder          *MovementRecorder
	log               *logger.Logger
	lowStockThreshold int
	now               func() time.Time
}

// ItemOptions parámetros opcionales del caso de uso.
type ItemOptions struct {
	LowStockThreshold int              // umbral para el flag low_stock de las respuestas
	Now               func() time.Time // reloj; nil = hora UTC actual
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	log *logger.Logger,
	opts ItemOptions,
) *ItemUseCase {
	now := opts.Now
	if now == nil {
		now = utcNow
	}
	threshold := opts.LowStockThreshold
	if threshold <= 0 {
		threshold = entity.DefaultLowStockThreshold
	}
	return &ItemUseCase{
		txRunner:          txRunner,
		itemRepo:          itemRepo,
		recorder:          NewMovementRecorder(now),
		log:               log.Named("items"),
		lowStockThreshold: threshold,
		now:               now,
	}
}

// Create crea un artículo. Si la cantidad inicial es > 0 registra un movimiento
// in con motivo "Initial stock". Falla con ErrInvalidReference si la categoría no existe
// y con ErrDuplicateSKU si el SKU ya está en uso.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = strings.TrimSpace(in.SKU)
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	price, err := domaininv.NormalizePrice(in.Price)
	if err != nil {
		return nil, err
	}
	categoryID, ok := canonicalID(in.CategoryID)
	if !ok {
		return nil, fmt.Errorf("%w: categoría %s no existe", domain.ErrInvalidReference, in.CategoryID)
	}

	now := uc.now()
	item := &entity.Item{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Quantity:    in.Quantity,
		Price:       price,
		SKU:         optionalSKU(in.SKU),
		CategoryID:  categoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var movement *entity.StockMovement
	err = uc.txRunner.Run(ctx, func(
		categoryRepo repository.CategoryRepository,
		itemRepo repository.ItemRepository,
		movRepo repository.StockMovementRepository,
	) error {
		category, err := categoryRepo.GetByID(ctx, item.CategoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return fmt.Errorf("%w: categoría %s no existe", domain.ErrInvalidReference, item.CategoryID)
		}
		if item.SKU != nil {
			if err := ensureSKUFree(ctx, itemRepo, *item.SKU, ""); err != nil {
				return err
			}
		}
		if err := itemRepo.Create(ctx, item); err != nil {
			return err
		}
		item.CategoryName = category.Name
		movement, err = uc.recorder.Record(ctx, movRepo, item.ID, 0, item.Quantity, entity.ReasonInitialStock)
		return err
	})
	if err != nil {
		return nil, err
	}

	ev := uc.log.Debug().Str("item_id", item.ID).Int("quantity", item.Quantity)
	if movement != nil {
		ev = ev.Str("movement_id", movement.ID)
	}
	ev.Msg("artículo creado")

	out := dto.NewItemResponse(item, uc.lowStockThreshold)
	return &out, nil
}

// GetByID obtiene un artículo. Devuelve domain.ErrNotFound si no existe.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	id, ok := canonicalID(id)
	if !ok {
		return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, id)
	}
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, id)
	}
	out := dto.NewItemResponse(item, uc.lowStockThreshold)
	return &out, nil
}

// Update aplica los campos presentes en la petición. Si la cantidad cambia registra un
// movimiento in/out por la diferencia con motivo "Manual adjustment"; si no cambia no registra nada.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	trimPtr(in.Name)
	trimPtr(in.SKU)
	trimPtr(in.CategoryID)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	var price *decimal.Decimal
	if in.Price != nil {
		p, err := domaininv.NormalizePrice(*in.Price)
		if err != nil {
			return nil, err
		}
		price = &p
	}
	id, ok := canonicalID(id)
	if !ok {
		return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, id)
	}
	if in.CategoryID != nil {
		categoryID, ok := canonicalID(*in.CategoryID)
		if !ok {
			return nil, fmt.Errorf("%w: categoría %s no existe", domain.ErrInvalidReference, *in.CategoryID)
		}
		in.CategoryID = &categoryID
	}

	var (
		updated  *entity.Item
		movement *entity.StockMovement
		oldQty   int
	)
	err := uc.txRunner.Run(ctx, func(
		categoryRepo repository.CategoryRepository,
		itemRepo repository.ItemRepository,
		movRepo repository.StockMovementRepository,
	) error {
		item, err := itemRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: artículo %s", domain.ErrNotFound, id)
		}
		oldQty = item.Quantity

		if in.Name != nil {
			item.Name = *in.Name
		}
		if in.Description != nil {
			item.Description = *in.Description
		}
		if in.Quantity != nil {
			item.Quantity = *in.Quantity
		}
		if price != nil {
			item.Price = *price
		}
		if in.CategoryID != nil && *in.CategoryID != item.CategoryID {
			category, err := categoryRepo.GetByID(ctx, *in.CategoryID)
			if err != nil {
				return err
			}
			if category == nil {
				return fmt.Errorf("%w: categoría %s no existe", domain.ErrInvalidReference, *in.CategoryID)
			}
			item.CategoryID = category.ID
			item.CategoryName = category.Name
		}
		if in.SKU != nil {
			newSKU := optionalSKU(*in.SKU)
			if newSKU != nil && !sameSKU(newSKU, item.SKU) {
				if err := ensureSKUFree(ctx, itemRepo, *newSKU, item.ID); err != nil {
					return err
				}
			}
			item.SKU = newSKU
		}
		item.UpdatedAt = uc.now()

		if err := itemRepo.Update(ctx, item); err != nil {
			return err
		}
		if item.Quantity != oldQty {
			movement, err = uc.recorder.Record(ctx, movRepo, item.ID, oldQty, item.Quantity, entity.ReasonManualAdjustment)
			if err != nil {
				return err
			}
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	ev := uc.log.Debug().Str("item_id", updated.ID)
	if movement != nil {
		ev = ev.Str("movement_type", movement.Type).Int("delta", movement.Quantity).Int("from", oldQty)
	}
	ev.Msg("artículo actualizado")

	out := dto.NewItemResponse(updated, uc.lowStockThreshold)
	return &out, nil
}

// Delete borra el artículo y sus movimientos. Devuelve domain.ErrNotFound si no existe.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	id, ok := canonicalID(id)
	if !ok {
		return fmt.Errorf("%w: artículo %s", domain.ErrNotFound, id)
	}
	err := uc.txRunner.Run(ctx, func(
		_ repository.CategoryRepository,
		itemRepo repository.ItemRepository,
		_ repository.StockMovementRepository,
	) error {
		return itemRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Debug().Str("item_id", id).Msg("artículo borrado")
	return nil
}

// ensureSKUFree falla con ErrDuplicateSKU si otro artículo (distinto de selfID) usa sku.
func ensureSKUFree(ctx context.Context, itemRepo repository.ItemRepository, sku, selfID string) error {
	existing, err := itemRepo.GetBySKU(ctx, sku)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("%w: %q ya está asignado a otro artículo", domain.ErrDuplicateSKU, sku)
	}
	return nil
}
