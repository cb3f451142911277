package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	domaininv "github.com/jhoicas/inventory-tracker/internal/domain/inventory"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

// RegisterMovement registra una entrada o salida de stock: bloquea la fila del artículo
// (SELECT FOR UPDATE), ajusta la cantidad y guarda el movimiento en la misma transacción.
// Una salida mayor que el stock actual falla con domain.ErrInsufficientStock.
func (uc *ItemUseCase) RegisterMovement(ctx context.Context, id string, in dto.RegisterMovementRequest) (*dto.RegisterMovementResponse, error) {
	in.Type = strings.TrimSpace(in.Type)
	in.Reason = strings.TrimSpace(in.Reason)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Reason == "" {
		in.Reason = entity.ReasonStockIn
		if in.Type == entity.MovementTypeOut {
			in.Reason = entity.ReasonStockOut
		}
	}
	id, ok := canonicalID(id)
	if !ok {
		return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, id)
	}

	var (
		updated  *entity.Item
		movement *entity.StockMovement
	)
	err := uc.txRunner.Run(ctx, func(
		_ repository.CategoryRepository,
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
		previous := item.Quantity
		next, ok := domaininv.ApplyMovement(previous, in.Type, in.Quantity)
		if !ok {
			return fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, previous, in.Quantity)
		}
		item.Quantity = next
		item.UpdatedAt = uc.now()
		if err := itemRepo.Update(ctx, item); err != nil {
			return err
		}
		movement, err = uc.recorder.Record(ctx, movRepo, item.ID, previous, next, in.Reason)
		if err != nil {
			return err
		}
		movement.ItemName = item.Name
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Debug().
		Str("item_id", updated.ID).
		Str("movement_type", movement.Type).
		Int("delta", movement.Quantity).
		Msg("movimiento registrado")

	return &dto.RegisterMovementResponse{
		Item:     dto.NewItemResponse(updated, uc.lowStockThreshold),
		Movement: dto.NewMovementResponse(movement),
	}, nil
}
