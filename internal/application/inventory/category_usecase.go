package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

// CategoryUseCase casos de uso de categorías. El borrado arrastra artículos y movimientos.
type CategoryUseCase struct {
	repo repository.CategoryRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, log *logger.Logger) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, log: log.Named("categories"), now: utcNow}
}

// Create crea una categoría. Falla con domain.ErrDuplicateName si el nombre ya existe.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: categoría %q", domain.ErrDuplicateName, in.Name)
	}
	category := &entity.Category{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   uc.now(),
	}
	// La restricción UNIQUE cubre la carrera entre la consulta previa y el INSERT.
	if err := uc.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	uc.log.Debug().Str("category_id", category.ID).Str("name", category.Name).Msg("categoría creada")
	out := dto.NewCategoryResponse(category)
	return &out, nil
}

// GetByID obtiene una categoría. Devuelve domain.ErrNotFound si no existe.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	category, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewCategoryResponse(category)
	return &out, nil
}

// List lista todas las categorías con el número de artículos de cada una.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.NewCategoryResponse(c))
	}
	return out, nil
}

// Update cambia nombre y/o descripción.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	trimPtr(in.Name)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	category, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil && *in.Name != category.Name {
		other, err := uc.repo.GetByName(ctx, *in.Name)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != category.ID {
			return nil, fmt.Errorf("%w: categoría %q", domain.ErrDuplicateName, *in.Name)
		}
		category.Name = *in.Name
	}
	if in.Description != nil {
		category.Description = *in.Description
	}
	if err := uc.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	out := dto.NewCategoryResponse(category)
	return &out, nil
}

// Delete borra la categoría, sus artículos y los movimientos de esos artículos en una sola operación.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	id, ok := canonicalID(id)
	if !ok {
		return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Debug().Str("category_id", id).Msg("categoría borrada en cascada")
	return nil
}

func (uc *CategoryUseCase) find(ctx context.Context, id string) (*entity.Category, error) {
	id, ok := canonicalID(id)
	if !ok {
		return nil, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
	}
	category, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
	}
	return category, nil
}
