package inventory_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/domain"
)

func TestCategoryUseCase_CreateAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tools := f.category(t, "Tools")
	f.category(t, "Electronics")
	f.item(t, tools, "Drill", 8, "24.99", "")
	f.item(t, tools, "Saw", 1, "9.90", "")

	list, err := f.categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Electronics", list[0].Name, "ordenadas por nombre")
	assert.Equal(t, 0, list[0].ItemCount)
	assert.Equal(t, "Tools", list[1].Name)
	assert.Equal(t, 2, list[1].ItemCount)

	got, err := f.categories.GetByID(ctx, tools)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ItemCount)

	got, err = f.categories.GetByID(ctx, "{"+strings.ToUpper(tools)+"}")
	require.NoError(t, err)
	assert.Equal(t, tools, got.ID)
}

func TestCategoryUseCase_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.categories.Create(ctx, dto.CreateCategoryRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	long := make([]byte, 101)
	for i := range long {
		long[i] = 'a'
	}
	_, err = f.categories.Create(ctx, dto.CreateCategoryRequest{Name: string(long)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.store.Categories())
}

func TestCategoryUseCase_DuplicateName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.category(t, "Tools")
	garden := f.category(t, "Garden")

	_, err := f.categories.Create(ctx, dto.CreateCategoryRequest{Name: " Tools "})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	_, err = f.categories.Update(ctx, garden, dto.UpdateCategoryRequest{Name: ptr("Tools")})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)
	assert.Len(t, f.store.Categories(), 2)
}

func TestCategoryUseCase_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.category(t, "Tools")

	got, err := f.categories.Update(ctx, id, dto.UpdateCategoryRequest{Description: ptr("Herramientas")})
	require.NoError(t, err)
	assert.Equal(t, "Tools", got.Name)
	assert.Equal(t, "Herramientas", got.Description)

	got, err = f.categories.Update(ctx, id, dto.UpdateCategoryRequest{Name: ptr("Hand tools")})
	require.NoError(t, err)
	assert.Equal(t, "Hand tools", got.Name)
	assert.Equal(t, "Herramientas", got.Description)

	_, err = f.categories.Update(ctx, uuid.NewString(), dto.UpdateCategoryRequest{Name: ptr("Otra")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategoryUseCase_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tools := f.category(t, "Tools")
	garden := f.category(t, "Garden")
	drill := f.item(t, tools, "Drill", 8, "24.99", "TOOL-01")
	f.item(t, tools, "Saw", 3, "5", "")
	rake := f.item(t, garden, "Rake", 4, "11", "")

	require.NoError(t, f.categories.Delete(ctx, tools))

	assert.Len(t, f.store.Categories(), 1)
	items := f.store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, rake.ID, items[0].ID)
	for _, m := range f.store.Movements() {
		assert.Equal(t, rake.ID, m.ItemID, "no quedan movimientos huérfanos")
	}

	// El SKU del artículo borrado vuelve a estar libre.
	f.item(t, garden, "Drill", 1, "20", *drill.SKU)

	assert.ErrorIs(t, f.categories.Delete(ctx, tools), domain.ErrNotFound)
	_, err := f.categories.GetByID(ctx, "tools")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
