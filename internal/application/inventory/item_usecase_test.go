package inventory_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/testutil"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

var fixedNow = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

type fixture struct {
	store      *testutil.Store
	categories *inventory.CategoryUseCase
	items      *inventory.ItemUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore()
	log := logger.Nop()
	return &fixture{
		store:      store,
		categories: inventory.NewCategoryUseCase(store.CategoryRepository(), log),
		items: inventory.NewItemUseCase(store, store.ItemRepository(), log, inventory.ItemOptions{
			LowStockThreshold: 10,
			Now:               func() time.Time { return fixedNow },
		}),
	}
}

func (f *fixture) category(t *testing.T, name string) string {
	t.Helper()
	c, err := f.categories.Create(context.Background(), dto.CreateCategoryRequest{Name: name})
	require.NoError(t, err)
	return c.ID
}

func (f *fixture) item(t *testing.T, categoryID, name string, qty int, price, sku string) *dto.ItemResponse {
	t.Helper()
	it, err := f.items.Create(context.Background(), dto.CreateItemRequest{
		Name:       name,
		Quantity:   qty,
		Price:      decimal.RequireFromString(price),
		SKU:        sku,
		CategoryID: categoryID,
	})
	require.NoError(t, err)
	return it
}

func ptr[T any](v T) *T { return &v }

func TestItemUseCase_DrillLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tools := f.category(t, "Tools")

	drill := f.item(t, tools, "Drill", 8, "24.99", "TOOL-01")
	assert.Equal(t, 8, drill.Quantity)
	assert.Equal(t, "Tools", drill.CategoryName)
	require.NotNil(t, drill.SKU)
	assert.Equal(t, "TOOL-01", *drill.SKU)
	assert.True(t, decimal.RequireFromString("199.92").Equal(drill.TotalValue))
	assert.True(t, drill.LowStock)

	movs := f.store.MovementsOf(drill.ID)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeIn, movs[0].Type)
	assert.Equal(t, 8, movs[0].Quantity)
	assert.Equal(t, entity.ReasonInitialStock, movs[0].Reason)
	assert.Equal(t, fixedNow, movs[0].CreatedAt)

	updated, err := f.items.Update(ctx, drill.ID, dto.UpdateItemRequest{Quantity: ptr(3)})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Quantity)
	assert.Equal(t, "Drill", updated.Name, "los campos ausentes no cambian")

	movs = f.store.MovementsOf(drill.ID)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementTypeOut, movs[1].Type)
	assert.Equal(t, 5, movs[1].Quantity)
	assert.Equal(t, entity.ReasonManualAdjustment, movs[1].Reason)
}

func TestItemUseCase_CreateWithoutStockRecordsNothing(t *testing.T) {
	f := newFixture(t)
	tools := f.category(t, "Tools")

	it := f.item(t, tools, "Sierra", 0, "10", "")
	assert.Nil(t, it.SKU, "SKU vacío se guarda como NULL")
	assert.True(t, it.OutOfStock)
	assert.Empty(t, f.store.MovementsOf(it.ID))
}

func TestItemUseCase_CreateDuplicateSKULeavesStoreUnchanged(t *testing.T) {
	f := newFixture(t)
	tools := f.category(t, "Tools")
	f.item(t, tools, "Drill", 8, "24.99", "TOOL-01")
	itemsBefore, movsBefore := len(f.store.Items()), len(f.store.Movements())

	_, err := f.items.Create(context.Background(), dto.CreateItemRequest{
		Name: "Drill Pro", Quantity: 4, Price: decimal.NewFromInt(30), SKU: "TOOL-01", CategoryID: tools,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicateSKU))
	assert.Len(t, f.store.Items(), itemsBefore)
	assert.Len(t, f.store.Movements(), movsBefore)
}

func TestItemUseCase_UpdateToDuplicateSKU(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tools := f.category(t, "Tools")
	f.item(t, tools, "Drill", 8, "24.99", "TOOL-01")
	saw := f.item(t, tools, "Saw", 2, "15.00", "TOOL-02")

	_, err := f.items.Update(ctx, saw.ID, dto.UpdateItemRequest{SKU: ptr("TOOL-01"), Quantity: ptr(9)})
	assert.ErrorIs(t, err, domain.ErrDuplicateSKU)

	got, err := f.items.GetByID(ctx, saw.ID)
	require.NoError(t, err)
	assert.Equal(t, "TOOL-02", *got.SKU)
	assert.Equal(t, 2, got.Quantity)
	assert.Len(t, f.store.MovementsOf(saw.ID), 1)

	// Reasignar su propio SKU no es colisión.
	_, err = f.items.Update(ctx, saw.ID, dto.UpdateItemRequest{SKU: ptr("TOOL-02")})
	assert.NoError(t, err)

	cleared, err := f.items.Update(ctx, saw.ID, dto.UpdateItemRequest{SKU: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, cleared.SKU)
}

func TestItemUseCase_UpdateQuantityMovements(t *testing.T) {
	cases := []struct {
		name     string
		from, to int
		wantMov  bool
		wantType string
		wantQty  int
	}{
		{"sube", 4, 10, true, entity.MovementTypeIn, 6},
		{"baja", 10, 1, true, entity.MovementTypeOut, 9},
		{"a cero", 6, 0, true, entity.MovementTypeOut, 6},
		{"igual", 5, 5, false, "", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			tools := f.category(t, "Tools")
			it := f.item(t, tools, "Martillo", tc.from, "7.50", "")
			before := len(f.store.MovementsOf(it.ID))

			_, err := f.items.Update(context.Background(), it.ID, dto.UpdateItemRequest{Quantity: ptr(tc.to)})
			require.NoError(t, err)

			movs := f.store.MovementsOf(it.ID)
			if !tc.wantMov {
				assert.Len(t, movs, before)
				return
			}
			require.Len(t, movs, before+1)
			last := movs[len(movs)-1]
			assert.Equal(t, tc.wantType, last.Type)
			assert.Equal(t, tc.wantQty, last.Quantity)
		})
	}
}

func TestItemUseCase_UpdateWithoutQuantityRecordsNothing(t *testing.T) {
	f := newFixture(t)
	tools := f.category(t, "Tools")
	garden := f.category(t, "Garden")
	it := f.item(t, tools, "Pala", 3, "12.00", "")

	updated, err := f.items.Update(context.Background(), it.ID, dto.UpdateItemRequest{
		Name:       ptr("Pala grande"),
		Price:      ptr(decimal.RequireFromString("13.45")),
		CategoryID: ptr(garden),
	})
	require.NoError(t, err)
	assert.Equal(t, "Pala grande", updated.Name)
	assert.Equal(t, "Garden", updated.CategoryName)
	assert.Equal(t, "13.45", updated.Price.StringFixed(2))
	assert.Len(t, f.store.MovementsOf(it.ID), 1)
}

func TestItemUseCase_ValidationBeforeWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tools := f.category(t, "Tools")
	it := f.item(t, tools, "Drill", 8, "24.99", "")
	txBefore := f.store.TxCount()

	_, err := f.items.Create(ctx, dto.CreateItemRequest{Name: "X", Quantity: -1, CategoryID: tools})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.items.Create(ctx, dto.CreateItemRequest{Name: "X", Price: decimal.NewFromInt(-5), CategoryID: tools})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.items.Create(ctx, dto.CreateItemRequest{Name: "  ", CategoryID: tools})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.items.Update(ctx, it.ID, dto.UpdateItemRequest{Quantity: ptr(-3)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.items.Update(ctx, it.ID, dto.UpdateItemRequest{Price: ptr(decimal.NewFromInt(100_000_000))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.items.Create(ctx, dto.CreateItemRequest{Name: "X", Price: decimal.RequireFromString("24.999"), CategoryID: tools})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.items.Update(ctx, it.ID, dto.UpdateItemRequest{Price: ptr(decimal.RequireFromString("24.999"))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Equal(t, txBefore, f.store.TxCount(), "ninguna validación abre transacción")
	got, err := f.items.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Quantity)
}

func TestItemUseCase_InvalidCategoryReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.items.Create(ctx, dto.CreateItemRequest{Name: "X", CategoryID: uuid.NewString()})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	_, err = f.items.Create(ctx, dto.CreateItemRequest{Name: "X", CategoryID: "no-es-uuid"})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	tools := f.category(t, "Tools")
	it := f.item(t, tools, "Drill", 1, "1", "")
	_, err = f.items.Update(ctx, it.ID, dto.UpdateItemRequest{CategoryID: ptr(uuid.NewString())})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
	assert.Equal(t, tools, f.store.Items()[0].CategoryID)
}

func TestItemUseCase_RollbackOnMovementFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tools := f.category(t, "Tools")
	it := f.item(t, tools, "Drill", 8, "24.99", "TOOL-01")

	f.store.FailOn(testutil.OpMovementCreate, errors.New("disk full"))

	_, err := f.items.Update(ctx, it.ID, dto.UpdateItemRequest{Quantity: ptr(2)})
	assert.ErrorIs(t, err, domain.ErrStorage)

	_, err = f.items.Create(ctx, dto.CreateItemRequest{
		Name: "Saw", Quantity: 3, Price: decimal.NewFromInt(5), CategoryID: tools,
	})
	assert.ErrorIs(t, err, domain.ErrStorage)

	_, err = f.items.RegisterMovement(ctx, it.ID, dto.RegisterMovementRequest{Type: "in", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrStorage)

	f.store.ClearFailures()
	items := f.store.Items()
	require.Len(t, items, 1, "el artículo sin movimiento no se publica")
	assert.Equal(t, 8, items[0].Quantity, "la cantidad no cambia sin su movimiento")
	assert.Len(t, f.store.Movements(), 1)
}

func TestItemUseCase_RollbackOnCommitFailure(t *testing.T) {
	f := newFixture(t)
	tools := f.category(t, "Tools")
	f.store.FailOn(testutil.OpCommit, errors.New("connection reset"))

	_, err := f.items.Create(context.Background(), dto.CreateItemRequest{
		Name: "Drill", Quantity: 8, Price: decimal.NewFromInt(1), CategoryID: tools,
	})
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Empty(t, f.store.Items())
	assert.Empty(t, f.store.Movements())
}

func TestItemUseCase_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tools := f.category(t, "Tools")
	drill := f.item(t, tools, "Drill", 8, "24.99", "")
	saw := f.item(t, tools, "Saw", 2, "5", "")
	_, err := f.items.Update(ctx, drill.ID, dto.UpdateItemRequest{Quantity: ptr(1)})
	require.NoError(t, err)

	require.NoError(t, f.items.Delete(ctx, drill.ID))
	assert.Empty(t, f.store.MovementsOf(drill.ID))
	assert.Len(t, f.store.MovementsOf(saw.ID), 1)

	_, err = f.items.GetByID(ctx, drill.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.items.Delete(ctx, drill.ID), domain.ErrNotFound)
	assert.ErrorIs(t, f.items.Delete(ctx, "xyz"), domain.ErrNotFound)
}

func TestItemUseCase_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.items.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.items.Update(ctx, uuid.NewString(), dto.UpdateItemRequest{Quantity: ptr(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.items.RegisterMovement(ctx, uuid.NewString(), dto.RegisterMovementRequest{Type: "in", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemUseCase_RegisterMovement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tools := f.category(t, "Tools")
	it := f.item(t, tools, "Drill", 5, "2.00", "")

	res, err := f.items.RegisterMovement(ctx, it.ID, dto.RegisterMovementRequest{Type: "in", Quantity: 7})
	require.NoError(t, err)
	assert.Equal(t, 12, res.Item.Quantity)
	assert.Equal(t, entity.MovementTypeIn, res.Movement.Type)
	assert.Equal(t, 7, res.Movement.Quantity)
	assert.Equal(t, entity.ReasonStockIn, res.Movement.Reason)
	assert.Equal(t, "Drill", res.Movement.ItemName)

	res, err = f.items.RegisterMovement(ctx, it.ID, dto.RegisterMovementRequest{Type: "out", Quantity: 12, Reason: " venta "})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Item.Quantity)
	assert.True(t, res.Item.OutOfStock)
	assert.Equal(t, "venta", res.Movement.Reason)

	_, err = f.items.RegisterMovement(ctx, it.ID, dto.RegisterMovementRequest{Type: "out", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = f.items.RegisterMovement(ctx, it.ID, dto.RegisterMovementRequest{Type: "adjustment", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.items.RegisterMovement(ctx, it.ID, dto.RegisterMovementRequest{Type: "in", Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Len(t, f.store.MovementsOf(it.ID), 3)
	assert.Equal(t, 0, f.store.Items()[0].Quantity)
}

func TestItemUseCase_AcceptsAlternativeIDForms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tools := f.category(t, "Tools")
	braced := "{" + strings.ToUpper(tools) + "}"

	it, err := f.items.Create(ctx, dto.CreateItemRequest{
		Name: "Drill", Quantity: 8, Price: decimal.RequireFromString("24.99"), CategoryID: braced,
	})
	require.NoError(t, err)
	assert.Equal(t, tools, it.CategoryID)
	assert.Equal(t, "Tools", it.CategoryName)

	upper := strings.ToUpper(it.ID)
	got, err := f.items.GetByID(ctx, upper)
	require.NoError(t, err)
	assert.Equal(t, it.ID, got.ID)

	// Mismo id en otra forma: no hay cambio de categoría ni movimiento nuevo.
	updated, err := f.items.Update(ctx, upper, dto.UpdateItemRequest{CategoryID: ptr(strings.ReplaceAll(strings.ToUpper(tools), "-", ""))})
	require.NoError(t, err)
	assert.Equal(t, tools, updated.CategoryID)

	res, err := f.items.RegisterMovement(ctx, upper, dto.RegisterMovementRequest{Type: "out", Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, it.ID, res.Movement.ItemID)
	assert.Len(t, f.store.MovementsOf(it.ID), 2)

	require.NoError(t, f.items.Delete(ctx, upper))
	assert.Empty(t, f.store.Items())
}
