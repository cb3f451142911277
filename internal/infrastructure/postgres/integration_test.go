package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-tracker/pkg/config"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

// Los tests de integración levantan un PostgreSQL real con testcontainers.
// Se ejecutan solo con INVENTORY_IT=1 y sin -short.
var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	if os.Getenv("INVENTORY_IT") == "" {
		return m.Run()
	}
	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("inventory_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "start postgres container: %v\n", err)
		return 1
	}
	defer func() { _ = container.Terminate(ctx) }()

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Fprintf(os.Stderr, "connection string: %v\n", err)
		return 1
	}
	testPool, err = postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 5})
	if err != nil {
		fmt.Fprintf(os.Stderr, "pool: %v\n", err)
		return 1
	}
	defer testPool.Close()
	if err := postgres.EnsureSchema(ctx, testPool); err != nil {
		fmt.Fprintf(os.Stderr, "schema: %v\n", err)
		return 1
	}
	return m.Run()
}

type pgFixture struct {
	categories repository.CategoryRepository
	items      repository.ItemRepository
	movements  repository.StockMovementRepository
	report     repository.ReportRepository
	tx         *postgres.TxRunner
	catUC      *inventory.CategoryUseCase
	itemUC     *inventory.ItemUseCase
}

func newPGFixture(t *testing.T) *pgFixture {
	t.Helper()
	if testing.Short() || testPool == nil {
		t.Skip("integración: requiere INVENTORY_IT=1 y Docker")
	}
	ctx := context.Background()
	require.NoError(t, postgres.Truncate(ctx, testPool))
	// Aplicar el esquema dos veces debe ser inocuo.
	require.NoError(t, postgres.EnsureSchema(ctx, testPool))

	timeout := 5 * time.Second
	f := &pgFixture{
		categories: postgres.NewCategoryRepository(testPool, timeout),
		items:      postgres.NewItemRepository(testPool, timeout),
		movements:  postgres.NewStockMovementRepository(testPool, timeout),
		report:     postgres.NewReportRepository(testPool, timeout),
		tx:         postgres.NewTxRunner(testPool, timeout),
	}
	f.catUC = inventory.NewCategoryUseCase(f.categories, logger.Nop())
	f.itemUC = inventory.NewItemUseCase(f.tx, f.items, logger.Nop(), inventory.ItemOptions{})
	return f
}

func (f *pgFixture) category(t *testing.T, name string) string {
	t.Helper()
	c, err := f.catUC.Create(context.Background(), dto.CreateCategoryRequest{Name: name})
	require.NoError(t, err)
	return c.ID
}

func (f *pgFixture) item(t *testing.T, cat, name string, qty int, price, sku string) *dto.ItemResponse {
	t.Helper()
	it, err := f.itemUC.Create(context.Background(), dto.CreateItemRequest{
		Name: name, Quantity: qty, Price: decimal.RequireFromString(price), SKU: sku, CategoryID: cat,
	})
	require.NoError(t, err)
	return it
}

func countMovements(t *testing.T, f *pgFixture, itemID string) int {
	t.Helper()
	_, total, err := f.movements.List(context.Background(), repository.MovementQuery{ItemID: itemID})
	require.NoError(t, err)
	return total
}

func TestPostgres_DrillLifecycle(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	tools := f.category(t, "Tools")

	drill := f.item(t, tools, "Drill", 8, "24.99", "TOOL-01")
	assert.Equal(t, "Tools", drill.CategoryName)
	assert.Equal(t, "24.99", drill.Price.StringFixed(2))

	q := 3
	_, err := f.itemUC.Update(ctx, drill.ID, dto.UpdateItemRequest{Quantity: &q})
	require.NoError(t, err)

	list, total, err := f.movements.List(ctx, repository.MovementQuery{ItemID: drill.ID})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	assert.Equal(t, entity.MovementTypeOut, list[0].Type)
	assert.Equal(t, 5, list[0].Quantity)
	assert.Equal(t, entity.ReasonManualAdjustment, list[0].Reason)
	assert.Equal(t, "Drill", list[0].ItemName)
	assert.Equal(t, entity.ReasonInitialStock, list[1].Reason)

	low, err := f.items.ListBelow(ctx, 10)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Drill", low[0].Name)

	_, err = f.itemUC.Create(ctx, dto.CreateItemRequest{
		Name: "Other", Quantity: 1, Price: decimal.NewFromInt(1), SKU: "TOOL-01", CategoryID: tools,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateSKU)
	_, total, err = f.items.List(ctx, repository.ItemQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestPostgres_ConstraintMapping(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	tools := f.category(t, "Tools")
	now := time.Now().UTC()

	err := f.categories.Create(ctx, &entity.Category{ID: uuid.NewString(), Name: "Tools", CreatedAt: now})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	sku := "X-1"
	base := entity.Item{Name: "A", Quantity: 1, Price: decimal.NewFromInt(1), CategoryID: tools, CreatedAt: now, UpdatedAt: now}

	first := base
	first.ID, first.SKU = uuid.NewString(), &sku
	require.NoError(t, f.items.Create(ctx, &first))

	dup := base
	dup.ID, dup.SKU = uuid.NewString(), &sku
	assert.ErrorIs(t, f.items.Create(ctx, &dup), domain.ErrDuplicateSKU)

	dangling := base
	dangling.ID, dangling.CategoryID = uuid.NewString(), uuid.NewString()
	assert.ErrorIs(t, f.items.Create(ctx, &dangling), domain.ErrInvalidReference)

	negative := base
	negative.ID, negative.Quantity = uuid.NewString(), -1
	assert.ErrorIs(t, f.items.Create(ctx, &negative), domain.ErrInvalidInput)

	// Dos artículos sin SKU no colisionan (NULL no es igual a NULL).
	a, b := base, base
	a.ID, b.ID = uuid.NewString(), uuid.NewString()
	require.NoError(t, f.items.Create(ctx, &a))
	require.NoError(t, f.items.Create(ctx, &b))

	err = f.movements.Create(ctx, &entity.StockMovement{
		ID: uuid.NewString(), ItemID: uuid.NewString(), Type: "in", Quantity: 1, CreatedAt: now,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
}

func TestPostgres_CascadeDeletes(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	tools := f.category(t, "Tools")
	garden := f.category(t, "Garden")
	drill := f.item(t, tools, "Drill", 8, "24.99", "")
	saw := f.item(t, tools, "Saw", 2, "5", "")
	rake := f.item(t, garden, "Rake", 4, "11", "")

	require.NoError(t, f.itemUC.Delete(ctx, drill.ID))
	assert.Equal(t, 0, countMovements(t, f, drill.ID))

	require.NoError(t, f.catUC.Delete(ctx, tools))
	assert.Equal(t, 0, countMovements(t, f, saw.ID))
	got, err := f.items.GetByID(ctx, saw.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 1, countMovements(t, f, rake.ID))

	assert.ErrorIs(t, f.catUC.Delete(ctx, tools), domain.ErrNotFound)
}

func TestPostgres_TxRollback(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	tools := f.category(t, "Tools")
	it := f.item(t, tools, "Drill", 8, "24.99", "")
	boom := errors.New("boom")

	err := f.tx.Run(ctx, func(_ repository.CategoryRepository, items repository.ItemRepository, movs repository.StockMovementRepository) error {
		item, err := items.GetForUpdate(ctx, it.ID)
		require.NoError(t, err)
		item.Quantity = 0
		require.NoError(t, items.Update(ctx, item))
		require.NoError(t, movs.Create(ctx, &entity.StockMovement{
			ID: uuid.NewString(), ItemID: it.ID, Type: "out", Quantity: 8, CreatedAt: time.Now().UTC(),
		}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := f.items.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Quantity)
	assert.Equal(t, 1, countMovements(t, f, it.ID))
}

func TestPostgres_ListItemsAndStats(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	elec := f.category(t, "Electronics")
	office := f.category(t, "Office")
	f.item(t, elec, "Laptop", 5, "899.99", "DELL-INS-15")
	f.item(t, elec, "Wireless Mouse", 25, "29.99", "LOG-MOUSE-01")
	f.item(t, office, "100%_Cotton Paper", 0, "8.99", "")

	list, total, err := f.items.List(ctx, repository.ItemQuery{Search: "mouse"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Wireless Mouse", list[0].Name)

	// Los comodines de LIKE se buscan literalmente.
	_, total, err = f.items.List(ctx, repository.ItemQuery{Search: "%_c"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	list, total, err = f.items.List(ctx, repository.ItemQuery{Sort: repository.SortByPrice, Limit: 2, Offset: 0})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, list, 2)
	assert.Equal(t, "Laptop", list[0].Name)

	list, total, err = f.items.List(ctx, repository.ItemQuery{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 3, total)

	list, _, err = f.items.List(ctx, repository.ItemQuery{CategoryID: office})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Office", list[0].CategoryName)

	stats, err := f.report.GetStats(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalItems)
	assert.Equal(t, 2, stats.TotalCategories)
	assert.Equal(t, "5249.70", stats.TotalValue.StringFixed(2))
	assert.Equal(t, 2, stats.LowStockCount)
	assert.Equal(t, 1, stats.OutOfStockCount)

	cats, err := f.categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, 2, cats[0].ItemCount)
}

func TestPostgres_MovementListTotals(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	tools := f.category(t, "Tools")
	drill := f.item(t, tools, "Drill", 8, "24.99", "")
	f.item(t, tools, "Saw", 2, "9.90", "")
	_, err := f.itemUC.RegisterMovement(ctx, drill.ID, dto.RegisterMovementRequest{Type: "out", Quantity: 3})
	require.NoError(t, err)

	list, total, err := f.movements.List(ctx, repository.MovementQuery{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, 3, total)

	list, total, err = f.movements.List(ctx, repository.MovementQuery{ItemID: drill.ID, Limit: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "out", list[0].Type)
	assert.Equal(t, 2, total)

	// Página fuera de rango: sin filas pero con el total del filtro.
	list, total, err = f.movements.List(ctx, repository.MovementQuery{ItemID: drill.ID, Limit: 5, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 2, total)
}

func TestPostgres_ReadSnapshot(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	tools := f.category(t, "Tools")
	f.item(t, tools, "Drill", 8, "24.99", "")

	err := f.tx.ReadSnapshot(ctx, func(items repository.ItemRepository, report repository.ReportRepository) error {
		list, err := items.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)

		// Escritura concurrente confirmada entre las dos lecturas.
		f.item(t, tools, "Saw", 2, "9.90", "")

		stats, err := report.GetStats(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, len(list), stats.TotalItems)
		assert.Equal(t, "199.92", stats.TotalValue.StringFixed(2))
		return nil
	})
	require.NoError(t, err)

	stats, err := f.report.GetStats(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalItems)
}
