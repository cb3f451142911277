package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/testutil"
)

func TestMovementRecorder_Record(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tools := f.category(t, "Tools")
	it := f.item(t, tools, "Drill", 0, "1", "")

	rec := inventory.NewMovementRecorder(func() time.Time { return fixedNow })
	movRepo := f.store.StockMovementRepository()

	mov, err := rec.Record(ctx, movRepo, it.ID, 4, 4, "sin cambio")
	require.NoError(t, err)
	assert.Nil(t, mov)
	assert.Empty(t, f.store.Movements())

	mov, err = rec.Record(ctx, movRepo, it.ID, 4, 1, "rotura")
	require.NoError(t, err)
	require.NotNil(t, mov)
	_, parseErr := uuid.Parse(mov.ID)
	assert.NoError(t, parseErr)
	assert.Equal(t, entity.MovementTypeOut, mov.Type)
	assert.Equal(t, 3, mov.Quantity)
	assert.Equal(t, fixedNow, mov.CreatedAt)

	stored := f.store.Movements()
	require.Len(t, stored, 1)
	assert.Equal(t, mov.ID, stored[0].ID)
	assert.Equal(t, "rotura", stored[0].Reason)
}

func TestMovementRecorder_DanglingItem(t *testing.T) {
	rec := inventory.NewMovementRecorder(nil)
	store := testutil.NewStore()

	_, err := rec.Record(context.Background(), store.StockMovementRepository(), uuid.NewString(), 0, 2, "x")
	assert.Error(t, err)
	assert.Empty(t, store.Movements())
}
