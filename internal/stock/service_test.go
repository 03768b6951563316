package stock

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildfireconsulting/quantix/internal/assets"
	"github.com/wildfireconsulting/quantix/internal/domain"
	"github.com/wildfireconsulting/quantix/internal/ledger"
	"github.com/wildfireconsulting/quantix/internal/store"
)

func newTestService(t *testing.T) (*Service, assets.Layout) {
	t.Helper()
	layout := assets.NewLayout(t.TempDir())
	require.NoError(t, layout.EnsureDirs())

	st := store.New(layout)
	require.NoError(t, st.Load())
	lg := ledger.New(layout.LedgerFile())

	svc := NewService(st, lg, layout, nil, nil, EventBus.New())
	svc.now = func() time.Time {
		return time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local)
	}
	return svc, layout
}

func register(t *testing.T, svc *Service, id string, qty, min int) {
	t.Helper()
	_, err := svc.Register(context.Background(), RegisterInput{
		ProductID:   id,
		ProductName: "Item " + id,
		Quantity:    qty,
		MinStock:    min,
		CostPrice:   domain.MoneyFromFloat(2),
		SellPrice:   domain.MoneyFromFloat(5),
	})
	require.NoError(t, err)
}

func TestApplyValidation(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "1001", 10, 2)

	_, err := svc.Apply(context.Background(), "1001", "GIVEAWAY", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidAction)

	_, err = svc.Apply(context.Background(), "1001", domain.ActionAdd, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = svc.Apply(context.Background(), "1001", domain.ActionAdd, -4)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestApplyUnknownIDLeavesFilesUntouched(t *testing.T) {
	svc, layout := newTestService(t)

	_, err := svc.Apply(context.Background(), "9999", domain.ActionAdd, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, statErr := os.Stat(layout.LedgerFile())
	assert.True(t, os.IsNotExist(statErr), "failed mutation must not touch the ledger")
}

func TestApplyAddAndRemove(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "1001", 10, 2)

	res, err := svc.Apply(context.Background(), "1001", domain.ActionAdd, 5)
	require.NoError(t, err)
	assert.Equal(t, 15, res.NewQuantity)
	assert.False(t, res.LowStock)

	res, err = svc.Apply(context.Background(), "1001", domain.ActionRemove, 13)
	require.NoError(t, err)
	assert.Equal(t, 2, res.NewQuantity)
	assert.True(t, res.LowStock)
}

func TestApplySaleClampsAtZero(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "1001", 7, 2)

	res, err := svc.Apply(context.Background(), "1001", domain.ActionSale, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, res.NewQuantity)
	assert.Equal(t, 10, res.Requested)
	assert.True(t, res.LowStock)

	// the ledger keeps the requested magnitude, not the clamped delta
	entries, err := svc.History(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 10, entries[0].Amount)
	assert.Equal(t, 0, entries[0].NewTotal)
	assert.Equal(t, domain.ActionSale, entries[0].Action)
}

func TestApplySequenceMatchesLedger(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "1001", 10, 2)

	_, err := svc.Apply(context.Background(), "1001", domain.ActionSale, 3)
	require.NoError(t, err)
	res, err := svc.Apply(context.Background(), "1001", domain.ActionSale, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, res.NewQuantity)

	entries, err := svc.History(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 3, entries[0].Amount)
	assert.Equal(t, 7, entries[0].NewTotal)
	assert.Equal(t, 10, entries[1].Amount)
	assert.Equal(t, 0, entries[1].NewTotal)
}

func TestApplyPublishesMutationEvent(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "1001", 3, 5)

	got := make(chan ApplyResult, 1)
	require.NoError(t, svc.bus.Subscribe(TopicMutated, func(res ApplyResult) {
		got <- res
	}))

	_, err := svc.Apply(context.Background(), "1001", domain.ActionAdd, 1)
	require.NoError(t, err)

	select {
	case res := <-got:
		assert.Equal(t, "1001", res.ProductID)
		assert.Equal(t, 4, res.NewQuantity)
		assert.True(t, res.LowStock)
	case <-time.After(time.Second):
		t.Fatal("no mutation event published")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterInput{ProductID: "", ProductName: "X"})
	assert.ErrorIs(t, err, domain.ErrMissingField)

	_, err = svc.Register(context.Background(), RegisterInput{ProductID: "1", ProductName: "  "})
	assert.ErrorIs(t, err, domain.ErrMissingField)

	_, err = svc.Register(context.Background(), RegisterInput{ProductID: "1", ProductName: "X", Quantity: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = svc.Register(context.Background(), RegisterInput{
		ProductID: "1", ProductName: "X", CostPrice: domain.MoneyFromFloat(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	register(t, svc, "1001", 1, 0)
	_, err = svc.Register(context.Background(), RegisterInput{ProductID: "1001", ProductName: "Dup"})
	assert.ErrorIs(t, err, domain.ErrDuplicateID)

	// float form of an existing id is the same product
	_, err = svc.Register(context.Background(), RegisterInput{ProductID: "1001.0", ProductName: "Dup"})
	assert.ErrorIs(t, err, domain.ErrDuplicateID)
}

func TestRegisterDefaultsToPlaceholder(t *testing.T) {
	svc, layout := newTestService(t)

	rec, err := svc.Register(context.Background(), RegisterInput{
		ProductID:   "1001",
		ProductName: "Mug",
		Quantity:    5,
	})
	require.NoError(t, err)
	assert.Equal(t, layout.Placeholder(), rec.ImagePath)
	assert.Equal(t, layout.Placeholder(), rec.QRPath)
	assert.Equal(t, layout.Placeholder(), rec.BarcodePath)
	assert.False(t, rec.LastUpdated.IsZero())
}

func TestUpdateEditsAllFields(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "1001", 5, 1)

	rec, err := svc.Update(context.Background(), "1001", UpdateInput{
		ProductName: "Renamed",
		Quantity:    9,
		MinStock:    4,
		CostPrice:   domain.MoneyFromFloat(3),
		SellPrice:   domain.MoneyFromFloat(8),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", rec.ProductName)
	assert.Equal(t, 9, rec.Quantity)
	assert.Equal(t, 4, rec.MinStock)

	_, err = svc.Update(context.Background(), "9999", UpdateInput{ProductName: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteCascadesToAssets(t *testing.T) {
	svc, layout := newTestService(t)
	register(t, svc, "1001", 5, 1)

	img := filepath.Join(layout.ImageDir(), "1001.png")
	require.NoError(t, os.WriteFile(img, []byte("i"), 0o644))
	require.NoError(t, os.WriteFile(layout.QRPath("1001"), []byte("q"), 0o644))
	require.NoError(t, os.WriteFile(layout.BarcodePath("1001"), []byte("b"), 0o644))

	require.NoError(t, svc.Delete(context.Background(), "1001"))

	for _, path := range []string{img, layout.QRPath("1001"), layout.BarcodePath("1001")} {
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err), "asset %s should be removed", path)
	}
	assert.ErrorIs(t, svc.Delete(context.Background(), "1001"), domain.ErrNotFound)
}

func TestSuggestIDIsNumericAndUnused(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "1001", 1, 0)

	id := svc.SuggestID()
	require.Len(t, id, 8)
	for _, ch := range id {
		assert.True(t, ch >= '0' && ch <= '9')
	}
	_, exists := svc.store.Find(id)
	assert.False(t, exists)
}
