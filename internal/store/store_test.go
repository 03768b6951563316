package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildfireconsulting/quantix/internal/assets"
	"github.com/wildfireconsulting/quantix/internal/domain"
)

func testLayout(t *testing.T) assets.Layout {
	t.Helper()
	layout := assets.NewLayout(t.TempDir())
	require.NoError(t, layout.EnsureDirs())
	return layout
}

func TestLoadMissingFileCreatesEmptyTable(t *testing.T) {
	layout := testLayout(t)
	s := New(layout)
	require.NoError(t, s.Load())
	assert.Equal(t, 0, s.Len())

	data, err := os.ReadFile(layout.StoreFile())
	require.NoError(t, err)
	header := strings.TrimSpace(strings.SplitN(string(data), "\n", 2)[0])
	assert.Equal(t, strings.Join(domain.ProductColumns, ","), header)
}

func TestInsertFindRoundTrip(t *testing.T) {
	layout := testLayout(t)
	s := New(layout)
	require.NoError(t, s.Load())

	rec := &domain.ProductRecord{
		ProductID:   "1001",
		ProductName: "Coffee Mug",
		Quantity:    12,
		MinStock:    3,
		CostPrice:   domain.MoneyFromFloat(4.5),
		SellPrice:   domain.MoneyFromFloat(9.9),
		ImagePath:   layout.Placeholder(),
		QRPath:      layout.Placeholder(),
		BarcodePath: layout.Placeholder(),
	}
	require.NoError(t, s.Insert(rec))
	assert.ErrorIs(t, s.Insert(rec), domain.ErrDuplicateID)

	// fresh store instance reads back the persisted row
	s2 := New(layout)
	require.NoError(t, s2.Load())
	got, found := s2.Find("1001")
	require.True(t, found)
	assert.Equal(t, "Coffee Mug", got.ProductName)
	assert.Equal(t, 12, got.Quantity)
	assert.True(t, got.SellPrice.Equal(domain.MoneyFromFloat(9.9).Decimal))
}

func TestLoadHealsLegacyTable(t *testing.T) {
	layout := testLayout(t)

	// narrow header, float id, negative quantity, nan price
	legacy := "product_id,product_name,quantity,min_stock,cost_price,sell_price\n" +
		"1001.0,Mug,-3,2,nan,9.90\n" +
		"1002,Plate,4,1,-2.50,-0.01\n"
	require.NoError(t, os.WriteFile(layout.StoreFile(), []byte(legacy), 0o644))

	s := New(layout)
	require.NoError(t, s.Load())

	got, found := s.Find("1001")
	require.True(t, found, "float id should be canonicalized")
	assert.Equal(t, 0, got.Quantity, "negative quantity clamps to zero")
	assert.True(t, got.CostPrice.IsZero(), "nan price heals to zero")
	assert.Equal(t, layout.Placeholder(), got.ImagePath, "missing image column heals to placeholder")

	priced, found := s.Find("1002")
	require.True(t, found)
	assert.True(t, priced.CostPrice.IsZero(), "negative cost price clamps to zero")
	assert.True(t, priced.SellPrice.IsZero(), "negative sell price clamps to zero")

	// the healed table is persisted with the canonical header
	data, err := os.ReadFile(layout.StoreFile())
	require.NoError(t, err)
	header := strings.TrimSpace(strings.SplitN(string(data), "\n", 2)[0])
	assert.Equal(t, strings.Join(domain.ProductColumns, ","), header)
	assert.Contains(t, string(data), "\n1001,")
}

func TestReconcileAdoptsGeneratedAssets(t *testing.T) {
	layout := testLayout(t)
	s := New(layout)
	require.NoError(t, s.Load())

	require.NoError(t, s.Insert(&domain.ProductRecord{
		ProductID:   "2002",
		ProductName: "Plate",
		ImagePath:   layout.Placeholder(),
		QRPath:      layout.Placeholder(),
		BarcodePath: layout.Placeholder(),
	}))

	// assets appear on disk after the fact
	require.NoError(t, os.WriteFile(layout.QRPath("2002"), []byte("qr"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(layout.ImageDir(), "2002.jpg"), []byte("img"), 0o644))

	changed, err := s.Reconcile()
	require.NoError(t, err)
	assert.True(t, changed)

	got, _ := s.Find("2002")
	assert.Equal(t, layout.QRPath("2002"), got.QRPath)
	// placeholder image link is intact, not dangling, so it stays
	assert.Equal(t, layout.Placeholder(), got.ImagePath)

	// second pass is a no-op byte for byte
	before, err := os.ReadFile(layout.StoreFile())
	require.NoError(t, err)
	changed, err = s.Reconcile()
	require.NoError(t, err)
	assert.False(t, changed)
	after, err := os.ReadFile(layout.StoreFile())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestReconcileRepairsDanglingImage(t *testing.T) {
	layout := testLayout(t)
	s := New(layout)
	require.NoError(t, s.Load())

	require.NoError(t, s.Insert(&domain.ProductRecord{
		ProductID:   "3003",
		ProductName: "Bowl",
		ImagePath:   filepath.Join(layout.ImageDir(), "gone.png"),
	}))

	// extension priority: .png wins over .jpg
	require.NoError(t, os.WriteFile(filepath.Join(layout.ImageDir(), "3003.jpg"), []byte("j"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(layout.ImageDir(), "3003.png"), []byte("p"), 0o644))

	changed, err := s.Reconcile()
	require.NoError(t, err)
	assert.True(t, changed)

	got, _ := s.Find("3003")
	assert.Equal(t, filepath.Join(layout.ImageDir(), "3003.png"), got.ImagePath)
}

func TestMutatePersistsAndMisses(t *testing.T) {
	layout := testLayout(t)
	s := New(layout)
	require.NoError(t, s.Load())
	require.NoError(t, s.Insert(&domain.ProductRecord{ProductID: "1", ProductName: "X"}))

	require.NoError(t, s.Mutate("1", func(rec *domain.ProductRecord) error {
		rec.Quantity = 42
		return nil
	}))
	got, _ := s.Find("1")
	assert.Equal(t, 42, got.Quantity)

	assert.ErrorIs(t, s.Mutate("nope", func(*domain.ProductRecord) error { return nil }), domain.ErrNotFound)
	assert.ErrorIs(t, s.Delete("nope"), domain.ErrNotFound)
}

func TestCanonicalID(t *testing.T) {
	cases := map[string]string{
		"1001":    "1001",
		"1001.0":  "1001",
		" 1001.0": "1001",
		"1001.5":  "1001.5",
		"A-42":    "A-42",
		"":        "",
		"SKU.X":   "SKU.X",
	}
	for in, want := range cases {
		assert.Equal(t, want, CanonicalID(in), "input %q", in)
	}
}
