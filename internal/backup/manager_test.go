package backup

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildfireconsulting/quantix/internal/assets"
)

func testLayout(t *testing.T) assets.Layout {
	t.Helper()
	layout := assets.NewLayout(t.TempDir())
	require.NoError(t, layout.EnsureDirs())
	return layout
}

func writeStore(t *testing.T, layout assets.Layout) {
	t.Helper()
	require.NoError(t, os.WriteFile(layout.StoreFile(), []byte("product_id\n1001\n"), 0o644))
}

func TestAutoBackupSkipsMissingStore(t *testing.T) {
	m := New(testLayout(t), 10)
	path, err := m.AutoBackup()
	require.NoError(t, err)
	assert.Equal(t, "", path)
}

func TestAutoBackupCreatesThenSkipsUnchanged(t *testing.T) {
	layout := testLayout(t)
	writeStore(t, layout)

	m := New(layout, 10)
	m.now = func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local) }

	path, err := m.AutoBackup()
	require.NoError(t, err)
	require.NotEqual(t, "", path)
	assert.Equal(t, "backup_20240601_100000.zip", filepath.Base(path))

	// unchanged store, later clock: no second archive
	m.now = func() time.Time { return time.Date(2024, 6, 1, 11, 0, 0, 0, time.Local) }
	path, err = m.AutoBackup()
	require.NoError(t, err)
	assert.Equal(t, "", path)

	snapshots, err := m.Snapshots()
	require.NoError(t, err)
	assert.Len(t, snapshots, 1)
}

func TestAutoBackupRunsAgainAfterStoreChange(t *testing.T) {
	layout := testLayout(t)
	writeStore(t, layout)

	m := New(layout, 10)
	m.now = func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local) }
	_, err := m.AutoBackup()
	require.NoError(t, err)

	// bump the store mtime past the snapshot
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(layout.StoreFile(), future, future))

	m.now = func() time.Time { return time.Date(2024, 6, 1, 11, 0, 0, 0, time.Local) }
	path, err := m.AutoBackup()
	require.NoError(t, err)
	assert.Equal(t, "backup_20240601_110000.zip", filepath.Base(path))
}

func TestRetentionEvictsOldestFirst(t *testing.T) {
	layout := testLayout(t)
	writeStore(t, layout)

	// pre-seed snapshots older than the store
	old := time.Now().Add(-time.Hour)
	for i := 0; i < 10; i++ {
		name := fmt.Sprintf("backup_20240501_%02d0000.zip", i)
		path := filepath.Join(layout.BackupDir(), name)
		require.NoError(t, os.WriteFile(path, []byte("zip"), 0o644))
		require.NoError(t, os.Chtimes(path, old, old))
	}

	m := New(layout, 10)
	m.now = func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local) }

	path, err := m.AutoBackup()
	require.NoError(t, err)
	require.NotEqual(t, "", path)

	snapshots, err := m.Snapshots()
	require.NoError(t, err)
	require.Len(t, snapshots, 10, "retention window holds")

	// the oldest went, the newest is ours
	assert.Equal(t, "backup_20240501_010000.zip", filepath.Base(snapshots[0]))
	assert.Equal(t, "backup_20240601_100000.zip", filepath.Base(snapshots[9]))
	_, statErr := os.Stat(filepath.Join(layout.BackupDir(), "backup_20240501_000000.zip"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExportSnapshotContents(t *testing.T) {
	layout := testLayout(t)
	writeStore(t, layout)
	require.NoError(t, os.WriteFile(layout.LedgerFile(), []byte("timestamp\n"), 0o644))
	require.NoError(t, os.WriteFile(layout.CompanyFile(), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(layout.ImageDir(), "1001.png"), []byte("img"), 0o644))

	m := New(layout, 10)
	data, err := m.ExportSnapshot()
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	assert.True(t, names["inventory.csv"])
	assert.True(t, names["history.csv"])
	assert.True(t, names["config.json"])
	assert.True(t, names["placeholder.png"])
	assert.True(t, names["product_images/1001.png"])
	assert.False(t, names["logo.png"], "absent optional files are skipped")
}

func TestExportDoesNotTouchRetention(t *testing.T) {
	layout := testLayout(t)
	writeStore(t, layout)

	m := New(layout, 10)
	_, err := m.ExportSnapshot()
	require.NoError(t, err)

	snapshots, err := m.Snapshots()
	require.NoError(t, err)
	assert.Empty(t, snapshots)
}
