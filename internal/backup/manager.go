// Package backup produces retained, rotated archive snapshots of the store,
// the transaction log, and the asset folders. Snapshots are best-effort
// consistent: nothing coordinates with concurrent mutations, so an archive
// may capture one file mid-update relative to another. That is acceptable
// here and deliberately cheap; crash consistency is not the goal.
package backup

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/wildfireconsulting/quantix/internal/assets"
	"github.com/wildfireconsulting/quantix/pkg/common"
)

const (
	archivePrefix = "backup_"
	archiveSuffix = ".zip"
	stampLayout   = "20060102_150405"
)

type Manager struct {
	layout assets.Layout
	max    int

	now func() time.Time // test seam
}

func New(layout assets.Layout, max int) *Manager {
	if max <= 0 {
		max = 10
	}
	return &Manager{layout: layout, max: max, now: time.Now}
}

// AutoBackup creates a snapshot if the store changed since the most recent
// one, then evicts the oldest archives beyond the retention window. Repeated
// calls with no intervening writes are no-ops. Returns the created archive
// path, or "" when nothing was done.
func (m *Manager) AutoBackup() (string, error) {
	storeFile := m.layout.StoreFile()
	if !common.FileExists(storeFile) {
		return "", nil
	}

	snapshots, err := m.Snapshots()
	if err != nil {
		return "", err
	}
	if len(snapshots) > 0 {
		newest := snapshots[len(snapshots)-1]
		newestInfo, err := os.Stat(newest)
		if err == nil {
			storeInfo, serr := os.Stat(storeFile)
			if serr == nil && !storeInfo.ModTime().After(newestInfo.ModTime()) {
				return "", nil
			}
		}
	}

	name := archivePrefix + m.now().Format(stampLayout) + archiveSuffix
	path := filepath.Join(m.layout.BackupDir(), name)
	if err := common.EnsureDir(m.layout.BackupDir()); err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "create backup archive")
	}
	if err := m.writeArchive(f); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrap(err, "close backup archive")
	}
	zap.L().Info("backup snapshot created", zap.String("path", path))
	return path, m.prune()
}

// ExportSnapshot bundles the same file set into an in-memory archive for
// on-demand download. It does not touch retention or the auto-backup cadence.
func (m *Manager) ExportSnapshot() ([]byte, error) {
	var buf bytes.Buffer
	if err := m.writeArchive(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Snapshots lists existing archives sorted by name, which is creation-time
// order thanks to the timestamp encoding.
func (m *Manager) Snapshots() ([]string, error) {
	pattern := filepath.Join(m.layout.BackupDir(), archivePrefix+"*"+archiveSuffix)
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.Wrap(err, "list snapshots")
	}
	sort.Strings(matches)
	return matches, nil
}

// prune evicts the oldest snapshots beyond the retention count, oldest first
// by name-encoded timestamp.
func (m *Manager) prune() error {
	snapshots, err := m.Snapshots()
	if err != nil {
		return err
	}
	for len(snapshots) > m.max {
		oldest := snapshots[0]
		snapshots = snapshots[1:]
		if err := os.Remove(oldest); err != nil {
			return errors.Wrapf(err, "evict snapshot %s", oldest)
		}
		zap.L().Info("backup snapshot evicted", zap.String("path", oldest))
	}
	return nil
}

// writeArchive bundles the fixed file set: store, ledger, company config,
// branding and placeholder images, and the three asset directories
// recursively at their original relative paths.
func (m *Manager) writeArchive(w io.Writer) error {
	zw := zip.NewWriter(w)

	files := []string{
		m.layout.StoreFile(),
		m.layout.LedgerFile(),
		m.layout.CompanyFile(),
		m.layout.LogoFile(),
		m.layout.Placeholder(),
	}
	for _, path := range files {
		if !common.FileExists(path) {
			continue
		}
		if err := m.addFile(zw, path); err != nil {
			zw.Close()
			return err
		}
	}
	dirs := []string{m.layout.ImageDir(), m.layout.QRDir(), m.layout.BarcodeDir()}
	for _, dir := range dirs {
		if !common.DirExists(dir) {
			continue
		}
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			return m.addFile(zw, path)
		})
		if err != nil {
			zw.Close()
			return errors.Wrapf(err, "archive dir %s", dir)
		}
	}
	return zw.Close()
}

func (m *Manager) addFile(zw *zip.Writer, path string) error {
	rel, err := filepath.Rel(m.layout.Workdir, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	dst, err := zw.Create(filepath.ToSlash(rel))
	if err != nil {
		return errors.Wrapf(err, "archive entry %s", rel)
	}
	src, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	defer src.Close()
	_, err = io.Copy(dst, src)
	return err
}

// ArchiveName is the filename clients should use for an exported snapshot.
func (m *Manager) ArchiveName() string {
	return archivePrefix + m.now().Format(stampLayout) + archiveSuffix
}
