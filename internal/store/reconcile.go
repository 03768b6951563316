package store

import (
	"strings"

	"github.com/wildfireconsulting/quantix/internal/domain"
	"github.com/wildfireconsulting/quantix/pkg/common"
)

// reconcile repairs dangling or missing asset links against the per-id
// manifest. Idempotent: running it on an already-reconciled table changes
// nothing, so Load only persists when a repair actually happened.
func (s *Store) reconcile(records []*domain.ProductRecord) bool {
	changed := false
	for _, rec := range records {
		if s.reconcileRecord(rec) {
			changed = true
		}
	}
	return changed
}

func (s *Store) reconcileRecord(rec *domain.ProductRecord) bool {
	manifest := s.layout.Resolve(rec.ProductID)
	changed := false

	if brokenLink(rec.ImagePath) {
		repaired := manifest.Image
		if repaired == "" {
			repaired = s.layout.Placeholder()
		}
		if rec.ImagePath != repaired {
			rec.ImagePath = repaired
			changed = true
		}
	}
	if manifest.QR != "" && rec.QRPath != manifest.QR {
		rec.QRPath = manifest.QR
		changed = true
	}
	if manifest.Barcode != "" && rec.BarcodePath != manifest.Barcode {
		rec.BarcodePath = manifest.Barcode
		changed = true
	}
	return changed
}

// Reconcile reruns the repair pass on the in-memory table and persists when
// something changed. Used after external asset regeneration.
func (s *Store) Reconcile() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.reconcile(s.records) {
		return false, nil
	}
	return true, s.saveLocked()
}

// brokenLink reports an absent, empty, or dangling image reference. "nan" is
// a legacy artifact of tables edited by hand or by older tooling.
func brokenLink(path string) bool {
	if path == "" || strings.EqualFold(path, "nan") {
		return true
	}
	return !common.FileExists(path)
}
