// Package store owns the canonical product table: whole-table load/save with
// schema self-healing, and serialized read-modify-write access for mutations.
package store

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/wildfireconsulting/quantix/internal/assets"
	"github.com/wildfireconsulting/quantix/internal/domain"
	"github.com/wildfireconsulting/quantix/pkg/common"
)

// Store holds the product table in memory and persists it as a single CSV
// file. All access goes through the internal mutex; a mutation is a locked
// read-modify-write cycle followed by a full-table save, which is the unit
// of durability (there is no row-level persistence).
type Store struct {
	mu      sync.Mutex
	layout  assets.Layout
	records []*domain.ProductRecord
}

func New(layout assets.Layout) *Store {
	return &Store{layout: layout}
}

func (s *Store) Path() string { return s.layout.StoreFile() }

// Load reads the persisted table, runs the schema migrations and the asset
// reconciliation pass, and persists the result if anything was repaired, so
// repairs survive restarts without a user-visible save. A missing file
// becomes an empty table with the canonical header.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() error {
	path := s.layout.StoreFile()
	if !common.FileExists(path) {
		s.records = nil
		zap.L().Info("inventory table missing, creating empty store", zap.String("path", path))
		return s.saveLocked()
	}

	columns, err := readHeader(path)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open store %s", path)
	}
	defer f.Close()

	var records []*domain.ProductRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		if !errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return errors.Wrapf(err, "parse store %s", path)
		}
		records = nil
	}

	state := &tableState{records: records, columns: columns}
	dirty := false
	for _, migrate := range migrations {
		if migrate(state) {
			dirty = true
		}
	}
	if s.reconcile(state.records) {
		dirty = true
	}

	s.records = state.records
	if dirty {
		zap.L().Info("inventory table healed on load",
			zap.Int("records", len(s.records)))
		return s.saveLocked()
	}
	return nil
}

// Save persists the full table. Exposed for callers that edited records
// returned by All in bulk; single-record changes should go through Mutate.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	f, err := os.Create(s.layout.StoreFile())
	if err != nil {
		return errors.Wrap(err, "write store")
	}
	defer f.Close()
	if s.records == nil {
		s.records = []*domain.ProductRecord{}
	}
	return gocsv.MarshalFile(&s.records, f)
}

// Find returns a copy of the record, so readers never observe a half-applied
// mutation.
func (s *Store) Find(productID string) (domain.ProductRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		if rec.ProductID == productID {
			return *rec, true
		}
	}
	return domain.ProductRecord{}, false
}

// All returns copies of every record in insertion order.
func (s *Store) All() []domain.ProductRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ProductRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, *rec)
	}
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Mutate runs fn on the live record and persists the table, all inside one
// locked read-modify-write cycle. Returns domain.ErrNotFound for an unknown
// id with the table untouched; if fn fails nothing is persisted.
func (s *Store) Mutate(productID string, fn func(*domain.ProductRecord) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		if rec.ProductID == productID {
			if err := fn(rec); err != nil {
				return err
			}
			return s.saveLocked()
		}
	}
	return domain.ErrNotFound
}

// Insert adds a new record and persists. Duplicate ids are rejected before
// any write.
func (s *Store) Insert(rec *domain.ProductRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.records {
		if existing.ProductID == rec.ProductID {
			return domain.ErrDuplicateID
		}
	}
	s.records = append(s.records, rec)
	return s.saveLocked()
}

// Delete removes the record and persists the table.
func (s *Store) Delete(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.records {
		if rec.ProductID == productID {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return s.saveLocked()
		}
	}
	return domain.ErrNotFound
}

// CanonicalID coerces a raw id to its canonical string form. Ids must compare
// and index as strings even when a legacy table stored them as numbers
// ("1001.0" and "1001" are the same product).
func CanonicalID(raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" || !strings.ContainsAny(id, ".eE") {
		return id
	}
	f, err := cast.ToFloat64E(id)
	if err != nil || f != math.Trunc(f) {
		return id
	}
	return strconv.FormatInt(int64(f), 10)
}

// readHeader reports which columns the persisted file actually carries.
// gocsv tolerates missing columns silently, so the header is inspected
// separately to know when defaults were seeded.
func readHeader(path string) (map[string]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open store %s", path)
	}
	defer f.Close()
	row, err := csv.NewReader(f).Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]bool{}, nil
		}
		return nil, errors.Wrap(err, "read store header")
	}
	columns := make(map[string]bool, len(row))
	for _, name := range row {
		columns[strings.TrimSpace(name)] = true
	}
	return columns, nil
}
