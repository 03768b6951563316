// Package ledger is the append-only history of stock-changing events.
// Entries are never rewritten, compacted, or deleted once written; insertion
// order is the canonical ordering.
package ledger

import (
	"os"
	"sync"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/wildfireconsulting/quantix/internal/domain"
	"github.com/wildfireconsulting/quantix/pkg/common"
)

type Logger struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Logger {
	return &Logger{path: path}
}

func (l *Logger) Path() string { return l.path }

// Append writes exactly one row, creating the file with its canonical header
// first when it does not exist yet.
func (l *Logger) Append(entry domain.TransactionEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	fresh := !common.FileExists(l.path)
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "open ledger %s", l.path)
	}
	defer f.Close()

	rows := []*domain.TransactionEntry{&entry}
	if fresh {
		return gocsv.MarshalFile(&rows, f)
	}
	return gocsv.MarshalWithoutHeaders(&rows, f)
}

// ReadAll returns the full history for reporting collaborators. Pure
// projection; a missing file is an empty history, not an error.
func (l *Logger) ReadAll() ([]domain.TransactionEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !common.FileExists(l.path) {
		return nil, nil
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, errors.Wrapf(err, "open ledger %s", l.path)
	}
	defer f.Close()

	var entries []domain.TransactionEntry
	if err := gocsv.UnmarshalFile(f, &entries); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "parse ledger %s", l.path)
	}
	return entries, nil
}
