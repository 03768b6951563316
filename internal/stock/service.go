// Package stock is the mutation engine: every stock-changing operation goes
// through one Service instance, which serializes read-modify-write cycles
// against the store and keeps the ledger in step. Two concurrent scans can
// no longer clobber each other's rows.
package stock

import (
	"context"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"

	"github.com/wildfireconsulting/quantix/internal/assets"
	"github.com/wildfireconsulting/quantix/internal/domain"
	"github.com/wildfireconsulting/quantix/internal/ledger"
	"github.com/wildfireconsulting/quantix/internal/store"
)

// TopicMutated is published on the event bus after every successful Apply.
const TopicMutated = "stock.mutated"

type Service struct {
	mu         sync.Mutex // one writer: store change and ledger append commit together
	store      *store.Store
	ledger     *ledger.Logger
	layout     assets.Layout
	generator  assets.Generator
	normalizer assets.Normalizer
	bus        EventBus.Bus

	now func() time.Time // test seam
}

func NewService(st *store.Store, lg *ledger.Logger, layout assets.Layout,
	gen assets.Generator, norm assets.Normalizer, bus EventBus.Bus) *Service {
	if gen == nil {
		gen = assets.NopGenerator{}
	}
	if norm == nil {
		norm = assets.NopNormalizer{}
	}
	return &Service{
		store:      st,
		ledger:     lg,
		layout:     layout,
		generator:  gen,
		normalizer: norm,
		bus:        bus,
		now:        time.Now,
	}
}

// ApplyResult is what the caller surfaces after a mutation. LowStock is a
// pure signal for the caller to render as an alert, not a side effect.
type ApplyResult struct {
	ProductID   string        `json:"product_id"`
	ProductName string        `json:"product_name"`
	Action      domain.Action `json:"action"`
	Requested   int           `json:"requested"`
	NewQuantity int           `json:"new_quantity"`
	LowStock    bool          `json:"low_stock"`
}

// Apply executes one add/remove/sell operation against a single record,
// atomically relative to that record, then appends the ledger entry.
//
// A shortfall is clamped to zero rather than rejected, and the ledger keeps
// the requested magnitude, not the clamped delta. Validation failures and
// unknown ids leave both the store and the ledger untouched.
func (s *Service) Apply(ctx context.Context, productID string, action domain.Action, quantity int) (*ApplyResult, error) {
	if !action.Valid() {
		return nil, domain.ErrInvalidAction
	}
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	res := &ApplyResult{ProductID: productID, Action: action, Requested: quantity}
	err := s.store.Mutate(productID, func(rec *domain.ProductRecord) error {
		newQuantity := rec.Quantity + action.Delta(quantity)
		if newQuantity < 0 {
			newQuantity = 0
		}
		rec.Quantity = newQuantity
		rec.LastUpdated = domain.NewTimestamp(now)
		res.ProductName = rec.ProductName
		res.NewQuantity = newQuantity
		res.LowStock = rec.LowStock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	entry := domain.TransactionEntry{
		Timestamp:   domain.NewTimestamp(now),
		ProductID:   productID,
		ProductName: res.ProductName,
		Action:      action,
		Amount:      quantity,
		NewTotal:    res.NewQuantity,
	}
	if err := s.ledger.Append(entry); err != nil {
		// the stock change itself is committed; an unwritable history must
		// not roll it back, but it is loud
		zap.L().Error("ledger append failed after stock mutation",
			zap.String("product_id", productID),
			zap.String("action", string(action)),
			zap.Error(err))
		return res, err
	}

	s.publish(res)
	return res, nil
}

// History returns the full transaction log, newest last.
func (s *Service) History(_ context.Context) ([]domain.TransactionEntry, error) {
	return s.ledger.ReadAll()
}

func (s *Service) publish(res *ApplyResult) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(TopicMutated, *res)
}
