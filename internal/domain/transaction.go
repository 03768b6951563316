package domain

// Action labels a stock-changing event. SALE is logged distinctly from REMOVE
// so profit analytics can tell revenue apart from shrinkage, even though the
// arithmetic effect is identical.
type Action string

const (
	ActionAdd    Action = "ADD"
	ActionRemove Action = "REMOVE"
	ActionSale   Action = "SALE"
)

func (a Action) Valid() bool {
	switch a {
	case ActionAdd, ActionRemove, ActionSale:
		return true
	}
	return false
}

// Delta converts a positive requested quantity into the signed stock change.
func (a Action) Delta(quantity int) int {
	if a == ActionAdd {
		return quantity
	}
	return -quantity
}

// TransactionEntry is one row of the append-only history log. ProductName is
// a denormalized snapshot taken at mutation time, not a live reference.
// Amount keeps the requested magnitude even when the stock change was clamped.
type TransactionEntry struct {
	Timestamp   Timestamp `csv:"timestamp" json:"timestamp"`
	ProductID   string    `csv:"product_id" json:"product_id"`
	ProductName string    `csv:"product_name" json:"product_name"`
	Action      Action    `csv:"action" json:"action"`
	Amount      int       `csv:"amount" json:"amount"`
	NewTotal    int       `csv:"new_total" json:"new_total"`
}

// LedgerColumns is the canonical history header, in persisted order.
var LedgerColumns = []string{
	"timestamp",
	"product_id",
	"product_name",
	"action",
	"amount",
	"new_total",
}
