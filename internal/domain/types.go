package domain

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// TimeLayout is the timestamp form written to the persisted files.
const TimeLayout = "2006-01-02 15:04:05"

// Money is a non-negative currency amount. It round-trips through CSV as a
// plain decimal string and tolerates the junk legacy rows tend to carry
// (empty cells, NaN markers, locale floats).
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money { return Money{Decimal: d} }

func MoneyFromFloat(f float64) Money { return Money{Decimal: decimal.NewFromFloat(f)} }

func (m Money) MarshalCSV() (string, error) {
	return m.Decimal.String(), nil
}

func (m *Money) UnmarshalCSV(field string) error {
	field = strings.TrimSpace(field)
	if field == "" || strings.EqualFold(field, "nan") {
		m.Decimal = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(field)
	if err != nil {
		f, ferr := cast.ToFloat64E(field)
		if ferr != nil {
			return errors.Wrapf(err, "invalid money value %q", field)
		}
		m.Decimal = decimal.NewFromFloat(f)
		return nil
	}
	m.Decimal = d
	return nil
}

// Timestamp wraps time.Time with the persisted layout and a lenient parser,
// since historic tables carry bare dates alongside full timestamps.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp { return Timestamp{Time: t} }

func (t Timestamp) MarshalCSV() (string, error) {
	if t.IsZero() {
		return "", nil
	}
	return t.Format(TimeLayout), nil
}

func (t *Timestamp) UnmarshalCSV(field string) error {
	field = strings.TrimSpace(field)
	if field == "" || strings.EqualFold(field, "nan") {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := dateparse.ParseLocal(field)
	if err != nil {
		// unreadable timestamps heal to zero instead of failing the load
		t.Time = time.Time{}
		return nil
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + t.Format(TimeLayout) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	return t.UnmarshalCSV(s)
}
