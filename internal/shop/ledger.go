package shop

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is one committed checkout, recorded against a client. Records
// are append-only; once written they are never modified.
type Transaction struct {
	ID    uuid.UUID
	Date  string // day.month stamp, e.g. "13.01"
	At    time.Time
	Lines []TransactionLine
}

// TransactionLine snapshots one purchased item as it was debited. The copy is
// deliberate: later catalog changes must not rewrite history.
type TransactionLine struct {
	ItemID    uuid.UUID
	Name      string
	UnitPrice decimal.Decimal
	Qty       int
}

func (t Transaction) clone() Transaction {
	out := t
	out.Lines = make([]TransactionLine, len(t.Lines))
	copy(out.Lines, t.Lines)
	return out
}

// Total returns the undiscounted value of the record's lines.
func (t Transaction) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range t.Lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Qty))))
	}
	return total
}

// sortHistory orders records month-descending, then day-descending. The year
// is ignored on purpose: history is browsed by calendar position within a
// year, so December of a past year outranks January of the current one.
func sortHistory(records []Transaction) {
	sort.SliceStable(records, func(i, j int) bool {
		di, mi := splitStamp(records[i].Date)
		dj, mj := splitStamp(records[j].Date)
		if mi != mj {
			return mi > mj
		}
		return di > dj
	})
}

func splitStamp(stamp string) (day, month int) {
	parts := strings.SplitN(stamp, ".", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	day, _ = strconv.Atoi(parts[0])
	month, _ = strconv.Atoi(parts[1])
	return day, month
}
