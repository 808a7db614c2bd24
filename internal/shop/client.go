package shop

import (
	"fmt"

	pkgerrors "github.com/marketkit/shopcore/pkg/errors"

	"github.com/shopspring/decimal"
)

// Client is an account holder. The id and gold flag are immutable after
// creation; the balance only moves through UpdateBalance and never goes
// negative. A client may be registered with any number of shops and holds an
// independent cart per shop.
type Client struct {
	id      int
	balance decimal.Decimal
	gold    bool
}

// NewClient opens a client account with a non-negative starting balance.
func NewClient(input ClientInput) (*Client, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	return &Client{
		id:      input.ID,
		balance: input.Balance,
		gold:    input.Gold,
	}, nil
}

func (c *Client) ID() int                  { return c.id }
func (c *Client) Balance() decimal.Decimal { return c.balance }
func (c *Client) Gold() bool               { return c.gold }

// UpdateBalance debits a positive value, requiring it to be covered by the
// current balance. A negative value is a top-up and always succeeds.
func (c *Client) UpdateBalance(value decimal.Decimal) error {
	if value.GreaterThan(c.balance) {
		return pkgerrors.New(
			pkgerrors.CodeInsufficientFunds,
			fmt.Sprintf("need %s, have %s", value.StringFixed(2), c.balance.StringFixed(2)),
		).WithDetails(pkgerrors.FundsDetails{
			Required: value,
			Balance:  c.balance,
		})
	}
	c.balance = c.balance.Sub(value)
	return nil
}

// ViewHistory returns this client's transactions in the given shop, most
// recent calendar position first (month descending, then day descending).
func (c *Client) ViewHistory(s *Shop) []Transaction {
	records := s.TransactionsFor(c.id)
	sortHistory(records)
	return records
}
