package shop

import (
	"fmt"

	pkgerrors "github.com/marketkit/shopcore/pkg/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a catalog entry with finite stock. Identity is an opaque UUID; the
// name is a display attribute that doubles as the catalog key, so two items
// registered under the same name replace each other in the catalog without
// ever aliasing in a cart.
type Item struct {
	id     uuid.UUID
	name   string
	price  decimal.Decimal
	amount int
}

// NewItem mints a catalog item. Price and stock must be non-negative.
func NewItem(input ItemInput) (*Item, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	return &Item{
		id:     uuid.New(),
		name:   input.Name,
		price:  input.Price,
		amount: input.Amount,
	}, nil
}

func (i *Item) ID() uuid.UUID          { return i.id }
func (i *Item) Name() string           { return i.name }
func (i *Item) Price() decimal.Decimal { return i.price }
func (i *Item) Amount() int            { return i.amount }

// CheckAmount reports whether the requested quantity is covered by current
// stock. Pure check; stock only ever moves through a settled checkout.
func (i *Item) CheckAmount(requested int) error {
	if requested > i.amount {
		return pkgerrors.New(
			pkgerrors.CodeInsufficientStock,
			fmt.Sprintf("requested %d of %s, %d in stock", requested, i.name, i.amount),
		).WithDetails(pkgerrors.StockDetails{
			ItemName:  i.name,
			Requested: requested,
			Available: i.amount,
		})
	}
	return nil
}

// debit removes settled units. Callers must have re-validated stock; the
// amount invariant (never negative) is enforced here as a last line.
func (i *Item) debit(qty int) error {
	if qty > i.amount {
		return pkgerrors.New(
			pkgerrors.CodeMissingStock,
			fmt.Sprintf("cannot debit %d of %s, %d in stock", qty, i.name, i.amount),
		).WithDetails(pkgerrors.StockDetails{
			ItemName:  i.name,
			Requested: qty,
			Available: i.amount,
		})
	}
	i.amount -= qty
	return nil
}
