package shop

import (
	"context"
	"fmt"
	"sort"

	pkgerrors "github.com/marketkit/shopcore/pkg/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// Cart stages pending purchases for one client in one shop. Lines are keyed
// by item id and every staged quantity is at least 1; a line that would reach
// zero is removed instead. A cart is reusable indefinitely: checkout empties
// it, it never terminates.
type Cart struct {
	shop   *Shop
	client *Client
	lines  map[uuid.UUID]*cartLine
}

type cartLine struct {
	item *Item
	qty  int
}

func (c *Cart) Shop() *Shop     { return c.shop }
func (c *Cart) Client() *Client { return c.client }

// Empty reports whether nothing is staged.
func (c *Cart) Empty() bool { return len(c.lines) == 0 }

// Contents returns a snapshot of staged quantities keyed by item id.
func (c *Cart) Contents() map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(c.lines))
	for id, line := range c.lines {
		out[id] = line.qty
	}
	return out
}

// Quantity returns the staged quantity for an item, zero when absent.
func (c *Cart) Quantity(item *Item) int {
	if item == nil {
		return 0
	}
	if line, ok := c.lines[item.ID()]; ok {
		return line.qty
	}
	return 0
}

// Add stages qty more units of the item. The requested quantity is checked
// against total current stock, not against stock minus what this cart already
// holds; repeated adds can stage more than is available and checkout's
// re-validation is the strict gate.
func (c *Cart) Add(item *Item, qty int) error {
	if item == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item required")
	}
	if qty < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must be at least 1, got %d", qty))
	}
	if err := item.CheckAmount(qty); err != nil {
		return err
	}
	if line, ok := c.lines[item.ID()]; ok {
		line.qty += qty
		return nil
	}
	c.lines[item.ID()] = &cartLine{item: item, qty: qty}
	return nil
}

// Remove drops qty units of the item from the cart. Removing at least the
// staged quantity deletes the line entirely.
func (c *Cart) Remove(item *Item, qty int) error {
	if item == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item required")
	}
	if qty < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must be at least 1, got %d", qty))
	}
	line, ok := c.lines[item.ID()]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeItemNotInCart, fmt.Sprintf("%s is not in the cart", item.Name())).
			WithDetails(pkgerrors.StockDetails{ItemName: item.Name(), Requested: qty})
	}
	if qty >= line.qty {
		delete(c.lines, item.ID())
		return nil
	}
	line.qty -= qty
	return nil
}

// Cost totals the staged lines, applies the shop's gold discount for gold
// clients, and rounds half-up to 2 decimal places.
func (c *Cart) Cost() decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range c.lines {
		subtotal = subtotal.Add(line.item.Price().Mul(decimal.NewFromInt(int64(line.qty))))
	}
	if c.client.Gold() {
		subtotal = subtotal.Sub(subtotal.Mul(c.shop.goldDiscount))
	}
	return subtotal.Round(2)
}

// Validate reports every reason a checkout would fail right now: the funds
// shortfall plus each short stock line, combined into one error. Nil means a
// checkout at this instant would settle.
func (c *Cart) Validate(ctx context.Context) error {
	var errs []error
	if cost := c.Cost(); cost.GreaterThan(c.client.Balance()) {
		errs = append(errs, pkgerrors.New(
			pkgerrors.CodeInsufficientFunds,
			fmt.Sprintf("need %s, have %s", cost.StringFixed(2), c.client.Balance().StringFixed(2)),
		).WithDetails(pkgerrors.FundsDetails{Required: cost, Balance: c.client.Balance()}))
	}
	for _, line := range c.sortedLines() {
		if line.item.Amount() < line.qty {
			errs = append(errs, pkgerrors.New(
				pkgerrors.CodeMissingStock,
				fmt.Sprintf("requested %d of %s, %d in stock", line.qty, line.item.Name(), line.item.Amount()),
			).WithDetails(pkgerrors.StockDetails{
				ItemName:  line.item.Name(),
				Requested: line.qty,
				Available: line.item.Amount(),
			}))
		}
	}
	return multierr.Combine(errs...)
}

// Checkout settles the cart atomically: funds check, per-line stock re-check,
// stock decrements, ledger record, balance debit, clear. Either every
// mutation happens or none does; a failed checkout leaves stock, balance and
// cart contents exactly as they were.
func (c *Cart) Checkout(ctx context.Context) error {
	logg := c.shop.logg
	ctx = logg.WithShopName(ctx, c.shop.name)
	ctx = logg.WithClientID(ctx, c.client.ID())

	if c.Empty() {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart must contain at least one item")
	}

	cost := c.Cost()
	if cost.GreaterThan(c.client.Balance()) {
		c.shop.checkoutMtrs.IncFailure("insufficient_funds")
		logg.Warn(logg.WithField(ctx, "cost", cost.StringFixed(2)), "checkout rejected, insufficient funds")
		return pkgerrors.New(
			pkgerrors.CodeInsufficientFunds,
			fmt.Sprintf("need %s, have %s", cost.StringFixed(2), c.client.Balance().StringFixed(2)),
		).WithDetails(pkgerrors.FundsDetails{Required: cost, Balance: c.client.Balance()})
	}

	lines := c.sortedLines()

	// Validate every line before touching any stock.
	for _, line := range lines {
		if line.item.Amount() < line.qty {
			c.shop.checkoutMtrs.IncFailure("missing_stock")
			logg.Warn(logg.WithItemName(ctx, line.item.Name()), "checkout rejected, stock no longer available")
			return pkgerrors.New(
				pkgerrors.CodeMissingStock,
				fmt.Sprintf("requested %d of %s, %d in stock", line.qty, line.item.Name(), line.item.Amount()),
			).WithDetails(pkgerrors.StockDetails{
				ItemName:  line.item.Name(),
				Requested: line.qty,
				Available: line.item.Amount(),
			})
		}
	}

	snapshot := make([]TransactionLine, 0, len(lines))
	for _, line := range lines {
		if err := line.item.debit(line.qty); err != nil {
			// Unreachable after the validation pass in a single-caller world.
			c.shop.checkoutMtrs.IncFailure("missing_stock")
			return err
		}
		snapshot = append(snapshot, TransactionLine{
			ItemID:    line.item.ID(),
			Name:      line.item.Name(),
			UnitPrice: line.item.Price(),
			Qty:       line.qty,
		})
	}

	stamp, at := c.shop.stamp()
	record := Transaction{
		ID:    uuid.New(),
		Date:  stamp,
		At:    at,
		Lines: snapshot,
	}
	c.shop.appendTransaction(record, c.client.ID())

	if err := c.client.UpdateBalance(cost); err != nil {
		// Covered by the funds check above; surfaced rather than swallowed.
		c.shop.checkoutMtrs.IncFailure("insufficient_funds")
		return err
	}

	c.lines = map[uuid.UUID]*cartLine{}

	c.shop.checkoutMtrs.IncSuccess(cost)
	logg.Info(logg.WithFields(ctx, map[string]any{
		"cost":  cost.StringFixed(2),
		"date":  stamp,
		"lines": len(snapshot),
	}), "checkout settled")
	return nil
}

func (c *Cart) sortedLines() []*cartLine {
	lines := make([]*cartLine, 0, len(c.lines))
	for _, line := range c.lines {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].item.Name() < lines[j].item.Name()
	})
	return lines
}
