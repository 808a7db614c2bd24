// Package shop models a single-process retail domain: a catalog of stocked
// items, clients with monetary balances, carts staging pending purchases, and
// an append-only transaction ledger written at checkout.
package shop

import (
	"context"
	"fmt"
	"time"

	"github.com/marketkit/shopcore/pkg/clock"
	pkgerrors "github.com/marketkit/shopcore/pkg/errors"
	"github.com/marketkit/shopcore/pkg/logger"
	"github.com/marketkit/shopcore/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var defaultGoldDiscountRate = decimal.New(1, -1) // 10%

// Params configure a Shop. Name is required; everything else has a working
// default (system clock, info-level logger, no metrics, 10% gold discount).
type Params struct {
	Name             string
	Clock            clock.Clock
	Logger           *logger.Logger
	Metrics          *metrics.CheckoutMetrics
	GoldDiscountRate decimal.Decimal
}

// Shop owns its item catalog and transaction ledger, and references the
// clients registered with it. Single-caller by contract: checkout performs a
// check-then-mutate sequence across items and a client, so a concurrent
// adaptation must serialize mutations per shop.
type Shop struct {
	name         string
	items        map[string]*Item
	clients      map[int]*Client
	carts        map[int]*Cart
	transactions map[int][]Transaction

	clk          clock.Clock
	logg         *logger.Logger
	checkoutMtrs *metrics.CheckoutMetrics
	goldDiscount decimal.Decimal
}

// New builds a shop from the provided params.
func New(params Params) (*Shop, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("shop name required")
	}
	clk := params.Clock
	if clk == nil {
		clk = clock.System()
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.New(logger.Options{ServiceName: "shopcore"})
	}
	rate := params.GoldDiscountRate
	if rate.IsZero() {
		rate = defaultGoldDiscountRate
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("gold discount rate %s out of range", rate)
	}
	return &Shop{
		name:         params.Name,
		items:        map[string]*Item{},
		clients:      map[int]*Client{},
		carts:        map[int]*Cart{},
		transactions: map[int][]Transaction{},
		clk:          clk,
		logg:         logg,
		checkoutMtrs: params.Metrics,
		goldDiscount: rate,
	}, nil
}

func (s *Shop) Name() string { return s.name }

// RegisterItem adds an item to the catalog keyed by name. A second
// registration under the same name replaces the prior entry; stock is not
// merged.
func (s *Shop) RegisterItem(ctx context.Context, item *Item) error {
	if item == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item required")
	}
	ctx = s.logg.WithShopName(ctx, s.name)
	ctx = s.logg.WithItemName(ctx, item.Name())
	if _, exists := s.items[item.Name()]; exists {
		s.logg.Warn(ctx, "item registration replaced existing catalog entry")
	}
	s.items[item.Name()] = item
	s.logg.Info(ctx, "item registered")
	return nil
}

// RegisterClient records the client in the shop's registry keyed by id. The
// registration is non-owning; a client may be registered with many shops.
func (s *Shop) RegisterClient(ctx context.Context, client *Client) error {
	if client == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "client required")
	}
	s.clients[client.ID()] = client
	ctx = s.logg.WithShopName(ctx, s.name)
	s.logg.Info(s.logg.WithClientID(ctx, client.ID()), "client registered")
	return nil
}

// Item looks up a catalog entry by name.
func (s *Shop) Item(name string) (*Item, bool) {
	item, ok := s.items[name]
	return item, ok
}

// Client looks up a registered client by id.
func (s *Shop) Client(id int) (*Client, bool) {
	client, ok := s.clients[id]
	return client, ok
}

// CartFor returns the client's current cart in this shop, if any.
func (s *Shop) CartFor(clientID int) (*Cart, bool) {
	cart, ok := s.carts[clientID]
	return cart, ok
}

// NewCart opens a cart binding the client to this shop, registering the
// client first when absent. A later cart for the same client replaces the
// tracked one.
func (s *Shop) NewCart(ctx context.Context, client *Client) (*Cart, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client required")
	}
	if _, registered := s.clients[client.ID()]; !registered {
		if err := s.RegisterClient(ctx, client); err != nil {
			return nil, err
		}
	}
	cart := &Cart{
		shop:   s,
		client: client,
		lines:  map[uuid.UUID]*cartLine{},
	}
	s.carts[client.ID()] = cart
	return cart, nil
}

// RecordTransaction appends a record to the client's ledger, creating the
// ledger entry on first purchase. Exposed so historical records can be seeded
// directly; checkout goes through the same path.
func (s *Shop) RecordTransaction(date string, lines []TransactionLine, client *Client) error {
	if client == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "client required")
	}
	if day, month := splitStamp(date); day < 1 || month < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("malformed date stamp %q", date))
	}
	s.appendTransaction(Transaction{
		ID:    uuid.New(),
		Date:  date,
		Lines: lines,
	}, client.ID())
	return nil
}

// TransactionsFor returns a copy of the client's ledger in insertion order.
func (s *Shop) TransactionsFor(clientID int) []Transaction {
	records := s.transactions[clientID]
	out := make([]Transaction, 0, len(records))
	for _, record := range records {
		out = append(out, record.clone())
	}
	return out
}

func (s *Shop) appendTransaction(record Transaction, clientID int) {
	s.transactions[clientID] = append(s.transactions[clientID], record.clone())
}

func (s *Shop) stamp() (string, time.Time) {
	now := s.clk.Now()
	return clock.Stamp(now), now
}
