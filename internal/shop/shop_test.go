package shop

import (
	"context"
	"testing"
	"time"

	"github.com/marketkit/shopcore/pkg/clock"
	"github.com/marketkit/shopcore/pkg/config"
	pkgerrors "github.com/marketkit/shopcore/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCheckoutTime = time.Date(2025, time.March, 7, 14, 30, 0, 0, time.UTC)

func newTestShop(t *testing.T) *Shop {
	t.Helper()
	s, err := New(Params{Name: "corner-store", Clock: clock.Fixed(testCheckoutTime)})
	require.NoError(t, err)
	return s
}

func mustItem(t *testing.T, name, price string, amount int) *Item {
	t.Helper()
	item, err := NewItem(ItemInput{Name: name, Price: decimal.RequireFromString(price), Amount: amount})
	require.NoError(t, err)
	return item
}

func mustClient(t *testing.T, id int, balance string, gold bool) *Client {
	t.Helper()
	client, err := NewClient(ClientInput{ID: id, Balance: decimal.RequireFromString(balance), Gold: gold})
	require.NoError(t, err)
	return client
}

func TestNewShopValidation(t *testing.T) {
	_, err := New(Params{})
	require.Error(t, err)

	_, err = New(Params{Name: "s", GoldDiscountRate: decimal.NewFromInt(2)})
	require.Error(t, err)

	_, err = New(Params{Name: "s", GoldDiscountRate: decimal.NewFromInt(-1)})
	require.Error(t, err)
}

func TestNewShopDefaultsDiscountToTenPercent(t *testing.T) {
	s, err := New(Params{Name: "s"})
	require.NoError(t, err)
	assert.True(t, s.goldDiscount.Equal(decimal.RequireFromString("0.1")))
}

func TestNewShopAcceptsConfiguredDiscount(t *testing.T) {
	t.Setenv(config.EnvGoldDiscountPercent, "20")
	cfg, err := config.Load()
	require.NoError(t, err)

	s, err := New(Params{Name: "s", GoldDiscountRate: cfg.Pricing.GoldDiscountRate()})
	require.NoError(t, err)
	assert.True(t, s.goldDiscount.Equal(decimal.RequireFromString("0.2")))
}

func TestRegisterItem(t *testing.T) {
	ctx := context.Background()
	s := newTestShop(t)

	item := mustItem(t, "Apple", "1.0", 10)
	require.NoError(t, s.RegisterItem(ctx, item))

	got, ok := s.Item("Apple")
	require.True(t, ok)
	assert.Equal(t, 10, got.Amount())
	assert.Same(t, item, got)

	require.Error(t, s.RegisterItem(ctx, nil))
}

func TestRegisterItemSameNameReplaces(t *testing.T) {
	ctx := context.Background()
	s := newTestShop(t)

	first := mustItem(t, "Apple", "1.0", 10)
	second := mustItem(t, "Apple", "1.5", 3)
	require.NoError(t, s.RegisterItem(ctx, first))
	require.NoError(t, s.RegisterItem(ctx, second))

	got, ok := s.Item("Apple")
	require.True(t, ok)
	assert.Same(t, second, got, "name is the catalog key; registration replaces, stock is not merged")
	assert.Equal(t, 3, got.Amount())
}

func TestRegisterClientAndLookup(t *testing.T) {
	ctx := context.Background()
	s := newTestShop(t)
	client := mustClient(t, 12, "51.25", false)

	require.NoError(t, s.RegisterClient(ctx, client))
	got, ok := s.Client(12)
	require.True(t, ok)
	assert.Same(t, client, got)

	_, ok = s.Client(99)
	assert.False(t, ok)

	require.Error(t, s.RegisterClient(ctx, nil))
}

func TestNewCartRegistersClientAndTracksCart(t *testing.T) {
	ctx := context.Background()
	s := newTestShop(t)
	client := mustClient(t, 12, "51.25", false)

	cart, err := s.NewCart(ctx, client)
	require.NoError(t, err)

	registered, ok := s.Client(12)
	require.True(t, ok, "opening a cart registers an unknown client")
	assert.Same(t, client, registered)

	tracked, ok := s.CartFor(12)
	require.True(t, ok)
	assert.Same(t, cart, tracked)

	// A later cart for the same client replaces the tracked one.
	replacement, err := s.NewCart(ctx, client)
	require.NoError(t, err)
	tracked, ok = s.CartFor(12)
	require.True(t, ok)
	assert.Same(t, replacement, tracked)

	_, err = s.NewCart(ctx, nil)
	require.Error(t, err)
}

func TestRecordTransactionSeedsHistory(t *testing.T) {
	s := newTestShop(t)
	client := mustClient(t, 7, "0", false)

	lines := []TransactionLine{{Name: "bread", UnitPrice: decimal.NewFromInt(1), Qty: 2}}
	require.NoError(t, s.RecordTransaction("04.04", lines, client))
	require.NoError(t, s.RecordTransaction("10.04", nil, client))

	records := s.TransactionsFor(7)
	require.Len(t, records, 2)
	assert.Equal(t, "04.04", records[0].Date, "ledger keeps insertion order")
	assert.Equal(t, "10.04", records[1].Date)

	err := s.RecordTransaction("garbage", nil, client)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	require.Error(t, s.RecordTransaction("04.04", nil, nil))
}

func TestTransactionsForReturnsCopies(t *testing.T) {
	s := newTestShop(t)
	client := mustClient(t, 7, "0", false)
	require.NoError(t, s.RecordTransaction("04.04", []TransactionLine{{Name: "bread", Qty: 1, UnitPrice: decimal.NewFromInt(1)}}, client))

	records := s.TransactionsFor(7)
	records[0].Lines[0].Qty = 99
	records[0].Date = "01.01"

	fresh := s.TransactionsFor(7)
	assert.Equal(t, 1, fresh[0].Lines[0].Qty, "a transaction record, once appended, is immutable")
	assert.Equal(t, "04.04", fresh[0].Date)
}

func TestViewHistoryOrdering(t *testing.T) {
	s := newTestShop(t)
	client := mustClient(t, 21, "0", false)

	for _, date := range []string{"13.01", "02.01", "01.12", "16.02", "02.12", "17.12"} {
		require.NoError(t, s.RecordTransaction(date, nil, client))
	}

	history := client.ViewHistory(s)
	got := make([]string, 0, len(history))
	for _, record := range history {
		got = append(got, record.Date)
	}
	assert.Equal(t, []string{"17.12", "02.12", "01.12", "16.02", "13.01", "02.01"}, got)
}

func TestClientHoldsIndependentCartsPerShop(t *testing.T) {
	ctx := context.Background()
	shop1 := newTestShop(t)
	shop2, err := New(Params{Name: "second-store", Clock: clock.Fixed(testCheckoutTime)})
	require.NoError(t, err)

	item1 := mustItem(t, "banaan", "2", 10)
	item2 := mustItem(t, "banaan", "3", 6)
	require.NoError(t, shop1.RegisterItem(ctx, item1))
	require.NoError(t, shop2.RegisterItem(ctx, item2))

	client := mustClient(t, 21, "28", false)
	cart1, err := shop1.NewCart(ctx, client)
	require.NoError(t, err)
	cart2, err := shop2.NewCart(ctx, client)
	require.NoError(t, err)

	require.NoError(t, cart1.Add(item1, 6))
	require.NoError(t, cart2.Add(item2, 5))
	require.NoError(t, cart1.Checkout(ctx))
	require.NoError(t, cart2.Checkout(ctx))

	assert.True(t, client.Balance().Equal(decimal.NewFromInt(1)), "balance = %s", client.Balance())

	records1 := shop1.TransactionsFor(21)
	require.Len(t, records1, 1)
	require.Len(t, records1[0].Lines, 1)
	assert.Equal(t, 6, records1[0].Lines[0].Qty)
	assert.Equal(t, item1.ID(), records1[0].Lines[0].ItemID)

	records2 := shop2.TransactionsFor(21)
	require.Len(t, records2, 1)
	require.Len(t, records2[0].Lines, 1)
	assert.Equal(t, 5, records2[0].Lines[0].Qty)
	assert.Equal(t, item2.ID(), records2[0].Lines[0].ItemID)
}
