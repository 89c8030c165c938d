package cart

import (
	"math"
	"testing"

	"sweet-treats/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapLookup is a stand-in for a catalog snapshot.
type mapLookup map[string]*domain.Product

func (m mapLookup) Find(id string) (*domain.Product, bool) {
	p, ok := m[id]
	return p, ok
}

func testCatalog() mapLookup {
	return mapLookup{
		"p1": {ID: "p1", Name: "Mango Graham", Price: 50, Stock: 3},
		"p2": {ID: "p2", Name: "Ube Halaya", Price: 30, Stock: 5},
		"p3": {ID: "p3", Name: "Leche Flan", Price: 80, Stock: 0},
		"mt": {
			ID: "mt", Name: "Milk Tea", Price: 75, Stock: 10,
			Variants:    []string{"Wintermelon", "Taro"},
			Unavailable: []string{"Taro"},
			HasVariants: true,
		},
	}
}

func testZones() []domain.ShippingZone {
	return []domain.ShippingZone{
		{Name: "Pickup", Fee: 0},
		{Name: "Zone 1", Fee: 25},
		{Name: "Zone 2", Fee: 40},
	}
}

func TestAdd(t *testing.T) {
	catalog := testCatalog()

	t.Run("unknown product is rejected", func(t *testing.T) {
		c := New(testZones())
		assert.ErrorIs(t, c.Add(catalog, "nope", ""), ErrProductNotFound)
		assert.Empty(t, c.Lines())
	})

	t.Run("sold out product is rejected", func(t *testing.T) {
		c := New(testZones())
		assert.ErrorIs(t, c.Add(catalog, "p3", ""), ErrSoldOut)
		assert.Empty(t, c.Lines())
	})

	t.Run("first add creates a line with price snapshot", func(t *testing.T) {
		c := New(testZones())
		require.NoError(t, c.Add(catalog, "p1", ""))

		lines := c.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, "p1", lines[0].ID)
		assert.Equal(t, 1, lines[0].Quantity)
		assert.Equal(t, 50.0, lines[0].UnitPrice)
	})

	t.Run("repeat add increments up to stock", func(t *testing.T) {
		c := New(testZones())
		for i := 0; i < 3; i++ {
			require.NoError(t, c.Add(catalog, "p1", ""))
		}
		assert.ErrorIs(t, c.Add(catalog, "p1", ""), ErrInsufficientStock)

		lines := c.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 3, lines[0].Quantity)
	})

	t.Run("variant rules", func(t *testing.T) {
		c := New(testZones())
		assert.ErrorIs(t, c.Add(catalog, "mt", "Matcha"), ErrUnknownVariant)
		assert.ErrorIs(t, c.Add(catalog, "mt", "Taro"), ErrVariantUnavailable)
		require.NoError(t, c.Add(catalog, "mt", "Wintermelon"))

		lines := c.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, "mt::Wintermelon", lines[0].ID)
		assert.Equal(t, "Milk Tea (Wintermelon)", lines[0].Name)
	})
}

func TestChangeQuantity(t *testing.T) {
	catalog := testCatalog()

	t.Run("missing line", func(t *testing.T) {
		c := New(testZones())
		assert.ErrorIs(t, c.ChangeQuantity(catalog, "p1", 1), ErrLineNotFound)
	})

	t.Run("increase capped by stock", func(t *testing.T) {
		c := New(testZones())
		require.NoError(t, c.Add(catalog, "p1", ""))
		require.NoError(t, c.ChangeQuantity(catalog, "p1", 2))
		assert.ErrorIs(t, c.ChangeQuantity(catalog, "p1", 1), ErrInsufficientStock)
		assert.Equal(t, 3, c.Lines()[0].Quantity)
	})

	t.Run("decrease to zero removes the line", func(t *testing.T) {
		c := New(testZones())
		require.NoError(t, c.Add(catalog, "p1", ""))
		require.NoError(t, c.ChangeQuantity(catalog, "p1", -1))
		assert.Empty(t, c.Lines())
	})

	t.Run("zero delta is a no-op", func(t *testing.T) {
		c := New(testZones())
		require.NoError(t, c.Add(catalog, "p1", ""))
		require.NoError(t, c.ChangeQuantity(catalog, "p1", 0))
		assert.Equal(t, 1, c.Lines()[0].Quantity)
	})

	t.Run("decrease works even when the product vanished", func(t *testing.T) {
		c := New(testZones())
		require.NoError(t, c.Add(catalog, "p1", ""))
		require.NoError(t, c.ChangeQuantity(catalog, "p1", 1))
		require.NoError(t, c.ChangeQuantity(mapLookup{}, "p1", -1))
		assert.Equal(t, 1, c.Lines()[0].Quantity)
	})
}

func TestTotals(t *testing.T) {
	catalog := testCatalog()
	c := New(testZones())

	// add product A price 50 qty 2, product B price 30 qty 1
	require.NoError(t, c.Add(catalog, "p1", ""))
	require.NoError(t, c.Add(catalog, "p1", ""))
	require.NoError(t, c.Add(catalog, "p2", ""))

	totals := c.Totals()
	assert.Equal(t, 130.0, totals.Subtotal)
	assert.Equal(t, 130.0, totals.Total)
	assert.Equal(t, 3, totals.ItemCount)

	require.NoError(t, c.SetShipping("Zone 2"))
	totals = c.Totals()
	assert.Equal(t, 40.0, totals.ShippingFee)
	assert.Equal(t, 170.0, totals.Total)

	require.NoError(t, c.SetShipping(""))
	assert.Equal(t, 130.0, c.Totals().Total)

	assert.ErrorIs(t, c.SetShipping("Moon"), ErrUnknownZone)
}

func TestClear(t *testing.T) {
	catalog := testCatalog()
	c := New(testZones())
	require.NoError(t, c.Add(catalog, "p1", ""))
	require.NoError(t, c.SetShipping("Zone 1"))

	c.Clear()
	assert.Empty(t, c.Lines())
	assert.Nil(t, c.Shipping())
	assert.Equal(t, domain.Totals{}, c.Totals())
}

// Property: after any sequence of adds and quantity changes, the reported
// subtotal equals the sum over lines of price x quantity, and no line ever
// exceeds its product's stock.
func TestProperty_TotalsMatchLines(t *testing.T) {
	properties := gopter.NewProperties(nil)

	catalog := testCatalog()
	productIDs := []string{"p1", "p2", "p3", "mt", "ghost"}

	type op struct {
		product string
		delta   int
	}

	opGen := gopter.CombineGens(
		gen.IntRange(0, len(productIDs)-1),
		gen.IntRange(-2, 3),
	).Map(func(vals []interface{}) op {
		return op{product: productIDs[vals[0].(int)], delta: vals[1].(int)}
	})

	properties.Property("subtotal is always the sum of line subtotals", prop.ForAll(
		func(ops []op) bool {
			c := New(testZones())
			for _, o := range ops {
				if o.delta > 0 {
					_ = c.Add(catalog, o.product, "")
				}
				_ = c.ChangeQuantity(catalog, o.product, o.delta)
			}

			var want float64
			for _, l := range c.Lines() {
				if p, ok := catalog.Find(l.ProductID); ok && l.Quantity > p.Stock {
					return false
				}
				want += l.UnitPrice * float64(l.Quantity)
			}
			return math.Abs(c.Totals().Subtotal-want) < 1e-9
		},
		gen.SliceOf(opGen),
	))

	properties.TestingRun(t)
}
