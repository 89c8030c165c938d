package cart

import (
	"errors"
	"sync"

	"sweet-treats/internal/domain"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrSoldOut            = errors.New("product is sold out")
	ErrInsufficientStock  = errors.New("not enough stock")
	ErrUnknownVariant     = errors.New("unknown variant")
	ErrVariantUnavailable = errors.New("variant is unavailable")
	ErrLineNotFound       = errors.New("cart line not found")
	ErrUnknownZone        = errors.New("unknown shipping zone")
)

// ProductLookup resolves a product ID against the current catalog snapshot.
// catalog.Snapshot satisfies it.
type ProductLookup interface {
	Find(id string) (*domain.Product, bool)
}

// Cart is one session's in-progress order. All rule violations come back as
// the sentinel errors above so the caller can show a message and carry on;
// nothing in here panics or aborts the session.
type Cart struct {
	mu       sync.Mutex
	lines    []*domain.CartLine
	zones    []domain.ShippingZone
	shipping *domain.ShippingZone
	notices  []domain.ReconcileNotice
}

// New creates an empty cart with the given shipping fee table.
func New(zones []domain.ShippingZone) *Cart {
	return &Cart{zones: zones}
}

// LineID derives the cart line identifier for a product and optional
// variant choice.
func LineID(productID, variant string) string {
	if variant == "" {
		return productID
	}
	return productID + "::" + variant
}

// Add puts one unit of the product (and variant, if given) into the cart.
// An existing line is incremented; a new line snapshots the product's
// current price.
func (c *Cart) Add(lookup ProductLookup, productID, variant string) error {
	p, ok := lookup.Find(productID)
	if !ok {
		return ErrProductNotFound
	}
	if p.SoldOut() {
		return ErrSoldOut
	}
	if variant != "" {
		if !p.HasVariant(variant) {
			return ErrUnknownVariant
		}
		if !p.VariantAvailable(variant) {
			return ErrVariantUnavailable
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id := LineID(productID, variant)
	if line := c.findLine(id); line != nil {
		if line.Quantity+1 > p.Stock {
			return ErrInsufficientStock
		}
		line.Quantity++
		return nil
	}

	name := p.Name
	if variant != "" {
		name = p.Name + " (" + variant + ")"
	}
	c.lines = append(c.lines, &domain.CartLine{
		ID:        id,
		ProductID: productID,
		Name:      name,
		Variant:   variant,
		UnitPrice: p.Price,
		Quantity:  1,
	})
	return nil
}

// ChangeQuantity adjusts a line by delta. Increases are capped by the
// backing product's current stock; a result of zero or less removes the
// line.
func (c *Cart) ChangeQuantity(lookup ProductLookup, lineID string, delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	line := c.findLine(lineID)
	if line == nil {
		return ErrLineNotFound
	}

	next := line.Quantity + delta
	if next <= 0 {
		c.removeLine(lineID)
		return nil
	}

	if delta > 0 {
		p, ok := lookup.Find(line.ProductID)
		if !ok {
			return ErrProductNotFound
		}
		if next > p.Stock {
			return ErrInsufficientStock
		}
	}

	line.Quantity = next
	return nil
}

// Remove deletes a line outright, regardless of quantity.
func (c *Cart) Remove(lineID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.findLine(lineID) == nil {
		return ErrLineNotFound
	}
	c.removeLine(lineID)
	return nil
}

// SetShipping selects a zone from the fee table by name. An empty name
// clears the selection.
func (c *Cart) SetShipping(zoneName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if zoneName == "" {
		c.shipping = nil
		return nil
	}
	for i := range c.zones {
		if c.zones[i].Name == zoneName {
			c.shipping = &c.zones[i]
			return nil
		}
	}
	return ErrUnknownZone
}

// Shipping returns the selected zone, or nil.
func (c *Cart) Shipping() *domain.ShippingZone {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shipping
}

// Zones returns the shipping fee table.
func (c *Cart) Zones() []domain.ShippingZone {
	return c.zones
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.CartLine, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, *l)
	}
	return out
}

// Totals recomputes the money view from line state on every call. There is
// no cached total to drift.
func (c *Cart) Totals() domain.Totals {
	c.mu.Lock()
	defer c.mu.Unlock()

	var t domain.Totals
	for _, l := range c.lines {
		t.Subtotal += l.Subtotal()
		t.ItemCount += l.Quantity
	}
	if c.shipping != nil {
		t.ShippingFee = c.shipping.Fee
	}
	t.Total = t.Subtotal + t.ShippingFee
	return t
}

// Clear empties the cart after a completed checkout.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.shipping = nil
	c.notices = nil
}

// DrainNotices returns reconciliation notices accumulated since the last
// call and resets the pending list.
func (c *Cart) DrainNotices() []domain.ReconcileNotice {
	c.mu.Lock()
	defer c.mu.Unlock()
	notices := c.notices
	c.notices = nil
	return notices
}

// callers hold c.mu
func (c *Cart) findLine(id string) *domain.CartLine {
	for _, l := range c.lines {
		if l.ID == id {
			return l
		}
	}
	return nil
}

func (c *Cart) removeLine(id string) {
	for i, l := range c.lines {
		if l.ID == id {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}
