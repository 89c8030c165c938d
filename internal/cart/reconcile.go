package cart

import "sweet-treats/internal/domain"

// Reconcile adjusts the cart against a freshly loaded catalog snapshot so
// no line holds stock that no longer exists. Lines whose backing product
// disappeared, sold out, or whose chosen variant became unavailable are
// removed; lines holding more than the new stock are clamped down. Each
// adjustment produces a notice, which is both returned and queued on the
// cart for the next read.
//
// Running it again with the same snapshot is a no-op: every surviving line
// already satisfies quantity <= stock.
func (c *Cart) Reconcile(lookup ProductLookup) []domain.ReconcileNotice {
	c.mu.Lock()
	defer c.mu.Unlock()

	var notices []domain.ReconcileNotice
	kept := c.lines[:0]

	for _, line := range c.lines {
		p, ok := lookup.Find(line.ProductID)
		if !ok || p.SoldOut() || (line.Variant != "" && !p.VariantAvailable(line.Variant)) {
			notices = append(notices, domain.ReconcileNotice{
				Kind:     domain.NoticeRemoved,
				ItemName: line.Name,
			})
			continue
		}
		if line.Quantity > p.Stock {
			line.Quantity = p.Stock
			notices = append(notices, domain.ReconcileNotice{
				Kind:        domain.NoticeReduced,
				ItemName:    line.Name,
				NewQuantity: line.Quantity,
			})
		}
		kept = append(kept, line)
	}
	c.lines = kept

	c.notices = append(c.notices, notices...)
	return notices
}
