package domain

// CartLine is one entry in a session's in-progress order. The unit price is
// snapshotted from the product at add time and is not re-read on later
// catalog loads; only quantity is adjusted during reconciliation.
type CartLine struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Variant   string  `json:"variant,omitempty"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// Subtotal returns the line's contribution to the cart subtotal.
func (l *CartLine) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Totals is the always-recomputed money view of a cart. It is never cached
// between mutations.
type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	ShippingFee float64 `json:"shipping_fee"`
	Total       float64 `json:"total"`
	ItemCount   int     `json:"item_count"`
}

// ShippingZone is one row of the static delivery fee table.
type ShippingZone struct {
	Name string  `json:"name"`
	Fee  float64 `json:"fee"`
}

// NoticeKind classifies what reconciliation did to a cart line.
type NoticeKind string

const (
	NoticeRemoved NoticeKind = "removed"
	NoticeReduced NoticeKind = "reduced"
)

// ReconcileNotice records a cart adjustment made after a catalog reload, so
// the customer can be told their order changed under them.
type ReconcileNotice struct {
	Kind        NoticeKind `json:"kind"`
	ItemName    string     `json:"item_name"`
	NewQuantity int        `json:"new_quantity,omitempty"`
}
