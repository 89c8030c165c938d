package domain

// DefaultCategory is assigned to products whose feed row carries no category.
const DefaultCategory = "Uncategorized"

// Product represents one item in the catalog snapshot. A snapshot is
// replaced wholesale on every successful feed load; products are never
// mutated in place.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	ImageURL    string   `json:"image_url"`
	Stock       int      `json:"stock"`
	Badge       string   `json:"badge,omitempty"`
	Details     string   `json:"details,omitempty"`
	Variants    []string `json:"variants,omitempty"`
	Unavailable []string `json:"unavailable,omitempty"`
	HasVariants bool     `json:"has_variants"`
}

// SoldOut reports whether the product has no remaining stock.
func (p *Product) SoldOut() bool {
	return p.Stock <= 0
}

// HasVariant reports whether name is one of the product's declared variants.
func (p *Product) HasVariant(name string) bool {
	for _, v := range p.Variants {
		if v == name {
			return true
		}
	}
	return false
}

// VariantAvailable reports whether name is currently orderable, i.e. it is a
// declared variant and not listed as unavailable.
func (p *Product) VariantAvailable(name string) bool {
	if !p.HasVariant(name) {
		return false
	}
	for _, v := range p.Unavailable {
		if v == name {
			return false
		}
	}
	return true
}
