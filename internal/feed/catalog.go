package feed

import (
	"strconv"
	"strings"

	"sweet-treats/internal/domain"
)

// ListSeparator splits multi-value cells (variant lists) inside a single
// feed field, where a comma would collide with the field delimiter.
const ListSeparator = ";"

// ParseCatalog turns the full feed text into product records. The first
// line is a header and is discarded, as are blank lines and rows missing an
// ID or a name. Malformed numeric cells degrade to zero rather than
// poisoning the whole load.
func ParseCatalog(text string, scheme ColumnScheme) []domain.Product {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 {
		lines = lines[1:]
	}

	products := make([]domain.Product, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if p, ok := parseRow(ParseLine(line), scheme); ok {
			products = append(products, p)
		}
	}
	return products
}

func parseRow(fields []string, scheme ColumnScheme) (domain.Product, bool) {
	cell := func(idx int) string {
		if idx < 0 || idx >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[idx])
	}

	p := domain.Product{
		ID:       cell(scheme.ID),
		Name:     cell(scheme.Name),
		Category: cell(scheme.Category),
		ImageURL: cell(scheme.Image),
		Badge:    cell(scheme.Badge),
		Details:  cell(scheme.Details),
	}
	if p.ID == "" || p.Name == "" {
		return domain.Product{}, false
	}
	if p.Category == "" {
		p.Category = domain.DefaultCategory
	}

	if price, err := strconv.ParseFloat(cell(scheme.Price), 64); err == nil && price > 0 {
		p.Price = price
	}
	if stock, err := strconv.Atoi(cell(scheme.Stock)); err == nil && stock > 0 {
		p.Stock = stock
	}

	// A "sold out" status cell overrides whatever the stock column says.
	if strings.EqualFold(cell(scheme.Status), "sold out") {
		p.Stock = 0
	}

	p.Variants = splitList(cell(scheme.Variants))
	p.Unavailable = splitList(cell(scheme.Unavailable))
	p.HasVariants = len(p.Variants) > 0

	return p, true
}

func splitList(cellValue string) []string {
	if cellValue == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(cellValue, ListSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
