package feed

import (
	"fmt"
	"strings"
)

// ColumnScheme maps product fields to column positions in the feed. The
// spreadsheet layout has changed more than once, so the mapping is
// configuration rather than constants baked into the row parser. A value of
// -1 means the feed does not carry that field.
type ColumnScheme struct {
	ID          int
	Name        int
	Category    int
	Price       int
	Image       int
	Status      int
	Stock       int
	Variants    int
	Unavailable int
	Badge       int
	Details     int
}

// DefaultColumnScheme matches the original six-column sheet layout:
// id, name, price, image, status, stock.
func DefaultColumnScheme() ColumnScheme {
	s := emptyScheme()
	s.ID = 0
	s.Name = 1
	s.Price = 2
	s.Image = 3
	s.Status = 4
	s.Stock = 5
	return s
}

func emptyScheme() ColumnScheme {
	return ColumnScheme{
		ID: -1, Name: -1, Category: -1, Price: -1, Image: -1, Status: -1,
		Stock: -1, Variants: -1, Unavailable: -1, Badge: -1, Details: -1,
	}
}

// ParseColumnOrder builds a ColumnScheme from a comma-separated list of
// field names in feed column order, e.g.
// "id,name,category,price,image,status,stock,variants,unavailable".
// A "-" entry skips a column. ID and Name are mandatory because rows
// without them are unusable.
func ParseColumnOrder(order string) (ColumnScheme, error) {
	s := emptyScheme()

	for i, raw := range strings.Split(order, ",") {
		name := strings.ToLower(strings.TrimSpace(raw))
		switch name {
		case "id":
			s.ID = i
		case "name":
			s.Name = i
		case "category":
			s.Category = i
		case "price":
			s.Price = i
		case "image":
			s.Image = i
		case "status":
			s.Status = i
		case "stock":
			s.Stock = i
		case "variants", "flavors":
			s.Variants = i
		case "unavailable":
			s.Unavailable = i
		case "badge":
			s.Badge = i
		case "details":
			s.Details = i
		case "-", "":
			// ignored column
		default:
			return s, fmt.Errorf("unknown feed column %q at position %d", raw, i)
		}
	}

	if s.ID < 0 || s.Name < 0 {
		return s, fmt.Errorf("feed column order %q must include id and name", order)
	}
	return s, nil
}
