package domain

import (
	"fmt"
	"strings"
)

// Category classifies a produce item.
type Category uint8

const (
	CategoryUnknown Category = iota
	CategoryFruit
	CategoryVeg
	CategoryForage
)

var categoryNames = [...]string{
	CategoryUnknown: "unknown",
	CategoryFruit:   "fruit",
	CategoryVeg:     "veg",
	CategoryForage:  "forage",
}

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CategoryFruit, CategoryVeg, CategoryForage, CategoryUnknown}
}

// String returns the lowercase category name used in the artifact.
func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return categoryNames[CategoryUnknown]
}

// ParseCategory maps free text to a Category, case-insensitively. Besides the
// canonical names it accepts "vegetable", "vegetables" and "veggie" for veg
// and "fruits" for fruit. Empty input is unknown and recognized;
// unrecognized text is unknown and reported with ok=false.
func ParseCategory(s string) (Category, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return CategoryUnknown, true
	}
	for i, name := range categoryNames {
		if s == name {
			return Category(i), true
		}
	}
	switch s {
	case "vegetable", "vegetables", "veggie":
		return CategoryVeg, true
	case "fruits":
		return CategoryFruit, true
	}
	return CategoryUnknown, false
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unrecognized values
// decode as CategoryUnknown rather than failing the whole document.
func (c *Category) UnmarshalText(text []byte) error {
	*c, _ = ParseCategory(string(text))
	return nil
}

// ProduceItem is a single produce entry placed in a month bucket.
type ProduceItem struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
}

// NewProduceItem builds an item from raw spreadsheet values. The returned
// error describes an unrecognized category; the item is still usable and is
// tagged unknown.
func NewProduceItem(name, category string) (ProduceItem, error) {
	item := ProduceItem{Name: strings.TrimSpace(name)}
	cat, ok := ParseCategory(category)
	item.Category = cat
	if !ok {
		return item, fmt.Errorf("unrecognized category %q", category)
	}
	return item, nil
}
