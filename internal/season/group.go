package season

import (
	"regexp"
	"strings"

	"github.com/couchcryptid/seasonal-produce/internal/domain"
)

var categoryIcons = map[domain.Category]string{
	domain.CategoryFruit:   "🍎",
	domain.CategoryVeg:     "🥬",
	domain.CategoryForage:  "🌿",
	domain.CategoryUnknown: "🌱",
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Group is the produce of one category, in the order it appeared in the bucket.
type Group struct {
	Category domain.Category `json:"category"`
	Title    string          `json:"title"`
	Icon     string          `json:"icon"`
	Rows     []Row           `json:"rows"`
}

// Row is one renderable produce entry.
type Row struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Label string `json:"label"`
	Image string `json:"image"`
}

// Icon returns the display icon for a category.
func Icon(c domain.Category) string {
	if icon, ok := categoryIcons[c]; ok {
		return icon
	}
	return categoryIcons[domain.CategoryUnknown]
}

// ImagePath returns the relative image path for a produce name:
// "images/<slug>.svg", where the slug is the lowercased name with whitespace
// runs replaced by a hyphen.
func ImagePath(name string) string {
	slug := whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return "images/" + slug + ".svg"
}

// GroupByCategory groups items by category. Groups follow the order in which
// each category first appears; rows keep the bucket order.
func GroupByCategory(items []domain.ProduceItem) []Group {
	groups := []Group{}
	index := make(map[domain.Category]int)

	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(groups)
			index[item.Category] = i
			groups = append(groups, Group{
				Category: item.Category,
				Title:    title(item.Category.String()),
				Icon:     Icon(item.Category),
			})
		}
		groups[i].Rows = append(groups[i].Rows, Row{
			Name:  item.Name,
			Icon:  Icon(item.Category),
			Label: item.Category.String(),
			Image: ImagePath(item.Name),
		})
	}
	return groups
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
