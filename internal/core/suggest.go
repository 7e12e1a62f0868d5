package core

import "strings"

// FilterCategories returns, in input order, every category whose lower-cased
// title starts with the trimmed, lower-cased query. An empty query matches
// everything.
func FilterCategories(categories []Category, query string) []Category {
	q := []rune(strings.ToLower(strings.TrimSpace(query)))
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		title := []rune(strings.ToLower(c.Title))
		if len(title) > len(q) {
			title = title[:len(q)]
		}
		if string(title) == string(q) {
			out = append(out, c)
		}
	}
	return out
}

// CategorySnapshot is an immutable copy of the category list taken at the
// start of a form session.
type CategorySnapshot struct {
	items []Category
}

func NewCategorySnapshot(categories []Category) CategorySnapshot {
	return CategorySnapshot{items: append([]Category(nil), categories...)}
}

// All returns a copy of the snapshot's categories.
func (s CategorySnapshot) All() []Category {
	return append([]Category(nil), s.items...)
}

func (s CategorySnapshot) Len() int {
	return len(s.items)
}

// Suggest runs FilterCategories over the snapshot.
func (s CategorySnapshot) Suggest(query string) []Category {
	return FilterCategories(s.items, query)
}
