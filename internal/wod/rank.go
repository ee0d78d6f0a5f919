package wod

import "slices"

// Ranked pairs an item with its 1-based leaderboard position.
type Ranked[T any] struct {
	Rank int
	Item T
}

// Rank sorts a complete result set with Compare and numbers it from 1.
// Equal scores keep their input order and still get consecutive ranks.
func Rank[T any](items []T, score func(T) string, t Type) []Ranked[T] {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return Compare(score(a), score(b), t)
	})

	ranked := make([]Ranked[T], len(sorted))
	for i, item := range sorted {
		ranked[i] = Ranked[T]{Rank: i + 1, Item: item}
	}
	return ranked
}

// Page returns the 1-based page of an already ranked list. Out-of-range pages
// are empty; ranks are not renumbered.
func Page[S ~[]E, E any](ranked S, page, limit int) S {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		return nil
	}
	start := (page - 1) * limit
	if start >= len(ranked) {
		return S{}
	}
	end := min(start+limit, len(ranked))
	return ranked[start:end]
}

// TotalPages is the number of pages needed for total items.
func TotalPages(total, limit int) int {
	if limit < 1 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
