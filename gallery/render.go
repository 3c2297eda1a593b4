package gallery

import (
	"cmp"
	"slices"
	"strings"

	"chargallery/models"
)

type ranked[T any] struct {
	item  T
	score int
}

// rank keeps the items accepted by keep and orders them by score. The sort is
// stable, so equal scores keep their input order in both directions.
func rank[T any](items []T, keep func(T) bool, score func(T) int, descending bool) []T {
	kept := make([]ranked[T], 0, len(items))
	for _, it := range items {
		if keep(it) {
			kept = append(kept, ranked[T]{item: it, score: score(it)})
		}
	}

	slices.SortStableFunc(kept, func(a, b ranked[T]) int {
		if descending {
			return cmp.Compare(b.score, a.score)
		}
		return cmp.Compare(a.score, b.score)
	})

	out := make([]T, len(kept))
	for i, r := range kept {
		out[i] = r.item
	}
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Popularity is the like count across a character's media plus its cover.
// A cover that is also one of the media is only counted once.
func Popularity(c models.Character) int {
	total := 0
	for _, m := range c.Media {
		total += m.Likes()
	}
	if c.Cover != nil && !slices.ContainsFunc(c.Media, func(m models.Media) bool { return m.ID == c.Cover.ID }) {
		total += c.Cover.Likes()
	}
	return total
}

// TagPopularity is the number of characters carrying the tag.
func TagPopularity(t models.Tag) int {
	return len(t.CharacterIDs)
}

// Matches reports whether a character passes the text and tag filters.
func Matches(c models.Character, q Query) bool {
	textMatch := containsFold(c.Name, q.Text) ||
		(c.Description != "" && containsFold(c.Description, q.Text))
	if !textMatch {
		return false
	}
	if len(q.Tags) == 0 {
		return true
	}
	have := c.TagIDSet()
	for _, id := range q.Tags {
		if _, ok := have[id]; !ok {
			return false
		}
	}
	return true
}

// Render returns the characters matching q ordered by popularity. The input is
// not modified and the full filtered set is returned.
func Render(characters []models.Character, q Query) []models.Character {
	return rank(characters,
		func(c models.Character) bool { return Matches(c, q) },
		Popularity,
		q.Descending,
	)
}

// RenderTags filters tags by name and orders them by character count. Tag
// selections in q do not apply to tags.
func RenderTags(tags []models.Tag, q Query) []models.Tag {
	return rank(tags,
		func(t models.Tag) bool { return containsFold(t.Name, q.Text) },
		TagPopularity,
		q.Descending,
	)
}
