// Package gallery filters and ranks already fetched characters and tags for
// display. Everything here is pure: no I/O, no shared state.
package gallery

import (
	"slices"
	"strings"
)

// Query is the search state behind a gallery page. Text is stored lower-cased
// and Descending is the sort flag (true shows the most liked first).
type Query struct {
	Text       string   `json:"string"`
	Tags       []string `json:"tags"`
	Descending bool     `json:"sort"`
}

// DefaultQuery is the state a page starts in and the state Clear returns to.
func DefaultQuery() Query {
	return Query{Text: "", Tags: []string{}, Descending: true}
}

// ParseQuery builds a query from request parameters. Text is lower-cased but
// otherwise kept as typed, so surrounding spaces take part in matching. Blank
// and repeated tag ids are dropped; sort is ascending only when it reads "asc".
func ParseQuery(text string, tags []string, sort string) Query {
	q := DefaultQuery()
	q.Text = strings.ToLower(text)
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || slices.Contains(q.Tags, t) {
			continue
		}
		q.Tags = append(q.Tags, t)
	}
	q.Descending = !strings.EqualFold(strings.TrimSpace(sort), "asc")
	return q
}

func (q Query) WithText(text string) Query {
	q.Text = strings.ToLower(text)
	return q
}

// ToggleTag selects the tag if it is not selected and deselects it otherwise.
func (q Query) ToggleTag(id string) Query {
	tags := make([]string, 0, len(q.Tags)+1)
	found := false
	for _, t := range q.Tags {
		if t == id {
			found = true
			continue
		}
		tags = append(tags, t)
	}
	if !found {
		tags = append(tags, id)
	}
	q.Tags = tags
	return q
}

func (q Query) ToggleSort() Query {
	q.Descending = !q.Descending
	return q
}

// Clear replaces the whole query rather than merging into it.
func (q Query) Clear() Query {
	return DefaultQuery()
}

func (q Query) HasTag(id string) bool {
	return slices.Contains(q.Tags, id)
}

// SortParam is the inverse of the sort argument accepted by ParseQuery.
func (q Query) SortParam() string {
	if q.Descending {
		return "desc"
	}
	return "asc"
}
