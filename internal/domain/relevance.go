package domain

import (
	"slices"
	"strings"
)

const (
	// Match weights
	ScoreExactMatch     = 100.0
	ScorePrefixMatch    = 75.0
	ScoreSubstringMatch = 50.0

	// Position bonus (earlier is better)
	ScorePositionBonus = 10.0
)

// Field weights: a title hit outranks a tag hit, which outranks a URL
// or description hit.
var fieldWeights = struct {
	title, tag, url, description float64
}{1.0, 0.8, 0.6, 0.4}

// RankedBookmark is a search hit with its relevance score.
type RankedBookmark struct {
	Bookmark *Bookmark
	Score    float64
}

// ScoreBookmark scores a bookmark against a query. Only the best field
// counts. Zero means the bookmark does not match.
func ScoreBookmark(query string, b *Bookmark) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	if b == nil || q == "" {
		return 0
	}

	best := fieldWeights.title * scoreText(q, b.Title)
	best = max(best, fieldWeights.url*scoreText(q, stripScheme(b.URL)))
	best = max(best, fieldWeights.description*scoreText(q, b.Description))
	for _, tag := range b.Tags {
		best = max(best, fieldWeights.tag*scoreText(q, tag))
	}
	return best
}

// RankBookmarks orders bookmarks by descending relevance. Ties keep
// their input order; non-matching bookmarks are dropped.
func RankBookmarks(query string, bookmarks []*Bookmark) []*Bookmark {
	ranked := make([]RankedBookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		if s := ScoreBookmark(query, b); s > 0 {
			ranked = append(ranked, RankedBookmark{Bookmark: b, Score: s})
		}
	}
	slices.SortStableFunc(ranked, func(a, b RankedBookmark) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})

	out := make([]*Bookmark, len(ranked))
	for i, r := range ranked {
		out[i] = r.Bookmark
	}
	return out
}

// scoreText scores a lowercased query against one field value.
func scoreText(q, field string) float64 {
	field = strings.ToLower(strings.TrimSpace(field))
	if field == "" {
		return 0
	}
	switch {
	case q == field:
		return ScoreExactMatch
	case strings.HasPrefix(field, q):
		return ScorePrefixMatch
	}
	index := strings.Index(field, q)
	if index < 0 {
		return 0
	}
	// Earlier substring matches get higher score
	return ScoreSubstringMatch + ScorePositionBonus*(1.0-float64(index)/float64(len(field)))
}

func stripScheme(u string) string {
	if _, rest, ok := strings.Cut(u, "://"); ok {
		return strings.TrimPrefix(rest, "www.")
	}
	return u
}
