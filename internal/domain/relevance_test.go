package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreBookmark(t *testing.T) {
	b := &Bookmark{
		Title:       "Docker Hub",
		URL:         "https://hub.docker.com/",
		Description: "Container image registry",
		Tags:        []string{"containers"},
	}

	tests := []struct {
		name           string
		query          string
		expectPositive bool
	}{
		{"exact title", "docker hub", true},
		{"title prefix", "dock", true},
		{"url host", "hub.docker", true},
		{"description", "registry", true},
		{"tag", "contain", true},
		{"case insensitive", "DOCKER", true},
		{"no match", "kubernetes", false},
		{"blank", "   ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := ScoreBookmark(tt.query, b)
			assert.Equal(t, tt.expectPositive, score > 0, "score=%v", score)
		})
	}
}

func TestScoreBookmarkPrefersTitle(t *testing.T) {
	inTitle := &Bookmark{Title: "Go Blog", URL: "https://example.com"}
	inDescription := &Bookmark{Title: "Example", URL: "https://example.com", Description: "go blog posts"}

	assert.Greater(t, ScoreBookmark("go blog", inTitle), ScoreBookmark("go blog", inDescription))
}

func TestScoreText(t *testing.T) {
	assert.Equal(t, ScoreExactMatch, scoreText("go", "Go"))
	assert.Equal(t, ScorePrefixMatch, scoreText("go", "golang"))
	assert.Greater(t, scoreText("lang", "golang"), ScoreSubstringMatch)
	assert.Less(t, scoreText("lang", "golang"), ScorePrefixMatch)
	assert.Zero(t, scoreText("rust", "golang"))
	assert.Zero(t, scoreText("go", ""))
}

func TestRankBookmarks(t *testing.T) {
	a := &Bookmark{ID: "a", Title: "Weekly notes", Description: "example of a journal"}
	b := &Bookmark{ID: "b", Title: "Example Site"}
	c := &Bookmark{ID: "c", Title: "Unrelated"}
	d := &Bookmark{ID: "d", Title: "Example Site"}

	ranked := RankBookmarks("exam", []*Bookmark{a, b, c, d})

	ids := make([]string, len(ranked))
	for i, r := range ranked {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"b", "d", "a"}, ids)
}

func TestStripScheme(t *testing.T) {
	assert.Equal(t, "example.com/x", stripScheme("https://www.example.com/x"))
	assert.Equal(t, "example.com", stripScheme("example.com"))
}
