package metadata

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/drivemark/internal/logger"
)

func newExtractor(timeout time.Duration) *Extractor {
	return New(Options{Timeout: timeout, AllowPrivateNetworks: true}, logger.NewNop())
}

func serveHTML(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenGraphTitleWins(t *testing.T) {
	srv := serveHTML(t, `<html><head>
		<title>Y</title>
		<meta property="og:title" content="X">
		<meta name="twitter:title" content="Z">
	</head><body></body></html>`)

	md := newExtractor(2*time.Second).Fetch(context.Background(), srv.URL)
	assert.Equal(t, "X", md.Title)
}

func TestFallbackChains(t *testing.T) {
	srv := serveHTML(t, `<html><head>
		<title>
			Plain   Title
		</title>
		<meta name="twitter:description" content="From twitter">
		<meta name="description" content="From meta">
		<meta property="article:author" content="Ada">
		<meta name="keywords" content="go, bookmarks">
		<meta property="og:image" content="https://cdn.example/img.png">
		<meta property="og:site_name" content="Example">
	</head><body></body></html>`)

	md := newExtractor(2*time.Second).Fetch(context.Background(), srv.URL)
	assert.Equal(t, Metadata{
		Title:       "Plain Title",
		Description: "From twitter",
		Favicon:     srv.URL + "/favicon.ico",
		OGImage:     "https://cdn.example/img.png",
		SiteName:    "Example",
		Author:      "Ada",
		Keywords:    "go, bookmarks",
	}, md)
}

func TestTwitterTitleViaName(t *testing.T) {
	srv := serveHTML(t, `<html><head><title>Y</title><meta name="twitter:title" content="T"></head></html>`)

	md := newExtractor(2*time.Second).Fetch(context.Background(), srv.URL)
	assert.Equal(t, "T", md.Title)
}

func TestFaviconPreferenceAndResolution(t *testing.T) {
	srv := serveHTML(t, `<html><head>
		<link rel="apple-touch-icon" href="https://cdn.example/apple.png">
		<link rel="shortcut icon" href="/static/fav.png">
	</head></html>`)

	md := newExtractor(2*time.Second).Fetch(context.Background(), srv.URL+"/page/index.html")
	assert.Equal(t, srv.URL+"/static/fav.png", md.Favicon)
}

func TestFaviconResolvesAgainstFinalURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new/page", http.StatusFound)
	})
	mux.HandleFunc("/new/page", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, `<html><head><title>Moved</title><link rel="icon" href="icon.png"></head></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	md := newExtractor(2*time.Second).Fetch(context.Background(), srv.URL+"/old")
	assert.Equal(t, "Moved", md.Title)
	assert.Equal(t, srv.URL+"/new/icon.png", md.Favicon)
}

func TestSummaryFromMainParagraph(t *testing.T) {
	long := strings.Repeat("abcdefghij", 25)
	srv := serveHTML(t, `<html><body>
		<p>Outside paragraph that is long enough to count</p>
		<main><h1>Title</h1><p>`+long+`</p><p>second</p></main>
	</body></html>`)

	md := newExtractor(2*time.Second).Fetch(context.Background(), srv.URL)
	require.Len(t, []rune(md.Description), 200)
	assert.True(t, strings.HasSuffix(md.Description, "..."))
	assert.Equal(t, long[:197], strings.TrimSuffix(md.Description, "..."))
}

func TestSummarySkipsShortParagraphs(t *testing.T) {
	srv := serveHTML(t, `<html><body>
		<article><p>Too short</p></article>
		<div class="post content"><p>This paragraph is long enough to be a summary.</p></div>
	</body></html>`)

	md := newExtractor(2*time.Second).Fetch(context.Background(), srv.URL)
	assert.Equal(t, "This paragraph is long enough to be a summary.", md.Description)
}

func TestSummaryFromBodySentence(t *testing.T) {
	srv := serveHTML(t, `<html><body>
		<nav>Home About Contact</nav>
		<div>Short. The first real sentence of this page is right here! Another one follows.</div>
		<script>var ignored = "this script text is never part of the summary at all";</script>
	</body></html>`)

	md := newExtractor(2*time.Second).Fetch(context.Background(), srv.URL)
	assert.Equal(t, "The first real sentence of this page is right here", md.Description)
}

func TestCharsetDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		_, _ = w.Write([]byte("<html><head><title>Caf\xe9</title></head></html>"))
	}))
	defer srv.Close()

	md := newExtractor(2*time.Second).Fetch(context.Background(), srv.URL)
	assert.Equal(t, "Café", md.Title)
}

func TestTimeoutReturnsDegradedResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	timeout := 150 * time.Millisecond
	start := time.Now()
	md := newExtractor(timeout).Fetch(context.Background(), srv.URL)
	elapsed := time.Since(start)

	u, _ := url.Parse(srv.URL)
	assert.Equal(t, u.Hostname(), md.Title)
	assert.Equal(t, FailedDescription, md.Description)
	assert.Empty(t, md.Favicon)
	assert.Less(t, elapsed, timeout+time.Second)
}

func TestFailuresAreDegraded(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/missing", func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	})
	mux.HandleFunc("/json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"title":"nope"}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	e := newExtractor(2 * time.Second)
	for _, path := range []string{"/missing", "/json"} {
		md := e.Fetch(context.Background(), srv.URL+path)
		assert.Equal(t, FailedDescription, md.Description, path)
		assert.Equal(t, "127.0.0.1", md.Title, path)
	}
}

func TestDegraded(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.example.com:8443/path?q=1", "www.example.com"},
		{"not a url", "not a url"},
		{"::", "::"},
	}
	for _, tt := range tests {
		md := Degraded(tt.in)
		assert.Equal(t, tt.want, md.Title, tt.in)
		assert.Equal(t, FailedDescription, md.Description)
	}

	md := newExtractor(time.Second).Fetch(context.Background(), "not a url")
	assert.Equal(t, "not a url", md.Title)
}

func TestMetaAttributesIgnoreCaseAndSpace(t *testing.T) {
	srv := serveHTML(t, `<html><head>
		<title>Y</title>
		<meta property="OG:Title" content="X">
		<meta name=" Description " content="Desc">
	</head></html>`)

	md := newExtractor(2*time.Second).Fetch(context.Background(), srv.URL)
	assert.Equal(t, "X", md.Title)
	assert.Equal(t, "Desc", md.Description)
}

func TestPrivateAddressesRefusedByDefault(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = io.WriteString(w, `<html><head><title>Internal</title></head></html>`)
	}))
	defer srv.Close()

	md := New(Options{Timeout: 2 * time.Second}, logger.NewNop()).Fetch(context.Background(), srv.URL)
	assert.Equal(t, FailedDescription, md.Description)
	assert.Equal(t, "127.0.0.1", md.Title)
	assert.Zero(t, hits.Load())
}

func TestRefusePrivate(t *testing.T) {
	tests := []struct {
		address string
		refused bool
	}{
		{"127.0.0.1:80", true},
		{"10.1.2.3:6379", true},
		{"169.254.169.254:80", true},
		{"192.168.1.10:443", true},
		{"[::1]:443", true},
		{"[fd00::1]:443", true},
		{"93.184.216.34:443", false},
		{"[2606:4700::1111]:443", false},
	}
	for _, tt := range tests {
		err := refusePrivate("tcp", tt.address, nil)
		assert.Equal(t, tt.refused, err != nil, tt.address)
		if tt.refused {
			assert.ErrorIs(t, err, errPrivateAddress)
		}
	}
}
