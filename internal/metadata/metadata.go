// Package metadata fetches a web page and extracts preview information
// for a bookmark: title, description, favicon and a few social tags.
package metadata

import (
	"context"
	"fmt"
	"io"
	"errors"
	"mime"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/MrSnakeDoc/drivemark/internal/logger"
	"github.com/MrSnakeDoc/drivemark/internal/utils"
)

const (
	DefaultTimeout   = 5 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// FailedDescription is the description of a degraded result.
	FailedDescription = "Failed to fetch page information"

	maxBodySize  = 2 << 20
	maxRedirects = 10
)

var errPrivateAddress = errors.New("refusing to fetch private address")

// Metadata is the preview of a page. Empty fields are omitted.
type Metadata struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Favicon     string `json:"favicon,omitempty"`
	OGImage     string `json:"ogImage,omitempty"`
	SiteName    string `json:"siteName,omitempty"`
	Author      string `json:"author,omitempty"`
	Keywords    string `json:"keywords,omitempty"`
}

type Options struct {
	Timeout   time.Duration
	UserAgent string

	// AllowPrivateNetworks lets fetches reach loopback, private and
	// link-local addresses. Off, such connections are refused at dial time.
	AllowPrivateNetworks bool

	// HTTPClient replaces the default client, and with it the address guard.
	HTTPClient *http.Client
}

type Extractor struct {
	timeout   time.Duration
	userAgent string
	client    *http.Client
	log       logger.Logger
}

func New(opts Options, log logger.Logger) *Extractor {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{
			Timeout:   opts.Timeout,
			Transport: newTransport(opts.AllowPrivateNetworks),
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		}
	}
	return &Extractor{
		timeout:   opts.Timeout,
		userAgent: opts.UserAgent,
		client:    client,
		log:       log,
	}
}

// Fetch never fails: on timeout or any fetch or parse error it returns
// a degraded result whose title is the URL's host.
//
// The scrape runs on its own goroutine and is raced against a timer.
// When the timer wins the scrape is abandoned; its result lands in a
// buffered channel nobody reads.
func (e *Extractor) Fetch(ctx context.Context, rawURL string) Metadata {
	type result struct {
		md  Metadata
		err error
	}
	done := make(chan result, 1)

	go func() {
		// Detached from the caller so an abandoned scrape can finish or
		// fail on its own; bounded by the same timeout.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
		defer cancel()

		md, err := e.scrape(fetchCtx, rawURL)
		done <- result{md, err}
	}()

	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case r := <-done:
		if r.err != nil {
			e.log.Warn("metadata fetch failed", logger.String("url", rawURL), logger.Error(r.err))
			return Degraded(rawURL)
		}
		return r.md
	case <-timer.C:
		e.log.Warn("metadata fetch timed out", logger.String("url", rawURL), logger.Duration("timeout", e.timeout))
		return Degraded(rawURL)
	case <-ctx.Done():
		return Degraded(rawURL)
	}
}

// Degraded is the result returned when a page cannot be read.
func Degraded(rawURL string) Metadata {
	title := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Hostname() != "" {
		title = u.Hostname()
	}
	return Metadata{Title: title, Description: FailedDescription}
}

func (e *Extractor) scrape(ctx context.Context, rawURL string) (Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Metadata{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := e.client.Do(req)
	if err != nil {
		return Metadata{}, fmt.Errorf("get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Metadata{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !isHTML(contentType) {
		return Metadata{}, fmt.Errorf("unsupported content type %q", contentType)
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBodySize), contentType)
	if err != nil {
		return Metadata{}, fmt.Errorf("decode charset: %w", err)
	}
	doc, err := html.Parse(body)
	if err != nil {
		return Metadata{}, fmt.Errorf("parse html: %w", err)
	}

	// Relative links resolve against the final URL after redirects.
	return extract(doc, resp.Request.URL), nil
}

func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "text/html" || mt == "application/xhtml+xml"
}

// privateRanges are refused unless AllowPrivateNetworks is set.
var privateRanges = utils.NewIPMatcher([]string{
	"0.0.0.0/8",
	"10.0.0.0/8",
	"100.64.0.0/10",
	"127.0.0.0/8",
	"169.254.0.0/16",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"::/128",
	"::1/128",
	"fc00::/7",
	"fe80::/10",
})

func newTransport(allowPrivate bool) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	if allowPrivate {
		return t
	}
	// A proxy would hide the real destination from the dial check.
	t.Proxy = nil
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
		Control:   refusePrivate,
	}
	t.DialContext = dialer.DialContext
	return t
}

// refusePrivate runs after DNS resolution, so address is the IP being dialed.
func refusePrivate(_, address string, _ syscall.RawConn) error {
	host := utils.ParseHostNoPort(address)
	if privateRanges.Allow(host) {
		return fmt.Errorf("%w: %s", errPrivateAddress, host)
	}
	return nil
}
