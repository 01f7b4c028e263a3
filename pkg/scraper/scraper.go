// Package scraper turns files and web pages into input text for extraction.
package scraper

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// maxBodyBytes bounds how much of a response or file is read.
const maxBodyBytes = 10 << 20

type ScraperConfig struct {
	RateLimit float64 // requests per second
	Timeout   time.Duration
	UserAgent string
}

type Scraper struct {
	config  ScraperConfig
	client  *http.Client
	limiter *rate.Limiter
}

func NewWithConfig(config ScraperConfig) *Scraper {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 2 // 2 requests per second by default
	}
	if config.UserAgent == "" {
		config.UserAgent = "columnar/1.0"
	}

	return &Scraper{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}
}

// Load reads source as a URL when it has an http(s) scheme and as a file path
// otherwise.
func (s *Scraper) Load(ctx context.Context, source string) (string, error) {
	if u, err := url.Parse(source); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return s.Fetch(ctx, source)
	}
	return LoadFile(source)
}

// Fetch downloads urlStr and returns its readable text.
func (s *Scraper) Fetch(ctx context.Context, urlStr string) (string, error) {
	// Apply rate limiting
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", s.config.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("received status code %d for URL: %s", resp.StatusCode, urlStr)
	}

	body := io.LimitReader(resp.Body, maxBodyBytes)
	if !isHTML(resp.Header.Get("Content-Type")) {
		data, err := io.ReadAll(body)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", err
	}
	return extractMainContent(doc), nil
}

// LoadFile reads a local file. HTML files are reduced to their text.
func LoadFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	body := io.LimitReader(f, maxBodyBytes)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		doc, err := goquery.NewDocumentFromReader(body)
		if err != nil {
			return "", err
		}
		return extractMainContent(doc), nil
	default:
		data, err := io.ReadAll(body)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

func extractMainContent(doc *goquery.Document) string {
	doc.Find("script, style, noscript, nav, footer, header").Remove()
	// Block elements end a line so the text keeps its layout.
	doc.Find("p, div, li, br, tr, h1, h2, h3, h4, h5, h6, section, article").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml("\n")
	})

	// Try to find main content area
	selectors := []string{
		"main",
		"article",
		".content",
		"#content",
	}

	var content string
	for _, selector := range selectors {
		if selected := doc.Find(selector); selected.Length() > 0 {
			content = selected.First().Text()
			break
		}
	}

	// Fallback to body if no main content found
	if strings.TrimSpace(content) == "" {
		content = doc.Find("body").Text()
	}

	return cleanContent(content)
}

// cleanContent collapses whitespace inside lines and squeezes blank lines,
// keeping the line structure.
func cleanContent(content string) string {
	var lines []string
	blank := false
	for _, line := range strings.Split(content, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(lines) > 0 {
				lines = append(lines, "")
			}
			blank = true
			continue
		}
		blank = false
		lines = append(lines, line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
