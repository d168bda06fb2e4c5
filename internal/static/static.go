/*
Package static fetches result pages over plain HTTP and reduces them to their
visible text. It only sees what the server renders, so it suits server-side
rendered pages and test fixtures. Script-driven pages need the browser fetcher.
*/
package static

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"

	"github.com/shanehull/tripwatch/internal/scan"
)

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type Fetcher struct {
	client *resty.Client
}

func New(userAgent string) *Fetcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	client := resty.New()
	client.SetHeader("User-Agent", userAgent)
	client.SetHeader("Accept", "text/html,application/xhtml+xml")

	return &Fetcher{client: client}
}

// Fetch downloads url and returns its visible text.
func (f *Fetcher) Fetch(ctx context.Context, url string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", fmt.Errorf("%w: failed to fetch URL %s: %w", scan.ErrFetch, url, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("%w: received non-OK status code %d from %s", scan.ErrFetch, resp.StatusCode(), url)
	}

	doc, err := html.Parse(bytes.NewReader(resp.Body()))
	if err != nil {
		return "", fmt.Errorf("%w: failed to parse HTML from %s: %w", scan.ErrFetch, url, err)
	}

	return VisibleText(doc), nil
}

var hidden = map[string]bool{
	"head":     true,
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"svg":      true,
}

var block = map[string]bool{
	"address": true, "article": true, "aside": true, "br": true, "dd": true,
	"div": true, "dl": true, "dt": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "section": true, "table": true, "tr": true, "ul": true,
}

// VisibleText approximates innerText: hidden elements are dropped, block
// elements break lines, and blank lines are removed.
func VisibleText(doc *html.Node) string {
	var sb strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hidden[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			// Source newlines are not line breaks.
			sb.WriteString(" " + strings.Join(strings.Fields(n.Data), " ") + " ")
		}

		isBlock := n.Type == html.ElementNode && block[n.Data]
		if isBlock {
			sb.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if isBlock {
			sb.WriteByte('\n')
		} else if n.Type == html.ElementNode && (n.Data == "td" || n.Data == "th") {
			sb.WriteByte('\t')
		}
	}
	walk(doc)

	var lines []string
	for _, line := range strings.Split(sb.String(), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n")
}
