package bypass

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const maxTitleLen = 80

// Describe renders a short human-readable reason for a non-2xx mirror response,
// e.g. "HTTP 503 (blocked by Cloudflare)" or "HTTP 502: Bad Gateway".
func Describe(res Response) string {
	reason := fmt.Sprintf("HTTP %d", res.StatusCode)

	if detected, source := Analyze(res, DefaultDetectors()); detected {
		return reason + " (blocked by " + source + ")"
	}

	if res.StatusCode == http.StatusTooManyRequests {
		if after := strings.TrimSpace(header(res, "Retry-After")); after != "" {
			return reason + " (rate limited, retry after " + after + ")"
		}
		return reason + " (rate limited)"
	}

	if title := PageTitle(res); title != "" {
		return reason + ": " + title
	}
	return reason
}

// PageTitle extracts the <title> (or first <h1>) of an HTML error page.
func PageTitle(res Response) string {
	if !looksLikeHTML(res) {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
	if err != nil {
		return ""
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	title = strings.Join(strings.Fields(title), " ")

	if utf8.RuneCountInString(title) > maxTitleLen {
		title = string([]rune(title)[:maxTitleLen]) + "..."
	}
	return title
}

func looksLikeHTML(res Response) bool {
	if strings.Contains(strings.ToLower(header(res, "Content-Type")), "text/html") {
		return true
	}
	trimmed := bytes.TrimSpace(res.Body)
	return len(trimmed) > 0 && trimmed[0] == '<'
}
