// Package arxiv wraps the arXiv search API and normalizes its Atom feed
// into flat paper records ready for ingestion.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	maxAuthors        = 3
	abstractRuneLimit = 500
)

// PaperRecord is a normalized paper as returned by the source client.
// Summary is the pre-truncated digest form; the full abstract is not
// retained past this boundary.
type PaperRecord struct {
	ArxivID   string
	Title     string
	Authors   string
	Summary   string
	PDFURL    string
	Published time.Time
	Category  string
}

// Client queries the arXiv search endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client against the given query endpoint
// (e.g. "https://export.arxiv.org/api/query").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch returns up to maxResults papers for the category, newest
// submissions first. Errors from the network or feed parsing propagate to
// the caller untranslated.
func (c *Client) Fetch(ctx context.Context, category string, maxResults int) ([]PaperRecord, error) {
	query := url.Values{}
	query.Set("search_query", "cat:"+category)
	query.Set("start", "0")
	query.Set("max_results", fmt.Sprintf("%d", maxResults))
	query.Set("sortBy", "submittedDate")
	query.Set("sortOrder", "descending")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	var records []PaperRecord
	for _, entry := range feed.Entries {
		id := trailingSegment(entry.ID)
		if id == "" {
			continue
		}

		r := PaperRecord{
			ArxivID:  id,
			Title:    strings.TrimSpace(entry.Title),
			Authors:  summarizeAuthors(entry.Authors),
			Summary:  truncateAbstract(entry.Summary),
			PDFURL:   pdfLink(entry),
			Category: category,
		}
		if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
			r.Published = t
		}

		records = append(records, r)
	}
	return records, nil
}

// summarizeAuthors joins the first three author names and marks longer
// lists with "et al.".
func summarizeAuthors(authors []atomAuthor) string {
	names := make([]string, 0, maxAuthors)
	for i, a := range authors {
		if i == maxAuthors {
			break
		}
		names = append(names, strings.TrimSpace(a.Name))
	}
	text := strings.Join(names, ", ")
	if len(authors) > maxAuthors {
		text += " et al."
	}
	return text
}

// truncateAbstract flattens newlines and cuts the abstract to 500
// characters. The ellipsis is appended unconditionally, matching the
// behavior the digest has always shipped with.
func truncateAbstract(abstract string) string {
	flat := strings.ReplaceAll(strings.TrimSpace(abstract), "\n", " ")
	runes := []rune(flat)
	if len(runes) > abstractRuneLimit {
		runes = runes[:abstractRuneLimit]
	}
	return string(runes) + "..."
}

// trailingSegment extracts the source identifier from the entry's
// canonical URI (e.g. "http://arxiv.org/abs/2401.12345v1" → "2401.12345v1").
// The version suffix is kept.
func trailingSegment(entryID string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(entryID), "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return ""
	}
	return trimmed[idx+1:]
}

// pdfLink prefers the feed's explicit pdf link and falls back to rewriting
// the abstract URL.
func pdfLink(entry atomEntry) string {
	for _, l := range entry.Links {
		if l.Title == "pdf" {
			return l.Href
		}
	}
	return strings.Replace(entry.ID, "/abs/", "/pdf/", 1)
}

// arXiv Atom feed XML structures.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID        string       `xml:"id"`
	Title     string       `xml:"title"`
	Summary   string       `xml:"summary"`
	Published string       `xml:"published"`
	Authors   []atomAuthor `xml:"author"`
	Links     []atomLink   `xml:"link"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
}
