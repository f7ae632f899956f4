// Package listing resolves the newest matching artifact from an HTML
// directory index. The index is expected to carry a table with at least
// a "Name" and a "Last modified" column, the format Apache's fancy
// indexing produces.
package listing

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	lserrors "github.com/mkwant/list-to-sheets/internal/errors"
)

// Entry is one (name, last-modified) pair scraped from the index table.
type Entry struct {
	Name         string
	LastModified time.Time
}

// CurrentItem describes the newest matching artifact as found online.
type CurrentItem struct {
	// URL is the full download location of the artifact.
	URL string

	// LastModified is the listing's timestamp for the artifact.
	LastModified time.Time

	// Filename is the final path segment of URL.
	Filename string
}

// NewCurrentItem builds a CurrentItem, deriving the filename from the
// URL's final path segment.
func NewCurrentItem(url string, lastModified time.Time) CurrentItem {
	segments := strings.Split(url, "/")
	return CurrentItem{
		URL:          url,
		LastModified: lastModified,
		Filename:     segments[len(segments)-1],
	}
}

// timestampLayouts are the formats directory indexes are known to use.
var timestampLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"02-Jan-2006 15:04",
	"02-Jan-2006 15:04:05",
	time.RFC1123,
}

// Resolve fetches the directory index at baseURL, keeps the entries
// whose name contains nameContains (case-sensitive containment, not a
// pattern), and returns the one with the newest last-modified
// timestamp. Ties keep the first entry in listing order; the remote
// source does not guarantee that order is stable across fetches.
//
// It returns ErrNoMatch when no entry passes the filter: with nothing
// to sync the run cannot continue.
func Resolve(
	ctx context.Context,
	client *http.Client,
	baseURL, nameContains string,
	log zerolog.Logger,
) (CurrentItem, error) {
	log.Debug().Str("url", baseURL).Str("filter", nameContains).Msg("retrieving listing")

	entries, err := fetchIndex(ctx, client, baseURL)
	if err != nil {
		return CurrentItem{}, lserrors.New("resolve", err).WithSource(baseURL)
	}

	var newest *Entry
	for i := range entries {
		e := entries[i]
		if !strings.Contains(e.Name, nameContains) {
			continue
		}
		// Strictly-after keeps the first entry on timestamp ties.
		if newest == nil || e.LastModified.After(newest.LastModified) {
			newest = &entries[i]
		}
	}
	if newest == nil {
		return CurrentItem{}, lserrors.New("resolve", lserrors.ErrNoMatch).
			WithSource(baseURL).
			WithName(nameContains)
	}

	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	item := NewCurrentItem(baseURL+newest.Name, newest.LastModified)
	log.Debug().
		Str("filename", item.Filename).
		Time("last_modified", item.LastModified).
		Msg("newest list found")
	return item, nil
}

// fetchIndex downloads the index page and parses it into entries.
func fetchIndex(ctx context.Context, client *http.Client, url string) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing returned status %d", resp.StatusCode)
	}
	return parseIndex(resp.Body)
}

// parseIndex reads the first table of an HTML document and extracts
// (Name, Last modified) pairs. Rows without a parseable timestamp, such
// as the parent-directory link, are skipped.
func parseIndex(r io.Reader) ([]Entry, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	table := findNode(doc, atom.Table)
	if table == nil {
		return nil, fmt.Errorf("no table in listing document")
	}

	var (
		entries  []Entry
		nameCol  = -1
		modCol   = -1
		sawTitle bool
	)
	for _, row := range findNodes(table, atom.Tr) {
		cells := rowCells(row)
		if !sawTitle {
			// The first row carrying both headers fixes the column layout.
			for i, text := range cells {
				switch strings.TrimSpace(text) {
				case "Name":
					nameCol = i
				case "Last modified":
					modCol = i
				}
			}
			if nameCol >= 0 && modCol >= 0 {
				sawTitle = true
			}
			continue
		}
		if nameCol >= len(cells) || modCol >= len(cells) {
			continue
		}
		name := strings.TrimSpace(cells[nameCol])
		if name == "" {
			continue
		}
		ts, ok := parseTimestamp(cells[modCol])
		if !ok {
			continue
		}
		entries = append(entries, Entry{Name: name, LastModified: ts})
	}

	if !sawTitle {
		return nil, fmt.Errorf("listing table has no Name / Last modified header")
	}
	return entries, nil
}

// parseTimestamp tries the known index timestamp layouts in order.
func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// findNode returns the first descendant element with the given atom.
func findNode(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, a); found != nil {
			return found
		}
	}
	return nil
}

// findNodes returns all descendant elements with the given atom.
func findNodes(n *html.Node, a atom.Atom) []*html.Node {
	var out []*html.Node
	if n.Type == html.ElementNode && n.DataAtom == a {
		out = append(out, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, findNodes(c, a)...)
	}
	return out
}

// rowCells collects the text of each th/td cell in a table row,
// anchors included.
func rowCells(row *html.Node) []string {
	var cells []string
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if c.DataAtom == atom.Th || c.DataAtom == atom.Td {
			cells = append(cells, collectText(c))
		}
	}
	return cells
}

// collectText concatenates all text nodes below n.
func collectText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(collectText(c))
	}
	return b.String()
}
