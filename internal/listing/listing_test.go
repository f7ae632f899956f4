package listing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lserrors "github.com/mkwant/list-to-sheets/internal/errors"
)

// indexPage mimics an Apache fancy-index listing.
const indexPage = `<html><head><title>Index of /backup</title></head><body>
<h1>Index of /backup</h1>
<table>
<tr><th><a href="?C=N;O=D">Name</a></th><th><a href="?C=M;O=A">Last modified</a></th><th>Size</th></tr>
<tr><th colspan="3"><hr></th></tr>
<tr><td><a href="/">Parent Directory</a></td><td>&nbsp;</td><td>-</td></tr>
<tr><td><a href="bowielist_v1.xlsx">bowielist_v1.xlsx</a></td><td>2023-10-01 09:00</td><td>2.1M</td></tr>
<tr><td><a href="bowielist_v2.xlsx">bowielist_v2.xlsx</a></td><td>2023-11-12 18:30</td><td>2.2M</td></tr>
<tr><td><a href="notes.txt">notes.txt</a></td><td>2023-12-01 08:00</td><td>1K</td></tr>
</table>
</body></html>`

func TestParseIndex(t *testing.T) {
	entries, err := parseIndex(strings.NewReader(indexPage))
	require.NoError(t, err)

	// Parent Directory has no timestamp and is skipped.
	require.Len(t, entries, 3)
	assert.Equal(t, "bowielist_v1.xlsx", entries[0].Name)
	assert.Equal(t, time.Date(2023, 10, 1, 9, 0, 0, 0, time.UTC), entries[0].LastModified)
	assert.Equal(t, "bowielist_v2.xlsx", entries[1].Name)
	assert.Equal(t, "notes.txt", entries[2].Name)
}

func TestParseIndex_NoTable(t *testing.T) {
	_, err := parseIndex(strings.NewReader("<html><body><p>nothing here</p></body></html>"))
	require.Error(t, err)
}

func TestParseIndex_NoHeader(t *testing.T) {
	page := `<table><tr><th>File</th><th>Date</th></tr>
<tr><td>a.xlsx</td><td>2023-10-01 09:00</td></tr></table>`
	_, err := parseIndex(strings.NewReader(page))
	require.Error(t, err)
}

func TestResolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(indexPage))
	}))
	defer srv.Close()

	item, err := Resolve(context.Background(), srv.Client(), srv.URL, "bowielist", zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "bowielist_v2.xlsx", item.Filename,
		"the newer of the two matching entries wins, the newer non-matching entry does not")
	assert.Equal(t, srv.URL+"/bowielist_v2.xlsx", item.URL)
	assert.Equal(t, time.Date(2023, 11, 12, 18, 30, 0, 0, time.UTC), item.LastModified)
}

func TestResolve_NoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(indexPage))
	}))
	defer srv.Close()

	_, err := Resolve(context.Background(), srv.Client(), srv.URL, "ziggy", zerolog.Nop())
	require.Error(t, err)
	assert.True(t, lserrors.IsNoMatch(err))
}

func TestResolve_TimestampTieKeepsListingOrder(t *testing.T) {
	page := `<table>
<tr><th>Name</th><th>Last modified</th></tr>
<tr><td>bowielist_a.xlsx</td><td>2023-11-12 18:30</td></tr>
<tr><td>bowielist_b.xlsx</td><td>2023-11-12 18:30</td></tr>
</table>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	item, err := Resolve(context.Background(), srv.Client(), srv.URL, "bowielist", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "bowielist_a.xlsx", item.Filename)
}

func TestResolve_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := Resolve(context.Background(), srv.Client(), srv.URL, "bowielist", zerolog.Nop())
	require.Error(t, err)
	assert.ErrorContains(t, err, "status 500")
}

func TestNewCurrentItem(t *testing.T) {
	item := NewCurrentItem("http://example.org/backup/bowielist_v2.xlsx", time.Time{})
	assert.Equal(t, "bowielist_v2.xlsx", item.Filename)
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"2023-11-12 18:30", true},
		{"12-Nov-2023 18:30", true},
		{"2023-11-12 18:30:05", true},
		{"&nbsp;", false},
		{"-", false},
		{"", false},
	}
	for _, tt := range tests {
		_, ok := parseTimestamp(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
	}
}
