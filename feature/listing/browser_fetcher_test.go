package listing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inventory-tracker/core/inventory"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserFetcher_ReadsPreBody(t *testing.T) {
	bin, ok := launcher.LookPath()
	if !ok {
		t.Skip("no local browser available")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><pre>{"results":[],"total_matches_found":"0"}</pre></body></html>`))
	}))
	defer srv.Close()

	f := NewBrowserFetcher(Config{BaseURL: srv.URL, Headless: true, BrowserBin: bin, FetchTimeout: 20 * time.Second}, nil)
	defer f.Close()

	page, err := f.FetchPage(context.Background(), inventory.PageRequest{Offset: 0, PageSize: 50})
	require.NoError(t, err)

	_, total, err := VendorParser{}.Parse(page)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestBrowserFetcher_CloseWithoutLaunch(t *testing.T) {
	f := NewBrowserFetcher(Config{}, nil)
	assert.NoError(t, f.Close())
}
