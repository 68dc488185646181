package panel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"artfolio/sdk/form"
	"artfolio/sdk/remote"
	"artfolio/sdk/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is an in-memory stand-in for the paintings API, close enough
// to exercise the whole upload → invalidate → refetch loop.
type fakeBackend struct {
	mu       sync.Mutex
	rows     []map[string]any
	listHits int
}

func (b *fakeBackend) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == PaintingsPath:
			b.mu.Lock()
			b.listHits++
			rows := append([]map[string]any(nil), b.rows...)
			b.mu.Unlock()
			require.NoError(t, json.NewEncoder(w).Encode(rows))

		case r.Method == http.MethodGet && r.URL.Path == MessagesPath:
			_, _ = w.Write([]byte(`[]`))

		case r.Method == http.MethodPost && r.URL.Path == form.UploadPath:
			require.NoError(t, r.ParseMultipartForm(32<<20))
			year, err := strconv.Atoi(r.FormValue("year"))
			require.NoError(t, err)

			b.mu.Lock()
			row := map[string]any{
				"id":           fmt.Sprintf("p%d", len(b.rows)+1),
				"title":        r.FormValue("title"),
				"year":         year,
				"availability": r.FormValue("availability"),
				"imageUrl":     "/uploads/paintings/p.jpg",
			}
			b.rows = append(b.rows, row)
			b.mu.Unlock()

			w.WriteHeader(http.StatusCreated)
			require.NoError(t, json.NewEncoder(w).Encode(row))

		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"not found"}`))
		}
	})
}

// A successful submission followed by a refetch shows the new artwork
// exactly once: the stale cached list must not linger or duplicate.
func TestUploadRoundTrip(t *testing.T) {
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend.handler(t))
	t.Cleanup(srv.Close)

	auth := &stubAuth{}
	auth.authed.Store(true)

	client := remote.NewClient(srv.URL)
	p := NewController(client, auth.fn())
	f := form.NewController(client)

	p.Open()
	require.NoError(t, p.Refresh(context.Background()))
	require.Empty(t, p.View().Artworks)

	require.NoError(t, f.SelectFile(form.File{
		Name: "untitled.jpg",
		Type: "image/jpeg",
		Data: make([]byte, 2<<20),
	}))
	f.SetValues(schema.Values{
		Title:        "Untitled",
		Year:         "2025",
		Medium:       "Oil",
		Size:         "50x50",
		Availability: "available",
	})
	require.NoError(t, f.Submit(context.Background()))

	// the cache was invalidated, so this refresh refetches the list
	require.NoError(t, p.Refresh(context.Background()))

	v := p.View()
	require.Len(t, v.Artworks, 1, "new artwork appears exactly once")
	assert.Equal(t, "Untitled", v.Artworks[0].Title)
	assert.Equal(t, 2025, v.Artworks[0].Year)

	// and a second refresh serves from cache without duplicating rows
	hitsBefore := backend.listHits
	require.NoError(t, p.Refresh(context.Background()))
	assert.Len(t, p.View().Artworks, 1)
	assert.Equal(t, hitsBefore, backend.listHits, "unchanged list comes from cache")
}
