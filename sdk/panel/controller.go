// Package panel composes the backoffice list views behind a hard
// authentication gate. An unauthenticated session sees nothing: no view,
// no network traffic, no hint the panel exists.
package panel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"artfolio/sdk/events"
	"artfolio/sdk/remote"
)

const (
	PaintingsPath = "/api/paintings"
	MessagesPath  = "/api/admin/messages"

	// messagePreviewLimit clips the message body for the admin preview.
	messagePreviewLimit = 120

	// maxPreviewMessages caps the message list to the newest entries.
	maxPreviewMessages = 5
)

// ArtworkRow is one line of the artwork management table.
type ArtworkRow struct {
	ID           string
	ThumbnailURL string
	Title        string
	Year         int
	Availability string
}

// MessageRow is one contact message in the admin preview.
type MessageRow struct {
	Sender    string
	Email     string
	Subject   string
	Preview   string
	CreatedAt time.Time
}

// View is what the panel renders. Zero value when not authenticated.
type View struct {
	Visible  bool
	Artworks []ArtworkRow
	Messages []MessageRow
}

type artworkJSON struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Year         int    `json:"year"`
	Availability string `json:"availability"`
	ImageURL     string `json:"imageUrl"`
}

type messageJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Controller gates the admin panel and drives its data loads.
type Controller struct {
	client *remote.Client
	authed func() bool

	mu       sync.Mutex
	open     bool
	artworks []artworkJSON
	messages []messageJSON
}

// NewController wires the panel to its data client and the external
// authentication signal. The remote client's fetch gate becomes
// "authenticated and panel open", so a closed or anonymous panel produces
// zero requests.
func NewController(client *remote.Client, authed func() bool) *Controller {
	p := &Controller{client: client, authed: authed}
	client.SetEnabled(func() bool {
		return p.authed() && p.IsOpen()
	})
	return p
}

// Bind subscribes the panel to the app-wide open request.
func (p *Controller) Bind(bus *events.Bus) {
	bus.SubscribeOpenPanel(p.Open)
}

// Open honors the open request only for an authenticated session.
func (p *Controller) Open() {
	if !p.authed() {
		return
	}
	p.mu.Lock()
	p.open = true
	p.mu.Unlock()
}

func (p *Controller) Close() {
	p.mu.Lock()
	p.open = false
	p.mu.Unlock()
}

func (p *Controller) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

// Refresh loads the artwork and message lists through the cache. A closed
// or unauthenticated panel refreshes nothing.
func (p *Controller) Refresh(ctx context.Context) error {
	body, err := p.client.Fetch(ctx, PaintingsPath)
	if err != nil {
		return err
	}
	var artworks []artworkJSON
	if err := json.Unmarshal(body, &artworks); err != nil {
		return fmt.Errorf("panel: decode paintings: %w", err)
	}

	body, err = p.client.Fetch(ctx, MessagesPath)
	if err != nil {
		return err
	}
	var msgs []messageJSON
	if err := json.Unmarshal(body, &msgs); err != nil {
		return fmt.Errorf("panel: decode messages: %w", err)
	}

	p.mu.Lock()
	p.artworks = artworks
	p.messages = msgs
	p.mu.Unlock()
	return nil
}

// View renders the current data. The authentication gate is re-checked on
// every call, not just at open time.
func (p *Controller) View() View {
	if !p.authed() {
		return View{}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.open {
		return View{}
	}

	v := View{Visible: true}

	for _, a := range p.artworks {
		v.Artworks = append(v.Artworks, ArtworkRow{
			ID:           a.ID,
			ThumbnailURL: a.ImageURL,
			Title:        a.Title,
			Year:         a.Year,
			Availability: a.Availability,
		})
	}

	// The server sends newest-first, but sort defensively before
	// truncating to the preview size.
	msgs := make([]messageJSON, len(p.messages))
	copy(msgs, p.messages)
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.After(msgs[j].CreatedAt)
	})
	if len(msgs) > maxPreviewMessages {
		msgs = msgs[:maxPreviewMessages]
	}
	for _, m := range msgs {
		v.Messages = append(v.Messages, MessageRow{
			Sender:    m.Name,
			Email:     m.Email,
			Subject:   m.Subject,
			Preview:   clip(m.Message, messagePreviewLimit),
			CreatedAt: m.CreatedAt,
		})
	}

	return v
}

// Edit replaces a painting via PUT with the same multipart form the
// create endpoint takes, then invalidates the list cache.
func (p *Controller) Edit(ctx context.Context, id, contentType string, body io.Reader) error {
	path := fmt.Sprintf("%s/%s", "/api/admin/paintings", id)
	if _, err := p.client.Mutate(ctx, http.MethodPut, path, contentType, body); err != nil {
		return err
	}
	p.client.Invalidate(PaintingsPath)
	return nil
}

// Delete removes a painting and invalidates the list cache.
func (p *Controller) Delete(ctx context.Context, id string) error {
	path := fmt.Sprintf("%s/%s", "/api/admin/paintings", id)
	if _, err := p.client.Mutate(ctx, http.MethodDelete, path, "", nil); err != nil {
		return err
	}
	p.client.Invalidate(PaintingsPath)
	return nil
}

func clip(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
