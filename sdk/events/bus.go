// Package events carries the one application-wide signal the backoffice
// reacts to: a request to open the admin panel. The bus is typed and
// payload-free on purpose, replacing the usual implicit global listener.
package events

import "sync"

// Bus delivers the open-panel signal to any number of subscribers.
type Bus struct {
	mu   sync.Mutex
	subs []func()
}

func NewBus() *Bus {
	return &Bus{}
}

// SubscribeOpenPanel registers fn to run on every open-panel request.
func (b *Bus) SubscribeOpenPanel(fn func()) {
	b.mu.Lock()
	b.subs = append(b.subs, fn)
	b.mu.Unlock()
}

// PublishOpenPanel requests that the admin panel open. Subscribers run
// synchronously on the caller's goroutine, matching a UI event loop.
func (b *Bus) PublishOpenPanel() {
	b.mu.Lock()
	subs := make([]func(), len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}
