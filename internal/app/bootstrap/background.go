// internal/app/bootstrap/background.go
package bootstrap

import "sync"

// background collects stop functions for goroutines started while building
// the handler, so Shutdown can end them.
type background struct {
	mu    sync.Mutex
	stops []func()
}

var running background

func (b *background) add(stop func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stops = append(b.stops, stop)
}

// stopAll runs every registered stop function once and forgets them.
func (b *background) stopAll() int {
	b.mu.Lock()
	stops := b.stops
	b.stops = nil
	b.mu.Unlock()

	for _, stop := range stops {
		stop()
	}
	return len(stops)
}

func (b *background) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.stops)
}
