// ABOUTME: Per-key in-flight guard used to drop duplicate requests.
// ABOUTME: A key is held from Acquire until its release func runs.
package inflight

import "sync"

// Guard tracks keys with an operation in progress.
type Guard struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

// New returns an empty guard.
func New() *Guard {
	return &Guard{busy: make(map[string]struct{})}
}

// Acquire marks key as in flight. It returns ok=false without blocking when
// key is already held. The release func is idempotent.
func (g *Guard) Acquire(key string) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, held := g.busy[key]; held {
		return func() {}, false
	}
	g.busy[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.busy, key)
			g.mu.Unlock()
		})
	}, true
}

// Busy reports whether key is currently held.
func (g *Guard) Busy(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, held := g.busy[key]
	return held
}
