package fillin

import (
	"sync"
	"time"
)

// Registry holds the open editors, one per session and brief.
type Registry struct {
	mu      sync.Mutex
	editors map[string]*Editor
}

func NewRegistry() *Registry {
	return &Registry{editors: map[string]*Editor{}}
}

func registryKey(sessionID, briefID string) string {
	return sessionID + "/" + briefID
}

func (r *Registry) Get(sessionID, briefID string) (*Editor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.editors[registryKey(sessionID, briefID)]
	return e, ok
}

// GetOrPut stores e unless an editor is already registered for the pair,
// and returns whichever editor is registered afterwards. loaded reports
// whether that was an existing one.
func (r *Registry) GetOrPut(sessionID, briefID string, e *Editor) (editor *Editor, loaded bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := registryKey(sessionID, briefID)
	if existing, ok := r.editors[key]; ok {
		return existing, true
	}
	r.editors[key] = e
	return e, false
}

func (r *Registry) Remove(sessionID, briefID string) {
	r.mu.Lock()
	delete(r.editors, registryKey(sessionID, briefID))
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.editors)
}

// Evict drops editors unused for longer than idle and returns how many.
func (r *Registry) Evict(idle time.Duration, now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for key, e := range r.editors {
		if now.Sub(e.LastUsed()) > idle {
			delete(r.editors, key)
			evicted++
		}
	}
	return evicted
}
