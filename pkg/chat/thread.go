package chat

import (
	"sync"

	"github.com/google/uuid"
)

// ThreadIdentity tracks the correlation id binding a multi-turn
// conversation. The first id adopted from the backend wins and stays
// immutable until the caller explicitly starts a new conversation.
type ThreadIdentity struct {
	mu      sync.Mutex
	id      string
	adopted bool
}

func NewThreadIdentity() *ThreadIdentity {
	return &ThreadIdentity{}
}

// CurrentID returns the current thread id, empty if none is set yet
func (t *ThreadIdentity) CurrentID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.id
}

// Adopt records the backend-supplied thread id. First writer wins: once a
// backend id has been adopted, later ids are ignored until NewThread
// resets the latch. Returns whether the id was applied.
func (t *ThreadIdentity) Adopt(id string) bool {
	if id == "" {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.adopted {
		return false
	}
	t.id = id
	t.adopted = true
	return true
}

// NewThread assigns a fresh locally generated thread id for an explicitly
// started conversation. The backend may still replace it on the first
// adopt of the new conversation.
func (t *ThreadIdentity) NewThread() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.id = uuid.NewString()
	t.adopted = false
	return t.id
}
