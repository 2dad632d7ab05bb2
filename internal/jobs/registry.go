package jobs

import (
	"context"
	"sort"
	"sync"

	"github.com/alexanderramin/reviewagenda/internal/db"
	"github.com/alexanderramin/reviewagenda/internal/domain"
	"github.com/alexanderramin/reviewagenda/internal/txscope"
)

// Handler runs one job inside its own transaction. scope is fresh for every
// job.
type Handler func(ctx context.Context, tx db.DBTX, scope *txscope.Scope, job *domain.Job) error

// Registry maps task names to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds h to taskName, replacing any earlier handler.
func (r *Registry) Register(taskName string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[taskName] = h
}

func (r *Registry) Lookup(taskName string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[taskName]
	return h, ok
}

// Tasks returns the registered task names, sorted.
func (r *Registry) Tasks() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
