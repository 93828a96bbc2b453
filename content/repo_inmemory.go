package content

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	perrors "github.com/jrsteele09/go-portfolio-client/internal/errors"
)

var _ Repo[struct{}] = (*InMemoryRepo[struct{}])(nil)

// InMemoryRepo keeps records in insertion order. List returns them sorted by
// less when one is set.
type InMemoryRepo[T any] struct {
	mu       sync.RWMutex
	identity Identity[T]
	less     func(a, b T) bool
	order    []string
	items    map[string]T
}

type InMemoryOption[T any] func(*InMemoryRepo[T])

// WithOrder sorts List results.
func WithOrder[T any](less func(a, b T) bool) InMemoryOption[T] {
	return func(r *InMemoryRepo[T]) {
		r.less = less
	}
}

func NewInMemoryRepo[T any](identity Identity[T], options ...InMemoryOption[T]) *InMemoryRepo[T] {
	r := &InMemoryRepo[T]{
		identity: identity,
		items:    make(map[string]T),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *InMemoryRepo[T]) List() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]T, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	if r.less != nil {
		sort.SliceStable(out, func(i, j int) bool { return r.less(out[i], out[j]) })
	}
	return out
}

func (r *InMemoryRepo[T]) Get(id string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		var zero T
		return zero, perrors.Wrapf(perrors.ErrNotFound, "id %s", id)
	}
	return item, nil
}

func (r *InMemoryRepo[T]) Create(item T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.identity.ID(item)
	if id == "" {
		id = uuid.New().String()
		r.identity.SetID(&item, id)
	}
	if _, exists := r.items[id]; exists {
		var zero T
		return zero, perrors.Wrapf(perrors.ErrConflict, "id %s", id)
	}
	r.items[id] = item
	r.order = append(r.order, id)
	return item, nil
}

func (r *InMemoryRepo[T]) Update(id string, item T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		var zero T
		return zero, perrors.Wrapf(perrors.ErrNotFound, "id %s", id)
	}
	r.identity.SetID(&item, id)
	r.items[id] = item
	return item, nil
}

func (r *InMemoryRepo[T]) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return perrors.Wrapf(perrors.ErrNotFound, "id %s", id)
	}
	delete(r.items, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *InMemoryRepo[T]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func (r *InMemoryRepo[T]) Reorder(ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := r.items[id]; !ok {
			return perrors.Wrapf(perrors.ErrNotFound, "id %s", id)
		}
		if seen[id] {
			return perrors.Wrapf(perrors.ErrInvalidRequest, "id %s listed twice", id)
		}
		seen[id] = true
	}

	order := make([]string, 0, len(r.order))
	order = append(order, ids...)
	for _, id := range r.order {
		if !seen[id] {
			order = append(order, id)
		}
	}
	r.order = order
	return nil
}
