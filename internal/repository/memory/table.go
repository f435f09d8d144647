package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/fotosexpress/portal/internal/repository"
)

type row[T any] struct {
	seq uint64
	val T
}

// table is a mutex guarded map that remembers insertion order so listings
// are stable when timestamps collide.
type table[T any] struct {
	mu   sync.RWMutex
	rows map[string]row[T]
	next uint64
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]row[T])}
}

func (t *table[T]) insert(key string, val T) error {
	return t.insertUnique(key, val, nil)
}

// insertUnique rejects val when its key exists or when conflicts reports a clash
// with any stored value.
func (t *table[T]) insertUnique(key string, val T, conflicts func(T) bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.rows[key]; exists {
		return repository.ErrDuplicate
	}
	if conflicts != nil {
		for _, r := range t.rows {
			if conflicts(r.val) {
				return repository.ErrDuplicate
			}
		}
	}
	t.next++
	t.rows[key] = row[T]{seq: t.next, val: val}
	return nil
}

func (t *table[T]) get(key string) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.rows[key]
	if !ok {
		var zero T
		return zero, repository.ErrNotFound
	}
	return r.val, nil
}

// update runs fn on the stored value under the write lock and stores the result.
func (t *table[T]) update(key string, fn func(T) (T, error)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.rows[key]
	if !ok {
		return repository.ErrNotFound
	}
	next, err := fn(r.val)
	if err != nil {
		return err
	}
	r.val = next
	t.rows[key] = r
	return nil
}

func (t *table[T]) remove(key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[key]; !ok {
		return repository.ErrNotFound
	}
	delete(t.rows, key)
	return nil
}

// list returns matching values ordered by creation time, then insertion order.
func (t *table[T]) list(keep func(T) bool, createdAt func(T) time.Time) []T {
	t.mu.RLock()
	matched := make([]row[T], 0, len(t.rows))
	for _, r := range t.rows {
		if keep == nil || keep(r.val) {
			matched = append(matched, r)
		}
	}
	t.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		ci, cj := createdAt(matched[i].val), createdAt(matched[j].val)
		if !ci.Equal(cj) {
			return ci.Before(cj)
		}
		return matched[i].seq < matched[j].seq
	})

	out := make([]T, 0, len(matched))
	for _, r := range matched {
		out = append(out, r.val)
	}
	return out
}

func copyStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return append([]string{}, values...)
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
