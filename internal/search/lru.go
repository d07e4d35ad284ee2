package search

import (
	"container/list"
	"sync"
)

// lru is a small least-recently-used cache for final result arrays. It is
// safe for concurrent use; overlapping passes may publish results for their
// own keys without coordination.
type lru[K comparable, V any] struct {
	items    map[K]*list.Element
	order    *list.List
	capacity int
	mu       sync.Mutex
}

type lruEntry[K comparable, V any] struct {
	key K
	val V
}

func newLRU[K comparable, V any](capacity int) *lru[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &lru[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element, capacity),
		order:    list.New(),
	}
}

func (l *lru[K, V]) Get(key K) (V, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if elem, ok := l.items[key]; ok {
		l.order.MoveToFront(elem)
		return elem.Value.(*lruEntry[K, V]).val, true
	}
	var zero V
	return zero, false
}

func (l *lru[K, V]) Put(key K, val V) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if elem, ok := l.items[key]; ok {
		elem.Value.(*lruEntry[K, V]).val = val
		l.order.MoveToFront(elem)
		return
	}

	for l.order.Len() >= l.capacity {
		back := l.order.Back()
		if back == nil {
			break
		}
		entry := back.Value.(*lruEntry[K, V])
		l.order.Remove(back)
		delete(l.items, entry.key)
	}

	l.items[key] = l.order.PushFront(&lruEntry[K, V]{key: key, val: val})
}

func (l *lru[K, V]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.order.Len()
}

func (l *lru[K, V]) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = make(map[K]*list.Element, l.capacity)
	l.order.Init()
}
