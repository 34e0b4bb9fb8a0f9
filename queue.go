package termwin

import "sync"

// controlQueue is the FIFO of pending results. Push is safe from any
// goroutine; take and isEmpty belong to the single owning goroutine.
// The Changed-collapse rule lives in the drain loop, not here: the
// queue never drops an entry.
type controlQueue[E any] struct {
	mu    sync.Mutex
	items []Result[E]
}

func newControlQueue[E any]() *controlQueue[E] {
	return &controlQueue[E]{}
}

func (q *controlQueue[E]) push(r Result[E]) {
	q.mu.Lock()
	q.items = append(q.items, r)
	q.mu.Unlock()
}

func (q *controlQueue[E]) take() (Result[E], bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return Result[E]{}, false
	}
	r := q.items[0]
	q.items[0] = Result[E]{}
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return r, true
}

func (q *controlQueue[E]) isEmpty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) == 0
}
