package tracking

import (
	"container/list"
	"context"
	"sync"
)

// DefaultMaxPoints is the number of points kept per order.
const DefaultMaxPoints = 1000

// LocationStore keeps the recent positions of each freight order.
type LocationStore interface {
	Push(ctx context.Context, p Point) error
	// Latest returns nil when the order has no position.
	Latest(ctx context.Context, foID string) (*Point, error)
	// History returns at most limit points, oldest first.
	History(ctx context.Context, foID string, limit int) ([]Point, error)
}

type ring struct {
	points []Point
	start  int
	size   int
	elem   *list.Element
}

func (r *ring) push(p Point) {
	if r.size < len(r.points) {
		r.points[(r.start+r.size)%len(r.points)] = p
		r.size++
		return
	}
	r.points[r.start] = p
	r.start = (r.start + 1) % len(r.points)
}

func (r *ring) last(n int) []Point {
	if n > r.size {
		n = r.size
	}
	if n < 0 {
		n = 0
	}
	out := make([]Point, n)
	for i := 0; i < n; i++ {
		out[i] = r.points[(r.start+r.size-n+i)%len(r.points)]
	}
	return out
}

// MemoryStore is an in-process LocationStore. Each order holds a fixed-size
// ring of points. With maxOrders set, the least recently updated order is
// dropped to make room for a new one.
type MemoryStore struct {
	mu        sync.RWMutex
	maxPoints int
	maxOrders int
	orders    map[string]*ring
	// recency holds order ids, most recently updated at the front.
	recency *list.List
}

// NewMemoryStore creates a store. maxOrders of zero means unbounded.
func NewMemoryStore(maxPoints, maxOrders int) *MemoryStore {
	if maxPoints <= 0 {
		maxPoints = DefaultMaxPoints
	}
	if maxOrders < 0 {
		maxOrders = 0
	}
	return &MemoryStore{
		maxPoints: maxPoints,
		maxOrders: maxOrders,
		orders:    make(map[string]*ring),
		recency:   list.New(),
	}
}

// Push implements LocationStore.
func (s *MemoryStore) Push(_ context.Context, p Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.orders[p.FoID]
	if !ok {
		if s.maxOrders > 0 && len(s.orders) >= s.maxOrders {
			s.evictOldest()
		}
		r = &ring{points: make([]Point, s.maxPoints)}
		r.elem = s.recency.PushFront(p.FoID)
		s.orders[p.FoID] = r
	} else {
		s.recency.MoveToFront(r.elem)
	}
	r.push(p)
	return nil
}

// Latest implements LocationStore.
func (s *MemoryStore) Latest(_ context.Context, foID string) (*Point, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.orders[foID]
	if !ok || r.size == 0 {
		return nil, nil
	}
	p := r.last(1)[0]
	return &p, nil
}

// History implements LocationStore.
func (s *MemoryStore) History(_ context.Context, foID string, limit int) ([]Point, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.orders[foID]
	if !ok {
		return []Point{}, nil
	}
	return r.last(limit), nil
}

// Len returns the number of tracked orders.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

func (s *MemoryStore) evictOldest() {
	back := s.recency.Back()
	if back == nil {
		return
	}
	s.recency.Remove(back)
	delete(s.orders, back.Value.(string))
}
