package binding

import "sync"

// Subscription releases an observer registered on a Subject. Unsubscribe is
// idempotent.
type Subscription interface {
	Unsubscribe()
}

type subscription struct {
	once sync.Once
	fn   func()
}

func (s *subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.fn)
}

type observer[T any] struct {
	id int
	fn func(T)
}

// Subject fans values out to observers in subscription order. Observers run
// synchronously on the goroutine calling Next, outside the subject's lock, so
// they may subscribe, unsubscribe or publish re-entrantly.
type Subject[T any] struct {
	mu        sync.Mutex
	nextID    int
	observers []observer[T]
	closed    bool
}

// NewSubject constructs an open subject.
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{}
}

// Subscribe registers fn. Subscribing to a closed subject returns a no-op
// subscription.
func (s *Subject[T]) Subscribe(fn func(T)) Subscription {
	if s == nil || fn == nil {
		return &subscription{fn: func() {}}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return &subscription{fn: func() {}}
	}
	id := s.nextID
	s.nextID++
	s.observers = append(s.observers, observer[T]{id: id, fn: fn})
	return &subscription{fn: func() { s.remove(id) }}
}

// Next delivers value to every current observer.
func (s *Subject[T]) Next(value T) {
	if s == nil {
		return
	}
	s.mu.Lock()
	if s.closed || len(s.observers) == 0 {
		s.mu.Unlock()
		return
	}
	observers := append([]observer[T](nil), s.observers...)
	s.mu.Unlock()

	for _, obs := range observers {
		obs.fn(value)
	}
}

// Close drops every observer; later Next calls are ignored.
func (s *Subject[T]) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.observers = nil
}

// Len reports the number of active observers.
func (s *Subject[T]) Len() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}

func (s *Subject[T]) remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for idx, obs := range s.observers {
		if obs.id == id {
			s.observers = append(s.observers[:idx:idx], s.observers[idx+1:]...)
			return
		}
	}
}
