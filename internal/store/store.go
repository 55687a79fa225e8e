// Package store holds the application state and the pure reducer that
// moves it from one snapshot to the next.
package store

import (
	"reflect"
	"sync"
)

// Option configures a Store.
type Option func(*Store)

// WithObserver registers fn to be told about every dispatched action,
// whether or not it changed anything.
func WithObserver(fn func(ActionType)) Option {
	return func(s *Store) {
		s.observers = append(s.observers, fn)
	}
}

type subscription struct {
	id int
	fn func(AppState)
}

// Store is the shared application state. Reads return snapshots; the only
// way to change state is Dispatch.
type Store struct {
	mu        sync.RWMutex
	state     AppState
	version   uint64
	subs      []subscription
	nextSub   int
	observers []func(ActionType)
}

func New(initial AppState, opts ...Option) *Store {
	s := &Store{state: initial}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current snapshot.
func (s *Store) State() AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Version increases by one on every dispatch that changed the state.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Dispatch reduces a into the state and notifies subscribers if the state
// changed. Subscribers run after the lock is released, in subscription order.
func (s *Store) Dispatch(a Action) AppState {
	s.mu.Lock()
	before := s.state
	next := Reduce(before, a)
	changed := !sameState(before, next)
	if changed {
		s.state = next
		s.version++
	}
	subs := append([]subscription(nil), s.subs...)
	observers := s.observers
	s.mu.Unlock()

	for _, fn := range observers {
		fn(a.Type())
	}
	if changed {
		for _, sub := range subs {
			sub.fn(next)
		}
	}
	return next
}

// Subscribe calls fn after every state change until the returned function
// is called.
func (s *Store) Subscribe(fn func(AppState)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func sameState(a, b AppState) bool {
	return reflect.DeepEqual(a, b)
}
