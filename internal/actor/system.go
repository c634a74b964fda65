package actor

import (
	"context"
	"errors"
	"sync"
)

// ErrSystemStopped is returned when a message is sent after shutdown
var ErrSystemStopped = errors.New("actor system stopped")

// System routes messages to one stateful mailbox per key. All messages for
// a key are processed sequentially in delivery order by a single worker;
// different keys proceed in parallel. This is the only concurrency control
// for actor state: no caller ever touches a state value directly.
type System[S any] struct {
	mu       sync.Mutex
	boxes    map[string]*mailbox[S]
	newState func(key string) S
	stopped  bool
	wg       sync.WaitGroup
}

type mailbox[S any] struct {
	mu      sync.Mutex
	queue   []func(S)
	running bool
	state   S
}

// NewSystem creates a system whose per-key state is built lazily by
// newState on the first message for that key.
func NewSystem[S any](newState func(key string) S) *System[S] {
	return &System[S]{
		boxes:    make(map[string]*mailbox[S]),
		newState: newState,
	}
}

// Tell enqueues a message for the given key. The message runs on the key's
// single worker; Tell itself never blocks on processing.
func (s *System[S]) Tell(key string, msg func(S)) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return ErrSystemStopped
	}
	box, ok := s.boxes[key]
	if !ok {
		box = &mailbox[S]{state: s.newState(key)}
		s.boxes[key] = box
	}
	s.wg.Add(1)
	s.mu.Unlock()

	box.mu.Lock()
	box.queue = append(box.queue, msg)
	if !box.running {
		box.running = true
		go s.drain(box)
	}
	box.mu.Unlock()

	return nil
}

// drain processes the mailbox until it is empty. Only one drain goroutine
// runs per mailbox at a time, which gives the single-writer guarantee.
func (s *System[S]) drain(box *mailbox[S]) {
	for {
		box.mu.Lock()
		if len(box.queue) == 0 {
			box.running = false
			box.mu.Unlock()
			return
		}
		msg := box.queue[0]
		box.queue = box.queue[1:]
		box.mu.Unlock()

		msg(box.state)
		s.wg.Done()
	}
}

// Stop rejects new messages and waits for every queued message to finish
func (s *System[S]) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.wg.Wait()
}

// Ask delivers fn to the key's worker and waits for its reply
func Ask[S, R any](ctx context.Context, s *System[S], key string, fn func(S) R) (R, error) {
	var zero R
	reply := make(chan R, 1)
	if err := s.Tell(key, func(state S) {
		reply <- fn(state)
	}); err != nil {
		return zero, err
	}
	select {
	case r := <-reply:
		return r, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
