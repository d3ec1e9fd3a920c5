package dispatch

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Serial.Do after Close.
var ErrClosed = errors.New("dispatch: executor closed")

// Immediate runs fn inline on the calling goroutine.
type Immediate struct{}

// Do implements Executor.
func (Immediate) Do(ctx context.Context, fn func(context.Context)) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			err = recovered(r)
		}
	}()
	fn(ctx)
	return nil
}

// Pool runs work on at most n concurrent goroutines.
type Pool struct {
	sem chan struct{}
}

// NewPool creates a Pool with n slots (minimum 1).
func NewPool(n int) *Pool {
	if n < 1 {
		n = 1
	}
	return &Pool{sem: make(chan struct{}, n)}
}

// Do implements Executor.
func (p *Pool) Do(ctx context.Context, fn func(context.Context)) error {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	done := make(chan error, 1)
	go func() {
		var err error
		defer func() {
			<-p.sem
			done <- err
		}()
		defer func() {
			if r := recover(); r != nil {
				err = recovered(r)
			}
		}()
		fn(ctx)
	}()
	return <-done
}

// Serial runs work one item at a time, in submission order, on a single
// goroutine. fn must not call Do on the same Serial.
type Serial struct {
	tasks     chan func()
	done      chan struct{}
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// NewSerial starts the Serial goroutine.
func NewSerial() *Serial {
	s := &Serial{
		tasks: make(chan func(), 64),
		done:  make(chan struct{}),
	}
	go s.loop()
	return s
}

func (s *Serial) loop() {
	defer close(s.done)
	for task := range s.tasks {
		task()
	}
}

// Do implements Executor.
func (s *Serial) Do(ctx context.Context, fn func(context.Context)) error {
	result := make(chan error, 1)
	task := func() {
		var err error
		defer func() {
			if r := recover(); r != nil {
				err = recovered(r)
			}
			result <- err
		}()
		fn(ctx)
	}

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrClosed
	}
	select {
	case s.tasks <- task:
		s.mu.RUnlock()
	case <-ctx.Done():
		s.mu.RUnlock()
		return ctx.Err()
	}
	// Queued work always runs, Close drains it.
	return <-result
}

// Close drains queued work and stops the goroutine. It is safe to call more
// than once.
func (s *Serial) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.tasks)
		s.mu.Unlock()
		<-s.done
	})
}
