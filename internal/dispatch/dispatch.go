// Package dispatch decides where work runs.
//
// A Policy exposes three executors: IO for blocking network and database
// calls, Default for lightweight in-process work, and Main for publishing
// state to observers. Components receive a Policy at construction; tests pass
// Synchronous() so every call completes on the calling goroutine.
package dispatch

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
)

// Executor runs fn somewhere and waits for it to finish. Do returns
// ctx.Err() only when ctx is done before fn is started. Once started, fn
// receives the same ctx, is expected to observe the cancellation itself, and
// Do waits for it to return.
type Executor interface {
	Do(ctx context.Context, fn func(context.Context)) error
}

// Policy names the execution contexts used by the repository and the
// refresh controller.
type Policy interface {
	IO() Executor
	Default() Executor
	Main() Executor
}

// PanicError carries a panic recovered inside an executor.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("dispatch: panic: %v", e.Value)
}

// Call runs fn on ex and returns its result.
func Call[T any](ctx context.Context, ex Executor, fn func(context.Context) (T, error)) (T, error) {
	var (
		out    T
		runErr error
	)
	if err := ex.Do(ctx, func(ctx context.Context) {
		out, runErr = fn(ctx)
	}); err != nil {
		var zero T
		return zero, err
	}
	return out, runErr
}

type policy struct {
	io, def, main Executor
}

func (p policy) IO() Executor      { return p.io }
func (p policy) Default() Executor { return p.def }
func (p policy) Main() Executor    { return p.main }

// New builds a Policy from explicit executors.
func New(io, def, main Executor) Policy {
	return policy{io: io, def: def, main: main}
}

const defaultIOWorkers = 3

// Standard returns the production policy: a bounded IO pool, a Default pool
// sized to GOMAXPROCS and a serial Main executor. The returned stop function
// shuts the Main executor down.
func Standard(ioWorkers int) (Policy, func()) {
	if ioWorkers <= 0 {
		ioWorkers = defaultIOWorkers
	}
	main := NewSerial()
	return New(NewPool(ioWorkers), NewPool(runtime.GOMAXPROCS(0)), main), main.Close
}

// Synchronous returns a policy whose executors all run inline.
func Synchronous() Policy {
	return New(Immediate{}, Immediate{}, Immediate{})
}

func recovered(v any) error {
	return &PanicError{Value: v, Stack: debug.Stack()}
}
