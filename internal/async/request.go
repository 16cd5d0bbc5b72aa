package async

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Status is the lifecycle phase of a Request.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// FallbackMessage is reported for failures that carry no text.
const FallbackMessage = "An unexpected error occurred"

// Producer performs the asynchronous operation. It should honour ctx; a
// superseded or reset attempt has its context cancelled.
type Producer[T any] func(ctx context.Context) (T, error)

// Options configure a Request.
type Options[T any] struct {
	RunImmediately bool
	OnSuccess      func(T)
	OnError        func(message string)
}

// State is a point-in-time copy of a Request.
type State[T any] struct {
	Data    T
	HasData bool
	Status  Status
	Err     string
}

// Loading reports whether an attempt is in flight.
func (s State[T]) Loading() bool { return s.Status == StatusLoading }

// Failed reports whether the last settled attempt failed.
func (s State[T]) Failed() bool { return s.Status == StatusError }

// Request tracks one asynchronous operation through idle, loading, success
// and error. Only the most recently issued attempt may write state; earlier
// attempts are cancelled and their results dropped.
type Request[T any] struct {
	producer Producer[T]
	opts     Options[T]

	mu     sync.RWMutex
	state  State[T]
	seq    uint64
	cancel context.CancelFunc
	done   chan struct{}
}

// New builds a Request in the idle state. When opts.RunImmediately is set the
// first attempt starts before New returns, under ctx.
func New[T any](ctx context.Context, producer Producer[T], opts Options[T]) *Request[T] {
	r := &Request[T]{
		producer: producer,
		opts:     opts,
		state:    State[T]{Status: StatusIdle},
	}
	if opts.RunImmediately {
		r.Execute(ctx)
	}
	return r
}

// Execute starts a new attempt. The status is Loading and the error cleared
// when Execute returns. The returned channel is closed once the attempt has
// settled, whether its result was recorded or discarded.
func (r *Request[T]) Execute(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	attemptCtx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.seq++
	seq := r.seq
	r.cancel = cancel
	r.done = done
	r.state.Status = StatusLoading
	r.state.Err = ""
	r.mu.Unlock()

	go r.run(attemptCtx, cancel, seq, done)
	return done
}

// Reset returns the Request to idle and drops any in-flight attempt.
func (r *Request[T]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.state = State[T]{Status: StatusIdle}
}

// Done returns the settle channel of the most recently issued attempt. It is
// already closed when no attempt was ever started.
func (r *Request[T]) Done() <-chan struct{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.done == nil {
		return closedChan
	}
	return r.done
}

// State returns a copy of the current state.
func (r *Request[T]) State() State[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

func (r *Request[T]) run(ctx context.Context, cancel context.CancelFunc, seq uint64, done chan struct{}) {
	defer close(done)
	defer cancel()

	data, err := r.produce(ctx)

	r.mu.Lock()
	if seq != r.seq {
		r.mu.Unlock()
		return
	}
	r.cancel = nil

	if err != nil {
		msg := Message(err)
		r.state.Status = StatusError
		r.state.Err = msg
		onError := r.opts.OnError
		r.mu.Unlock()
		if onError != nil {
			onError(msg)
		}
		return
	}

	r.state.Data = data
	r.state.HasData = true
	r.state.Status = StatusSuccess
	onSuccess := r.opts.OnSuccess
	r.mu.Unlock()
	if onSuccess != nil {
		onSuccess(data)
	}
}

func (r *Request[T]) produce(ctx context.Context) (data T, err error) {
	defer func() {
		if p := recover(); p != nil {
			var zero T
			data, err = zero, fmt.Errorf("producer panic: %v", p)
		}
	}()
	if r.producer == nil {
		return data, errors.New("no producer configured")
	}
	return r.producer(ctx)
}

type userMessager interface {
	UserMessage() string
}

// Message extracts the display text for err. Errors that provide a
// UserMessage win; otherwise the error text is used.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var um userMessager
	if errors.As(err, &um) {
		if msg := um.UserMessage(); strings.TrimSpace(msg) != "" {
			return msg
		}
	}
	if msg := err.Error(); strings.TrimSpace(msg) != "" {
		return msg
	}
	return FallbackMessage
}
