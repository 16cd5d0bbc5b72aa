package async_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/five82/roster/internal/async"
	"github.com/five82/roster/internal/placeholder"
)

type user struct {
	ID   int
	Name string
}

func wait(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("attempt did not settle")
	}
}

func TestRequest_StartsIdle(t *testing.T) {
	r := async.New(context.Background(), func(context.Context) (user, error) {
		return user{}, nil
	}, async.Options[user]{})

	want := async.State[user]{Status: async.StatusIdle}
	if diff := cmp.Diff(want, r.State()); diff != "" {
		t.Fatalf("initial state mismatch (-want +got):\n%s", diff)
	}
}

func TestRequest_RunImmediatelySuccess(t *testing.T) {
	release := make(chan struct{})
	succeeded := make(chan user, 1)
	var errCalls atomic.Int32

	r := async.New(context.Background(), func(context.Context) (user, error) {
		<-release
		return user{ID: 1, Name: "Leanne Graham"}, nil
	}, async.Options[user]{
		RunImmediately: true,
		OnSuccess:      func(u user) { succeeded <- u },
		OnError:        func(string) { errCalls.Add(1) },
	})

	if s := r.State(); s.Status != async.StatusLoading || !s.Loading() {
		t.Fatalf("status = %q, want loading before the producer resolves", s.Status)
	}
	close(release)

	var got user
	select {
	case got = <-succeeded:
	case <-time.After(2 * time.Second):
		t.Fatalf("OnSuccess was not called")
	}

	want := async.State[user]{
		Data:    user{ID: 1, Name: "Leanne Graham"},
		HasData: true,
		Status:  async.StatusSuccess,
	}
	if diff := cmp.Diff(want, r.State()); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
	if got.Name != "Leanne Graham" {
		t.Fatalf("OnSuccess got %#v", got)
	}
	if errCalls.Load() != 0 {
		t.Fatalf("OnError called %d times, want 0", errCalls.Load())
	}
}

func TestRequest_FailureUsesNormalizedMessage(t *testing.T) {
	var gotMsg string
	r := async.New(context.Background(), func(context.Context) (user, error) {
		return user{}, &placeholder.APIError{Kind: placeholder.KindNetwork, Message: "Network error", Details: "dial tcp: refused"}
	}, async.Options[user]{OnError: func(msg string) { gotMsg = msg }})

	wait(t, r.Execute(context.Background()))

	want := async.State[user]{Status: async.StatusError, Err: "Network error"}
	if diff := cmp.Diff(want, r.State()); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
	if !r.State().Failed() {
		t.Fatalf("Failed() = false")
	}
	if gotMsg != "Network error" {
		t.Fatalf("OnError message = %q", gotMsg)
	}
}

func TestRequest_FailureKeepsPreviousData(t *testing.T) {
	fail := false
	r := async.New(context.Background(), func(context.Context) (user, error) {
		if fail {
			return user{}, errors.New("boom")
		}
		return user{ID: 7}, nil
	}, async.Options[user]{})

	wait(t, r.Execute(context.Background()))
	fail = true
	done := r.Execute(context.Background())
	if s := r.State(); s.Status != async.StatusLoading || s.Err != "" {
		t.Fatalf("state after Execute = %#v, want loading with no error", s)
	}
	wait(t, done)

	want := async.State[user]{Data: user{ID: 7}, HasData: true, Status: async.StatusError, Err: "boom"}
	if diff := cmp.Diff(want, r.State()); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestRequest_LastIssuedAttemptWins(t *testing.T) {
	slowRelease := make(chan struct{})
	var calls atomic.Int32
	var successes atomic.Int32
	var slowCancelled atomic.Bool

	r := async.New(context.Background(), func(ctx context.Context) (user, error) {
		n := calls.Add(1)
		if n == 1 {
			<-slowRelease
			slowCancelled.Store(ctx.Err() != nil)
			return user{ID: 1, Name: "stale"}, nil
		}
		return user{ID: 2, Name: "fresh"}, nil
	}, async.Options[user]{OnSuccess: func(user) { successes.Add(1) }})

	first := r.Execute(context.Background())
	second := r.Execute(context.Background())
	wait(t, second)

	close(slowRelease)
	wait(t, first)

	if got := r.State().Data.Name; got != "fresh" {
		t.Fatalf("Data.Name = %q, want fresh (superseded result must be dropped)", got)
	}
	if successes.Load() != 1 {
		t.Fatalf("OnSuccess called %d times, want 1", successes.Load())
	}
	if !slowCancelled.Load() {
		t.Fatalf("superseded attempt context was not cancelled")
	}
}

func TestRequest_ResetDropsInFlightAttempt(t *testing.T) {
	release := make(chan struct{})
	var callbacks atomic.Int32

	r := async.New(context.Background(), func(context.Context) (user, error) {
		<-release
		return user{ID: 3}, nil
	}, async.Options[user]{
		OnSuccess: func(user) { callbacks.Add(1) },
		OnError:   func(string) { callbacks.Add(1) },
	})

	done := r.Execute(context.Background())
	r.Reset()
	close(release)
	wait(t, done)

	want := async.State[user]{Status: async.StatusIdle}
	if diff := cmp.Diff(want, r.State()); diff != "" {
		t.Fatalf("state after reset mismatch (-want +got):\n%s", diff)
	}
	if callbacks.Load() != 0 {
		t.Fatalf("callbacks fired %d times after Reset, want 0", callbacks.Load())
	}
}

func TestRequest_ResetClearsData(t *testing.T) {
	r := async.New(context.Background(), func(context.Context) (user, error) {
		return user{ID: 9}, nil
	}, async.Options[user]{})
	wait(t, r.Execute(context.Background()))
	r.Reset()

	if diff := cmp.Diff(async.State[user]{Status: async.StatusIdle}, r.State()); diff != "" {
		t.Fatalf("state after reset mismatch (-want +got):\n%s", diff)
	}
}

func TestRequest_PanicBecomesError(t *testing.T) {
	r := async.New(context.Background(), func(context.Context) (user, error) {
		panic("kaboom")
	}, async.Options[user]{})
	wait(t, r.Execute(context.Background()))

	if s := r.State(); s.Status != async.StatusError || s.Err == "" {
		t.Fatalf("state = %#v, want error", s)
	}
}

type blankUserMessage struct{}

func (blankUserMessage) Error() string       { return "raw text" }
func (blankUserMessage) UserMessage() string { return "" }

type blankError struct{}

func (blankError) Error() string { return "" }

func TestMessage(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", errors.New("boom"), "boom"},
		{"api error", &placeholder.APIError{Message: "HTTP 404 Not Found"}, "HTTP 404 Not Found"},
		{"wrapped api error", errors.Join(errors.New("outer"), &placeholder.APIError{Message: "Request timeout"}), "Request timeout"},
		{"blank user message", blankUserMessage{}, "raw text"},
		{"blank error", blankError{}, async.FallbackMessage},
	}
	for _, tc := range cases {
		if got := async.Message(tc.err); got != tc.want {
			t.Fatalf("%s: Message() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestRequest_DoneTracksLatestAttempt(t *testing.T) {
	release := make(chan struct{})
	r := async.New(context.Background(), func(context.Context) (user, error) {
		<-release
		return user{ID: 5}, nil
	}, async.Options[user]{})

	select {
	case <-r.Done():
	default:
		t.Fatalf("Done() should be closed before any attempt")
	}

	done := r.Execute(context.Background())
	if r.Done() != done {
		t.Fatalf("Done() should return the latest attempt's channel")
	}
	select {
	case <-r.Done():
		t.Fatalf("Done() closed while the attempt is still running")
	default:
	}
	close(release)
	wait(t, r.Done())
	if r.State().Data.ID != 5 {
		t.Fatalf("Data = %#v", r.State().Data)
	}
}
