package racer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phorde/freefleet/internal/core/domain"
)

func sleepExec(delays map[string]time.Duration, fail map[string]error) Executor {
	return func(ctx context.Context, id string) (interface{}, error) {
		select {
		case <-time.After(delays[id]):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if err, ok := fail[id]; ok {
			return nil, err
		}
		return "result:" + id, nil
	}
}

func TestRaceFirstSuccessWins(t *testing.T) {
	r := New()
	exec := sleepExec(map[string]time.Duration{
		"p/slow":   80 * time.Millisecond,
		"p/fast":   10 * time.Millisecond,
		"p/medium": 40 * time.Millisecond,
	}, nil)

	outcome, err := r.Race(context.Background(), []string{"p/slow", "p/fast", "p/medium"}, exec, Options{})
	require.NoError(t, err)
	assert.Equal(t, "p/fast", outcome.Candidate)
	assert.Equal(t, "result:p/fast", outcome.Result)
	assert.Greater(t, outcome.Duration, time.Duration(0))
}

func TestRaceEmptyCandidates(t *testing.T) {
	r := New()
	called := false
	_, err := r.Race(context.Background(), nil, func(ctx context.Context, id string) (interface{}, error) {
		called = true
		return nil, nil
	}, Options{})
	assert.ErrorIs(t, err, domain.ErrNoCandidates)
	assert.False(t, called)
}

func TestRaceAllFailEnumeratesEveryCandidate(t *testing.T) {
	r := New()
	exec := func(ctx context.Context, id string) (interface{}, error) {
		return nil, errors.New("refused: " + id)
	}

	_, err := r.Race(context.Background(), []string{"a/x", "b/y", "c/z"}, exec, Options{Name: "doomed"})
	require.Error(t, err)

	var raceErr *domain.RaceError
	require.ErrorAs(t, err, &raceErr)
	assert.Len(t, raceErr.Failures, 3)
	assert.Contains(t, err.Error(), "a/x")
	assert.Contains(t, err.Error(), "b/y")
	assert.Contains(t, err.Error(), "c/z")
}

func TestRaceCandidateTimeoutIsPerCandidate(t *testing.T) {
	r := New()
	exec := sleepExec(map[string]time.Duration{
		"p/hung": 500 * time.Millisecond,
		"p/ok":   10 * time.Millisecond,
	}, nil)

	outcome, err := r.Race(context.Background(), []string{"p/hung", "p/ok"}, exec, Options{
		Timeout: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.Equal(t, "p/ok", outcome.Candidate)
}

func TestRaceTimeoutNamedInFailure(t *testing.T) {
	r := New()
	exec := sleepExec(map[string]time.Duration{"p/hung": 500 * time.Millisecond}, nil)

	_, err := r.Race(context.Background(), []string{"p/hung"}, exec, Options{
		Timeout: 30 * time.Millisecond,
	})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "timed out"))
}

func TestRaceLosersAreCancelled(t *testing.T) {
	r := New()
	var mu sync.Mutex
	cancelled := false

	exec := func(ctx context.Context, id string) (interface{}, error) {
		if id == "p/fast" {
			return "ok", nil
		}
		<-ctx.Done()
		mu.Lock()
		cancelled = true
		mu.Unlock()
		return nil, ctx.Err()
	}

	outcome, err := r.Race(context.Background(), []string{"p/loser", "p/fast"}, exec, Options{})
	require.NoError(t, err)
	assert.Equal(t, "p/fast", outcome.Candidate)

	// Race waits for losers to acknowledge cancellation before returning.
	mu.Lock()
	defer mu.Unlock()
	assert.True(t, cancelled)
}

func TestProgressCallback(t *testing.T) {
	r := New()
	var mu sync.Mutex
	stages := map[string][]Stage{}

	exec := func(ctx context.Context, id string) (interface{}, error) {
		if id == "p/bad" {
			return nil, errors.New("nope")
		}
		time.Sleep(20 * time.Millisecond)
		return "ok", nil
	}

	_, err := r.Race(context.Background(), []string{"p/bad", "p/good"}, exec, Options{
		OnProgress: func(id string, stage Stage, err error) {
			mu.Lock()
			stages[id] = append(stages[id], stage)
			mu.Unlock()
		},
	})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Stage{StageStarted, StageFailed}, stages["p/bad"])
	assert.Equal(t, []Stage{StageStarted, StageCompleted}, stages["p/good"])
}

func TestProgressPanicDoesNotAffectOutcome(t *testing.T) {
	r := New()
	exec := func(ctx context.Context, id string) (interface{}, error) { return "ok", nil }

	outcome, err := r.Race(context.Background(), []string{"p/m"}, exec, Options{
		OnProgress: func(id string, stage Stage, err error) { panic("observer bug") },
	})
	require.NoError(t, err)
	assert.Equal(t, "p/m", outcome.Candidate)
}

func TestCancelNamedRace(t *testing.T) {
	r := New()
	started := make(chan struct{})

	exec := func(ctx context.Context, id string) (interface{}, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}

	done := make(chan error, 1)
	go func() {
		_, err := r.Race(context.Background(), []string{"p/m"}, exec, Options{Name: "abort-me"})
		done <- err
	}()

	<-started
	assert.True(t, r.Cancel("abort-me"))

	err := <-done
	var raceErr *domain.RaceError
	require.ErrorAs(t, err, &raceErr)
	assert.ErrorIs(t, raceErr.Failures[0].Err, domain.ErrRaceCancelled)

	// A second cancel finds nothing in flight.
	assert.False(t, r.Cancel("abort-me"))
}

func TestCancelAll(t *testing.T) {
	r := New()
	started := make(chan struct{}, 2)

	exec := func(ctx context.Context, id string) (interface{}, error) {
		started <- struct{}{}
		<-ctx.Done()
		return nil, ctx.Err()
	}

	done := make(chan error, 2)
	for _, name := range []string{"one", "two"} {
		go func(n string) {
			_, err := r.Race(context.Background(), []string{"p/m"}, exec, Options{Name: n})
			done <- err
		}(name)
	}

	<-started
	<-started
	r.CancelAll()

	assert.Error(t, <-done)
	assert.Error(t, <-done)
}

func TestRaceWithFallback(t *testing.T) {
	r := New()
	exec := func(ctx context.Context, id string) (interface{}, error) {
		if id == "p/b" {
			return "saved", nil
		}
		return nil, errors.New("down")
	}

	var fallbackWaves [][]string
	outcome, err := r.RaceWithFallback(context.Background(), []string{"p/a"}, []string{"p/b"}, exec, FallbackOptions{
		Depth: 1,
		OnFallback: func(attempt int, candidates []string) {
			fallbackWaves = append(fallbackWaves, candidates)
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "p/b", outcome.Candidate)
	require.Len(t, fallbackWaves, 1)
	assert.Equal(t, []string{"p/b"}, fallbackWaves[0])
}

func TestRaceWithFallbackExhausted(t *testing.T) {
	r := New()
	exec := func(ctx context.Context, id string) (interface{}, error) {
		return nil, errors.New("down")
	}

	_, err := r.RaceWithFallback(context.Background(), []string{"p/a", "p/b"}, []string{"p/c", "p/d", "p/e"}, exec, FallbackOptions{
		Depth: 2,
	})
	require.Error(t, err)

	var exhausted *domain.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)

	var raceErr *domain.RaceError
	assert.ErrorAs(t, exhausted.Last, &raceErr)
}

func TestRaceWithFallbackRespectsDepth(t *testing.T) {
	r := New()
	var attempts []string
	var mu sync.Mutex

	exec := func(ctx context.Context, id string) (interface{}, error) {
		mu.Lock()
		attempts = append(attempts, id)
		mu.Unlock()
		return nil, errors.New("down")
	}

	_, err := r.RaceWithFallback(context.Background(), []string{"p/a"}, []string{"p/b", "p/c"}, exec, FallbackOptions{
		Depth: 1,
	})
	require.Error(t, err)

	mu.Lock()
	defer mu.Unlock()
	// Depth 1 allows exactly one fallback wave: p/c is never attempted.
	assert.ElementsMatch(t, []string{"p/a", "p/b"}, attempts)
}
