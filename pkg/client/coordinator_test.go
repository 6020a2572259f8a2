package client_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/pkg/client"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCoordinator_SingleRefreshSharedResult(t *testing.T) {
	t.Parallel()

	// setup coordinator with a refresh we control
	var calls atomic.Int32
	release := make(chan struct{})
	c := client.NewCoordinator(func(ctx context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "fresh", nil
	}, nil)

	if c.State() != client.StateIdle {
		t.Fatalf("initial state = %s", c.State())
	}

	results := make(chan string, 3)
	for range 3 {
		go func() {
			token, err := c.Refresh(context.Background(), 0)
			if err != nil {
				token = "error: " + err.Error()
			}
			results <- token
		}()
	}

	waitFor(t, func() bool { return c.Pending() == 3 })
	if c.State() != client.StateRefreshing {
		t.Errorf("state while refreshing = %s", c.State())
	}
	close(release)

	for range 3 {
		if token := <-results; token != "fresh" {
			t.Errorf("token = %q, want fresh", token)
		}
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("refresh ran %d times, want 1", n)
	}
	if c.State() != client.StateIdle || c.Pending() != 0 {
		t.Errorf("after settle: state=%s pending=%d", c.State(), c.Pending())
	}
}

func TestCoordinator_FailureRejectsEveryone(t *testing.T) {
	t.Parallel()

	// setup coordinator
	failure := errors.New("refresh rejected")
	var failures atomic.Int32
	release := make(chan struct{})
	c := client.NewCoordinator(func(ctx context.Context) (string, error) {
		<-release
		return "", failure
	}, func(err error) {
		failures.Add(1)
	})

	errs := make(chan error, 2)
	for range 2 {
		go func() {
			_, err := c.Refresh(context.Background(), 0)
			errs <- err
		}()
	}
	waitFor(t, func() bool { return c.Pending() == 2 })
	close(release)

	for range 2 {
		if err := <-errs; !errors.Is(err, failure) {
			t.Errorf("expected refresh error, got %v", err)
		}
	}
	if n := failures.Load(); n != 1 {
		t.Errorf("failure hook ran %d times, want 1", n)
	}
}

func TestCoordinator_WaiterCancellation(t *testing.T) {
	t.Parallel()

	// setup coordinator
	release := make(chan struct{})
	var refreshCtxErr atomic.Value
	c := client.NewCoordinator(func(ctx context.Context) (string, error) {
		<-release
		if ctx.Err() != nil {
			refreshCtxErr.Store(ctx.Err())
		}
		return "fresh", nil
	}, nil)

	leader := make(chan string, 1)
	go func() {
		token, _ := c.Refresh(context.Background(), 0)
		leader <- token
	}()
	waitFor(t, func() bool { return c.Pending() == 1 })

	// a waiter gives up
	ctx, cancel := context.WithCancel(context.Background())
	waiter := make(chan error, 1)
	go func() {
		_, err := c.Refresh(ctx, 0)
		waiter <- err
	}()
	waitFor(t, func() bool { return c.Pending() == 2 })
	cancel()

	if err := <-waiter; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	close(release)
	if token := <-leader; token != "fresh" {
		t.Errorf("leader token = %q", token)
	}
	if err := refreshCtxErr.Load(); err != nil {
		t.Errorf("refresh saw cancelled context: %v", err)
	}
}

func TestCoordinator_LeaderContextDoesNotCancelRefresh(t *testing.T) {
	t.Parallel()

	// setup coordinator
	seen := make(chan error, 1)
	c := client.NewCoordinator(func(ctx context.Context) (string, error) {
		seen <- ctx.Err()
		return "fresh", nil
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _ = c.Refresh(ctx, 0)

	if err := <-seen; err != nil {
		t.Errorf("refresh context err = %v, want nil", err)
	}
}

func TestCoordinator_LateCallerReusesSettledRefresh(t *testing.T) {
	t.Parallel()

	// setup coordinator
	var calls atomic.Int32
	c := client.NewCoordinator(func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "fresh", nil
	}, nil)

	// a caller observed generation 0, then someone else refreshed
	stale := c.Generation()
	if _, err := c.Refresh(context.Background(), stale); err != nil {
		t.Fatalf("first refresh failed: %v", err)
	}
	if c.Generation() != stale+1 {
		t.Fatalf("generation = %d, want %d", c.Generation(), stale+1)
	}

	token, err := c.Refresh(context.Background(), stale)
	if err != nil || token != "fresh" {
		t.Errorf("late caller got %q, %v", token, err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("refresh ran %d times, want 1", n)
	}

	// a caller that is up to date starts a new refresh
	if _, err := c.Refresh(context.Background(), c.Generation()); err != nil {
		t.Fatalf("second refresh failed: %v", err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("refresh ran %d times, want 2", n)
	}
}

func TestCoordinator_LateCallerSeesFailure(t *testing.T) {
	t.Parallel()

	// setup coordinator
	failure := errors.New("refresh rejected")
	var calls atomic.Int32
	c := client.NewCoordinator(func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "", failure
	}, nil)

	_, _ = c.Refresh(context.Background(), 0)
	_, err := c.Refresh(context.Background(), 0)

	if !errors.Is(err, failure) {
		t.Errorf("expected settled failure, got %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("refresh ran %d times, want 1", n)
	}
}
