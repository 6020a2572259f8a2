package client

import (
	"context"
	"sync"
)

// State is the refresh state of a Coordinator.
type State int

const (
	StateIdle State = iota
	StateRefreshing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRefreshing:
		return "refreshing"
	default:
		return "unknown"
	}
}

// RefreshFunc fetches a new access token.
type RefreshFunc func(ctx context.Context) (string, error)

type refreshOutcome struct {
	token string
	err   error
}

/*
Coordinator makes sure at most one token refresh is in flight. The first
caller to ask for a refresh performs it; everyone who asks while it runs
waits in a FIFO queue and receives the same outcome. Every settled refresh
bumps the generation; a caller that saw an older generation gets the last
outcome instead of starting another refresh. Only Coordinator methods touch
its state, always under mu.
*/
type Coordinator struct {
	mu         sync.Mutex
	state      State
	queue      []chan refreshOutcome
	generation uint64
	last       refreshOutcome
	refresh    RefreshFunc
	onFailure  func(error)
}

// NewCoordinator wraps refresh. onFailure, if set, runs once per failed
// refresh before any waiter is released.
func NewCoordinator(refresh RefreshFunc, onFailure func(error)) *Coordinator {
	return &Coordinator{
		state:     StateIdle,
		refresh:   refresh,
		onFailure: onFailure,
	}
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Generation counts settled refreshes. Read it before sending a request and
// pass it to Refresh if that request is rejected.
func (c *Coordinator) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Pending is the number of callers waiting on the current refresh,
// including the one performing it.
func (c *Coordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Refresh returns a fresh access token, joining the refresh in flight if
// there is one. since is the generation the caller observed; if a refresh
// settled after that, its outcome is returned as is. A caller whose ctx ends
// stops waiting but does not cancel the shared refresh.
func (c *Coordinator) Refresh(ctx context.Context, since uint64) (string, error) {
	wait := make(chan refreshOutcome, 1)

	c.mu.Lock()
	if c.state == StateIdle && c.generation != since {
		last := c.last
		c.mu.Unlock()
		return last.token, last.err
	}
	c.queue = append(c.queue, wait)
	leader := c.state == StateIdle
	if leader {
		c.state = StateRefreshing
	}
	c.mu.Unlock()

	if leader {
		token, err := c.refresh(context.WithoutCancel(ctx))
		c.settle(token, err)
	}

	select {
	case outcome := <-wait:
		return outcome.token, outcome.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *Coordinator) settle(token string, err error) {
	outcome := refreshOutcome{token: token, err: err}

	c.mu.Lock()
	queue := c.queue
	c.queue = nil
	c.state = StateIdle
	c.generation++
	c.last = outcome
	c.mu.Unlock()

	if err != nil && c.onFailure != nil {
		c.onFailure(err)
	}

	// channels are buffered, resolving never blocks
	for _, wait := range queue {
		wait <- outcome
	}
}
