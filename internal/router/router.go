// Package router holds the route table of the client and the guard every navigation
// passes through before a screen or command touches the backend.
package router

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"grafanapdf/internal/logging"
)

// MaxRedirects bounds how many guard redirects a single Push follows.
const MaxRedirects = 10

var (
	ErrUnknownRoute = errors.New("unknown route")
	ErrRedirectLoop = errors.New("too many redirects")
)

type Router struct {
	guard *Guard

	mu      sync.Mutex
	current Route
	history []Route
}

func New(guard *Guard) *Router {
	return &Router{guard: guard}
}

// Push navigates to the named route. Redirects requested by the guard are followed,
// each target being evaluated again. The route finally reached is returned.
func (r *Router) Push(ctx context.Context, name string) (Route, error) {
	to, ok := Lookup(name)
	if !ok {
		return Route{}, fmt.Errorf("%w: %s", ErrUnknownRoute, name)
	}

	for hop := 0; ; hop++ {
		if hop > MaxRedirects {
			return Route{}, fmt.Errorf("%w: last target %s", ErrRedirectLoop, to.Name)
		}

		decision := r.guard.Evaluate(ctx, to)
		if decision.Allowed() {
			break
		}
		next, ok := Lookup(decision.Redirect)
		if !ok {
			return Route{}, fmt.Errorf("%w: %s", ErrUnknownRoute, decision.Redirect)
		}
		logging.Debug().Str("from", to.Name).Str("to", next.Name).Str("check", decision.Check).Msg("following redirect")
		to = next
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// A check may already have navigated here (a failed auth check logs out to Login).
	if r.current.Name != "" && r.current.Name != to.Name {
		r.history = append(r.history, r.current)
	}
	r.current = to
	return to, nil
}

// Navigate implements session.Navigator.
func (r *Router) Navigate(ctx context.Context, route string) error {
	_, err := r.Push(ctx, route)
	return err
}

func (r *Router) Current() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Router) History() []Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Route(nil), r.history...)
}

// Back returns to the previous route without evaluating the guard again.
func (r *Router) Back() (Route, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) == 0 {
		return r.current, false
	}
	r.current = r.history[len(r.history)-1]
	r.history = r.history[:len(r.history)-1]
	return r.current, true
}
