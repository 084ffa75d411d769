package database

import (
	"context"
	"time"
)

// Checker is a dependency that can report its reachability.
type Checker interface {
	Name() string
	Ping(ctx context.Context) error
}

// CheckAll pings every checker with a shared timeout and returns the failures
// keyed by name. An empty map means everything answered.
func CheckAll(ctx context.Context, timeout time.Duration, checkers ...Checker) map[string]error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	failures := make(map[string]error)
	for _, c := range checkers {
		if err := c.Ping(ctx); err != nil {
			failures[c.Name()] = err
		}
	}
	return failures
}
