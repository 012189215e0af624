// Package cleanup provides an ordered registry of shutdown actions, so
// normal exits, fatal errors, and signal-triggered exits all run the same
// teardown sequence instead of scattering ad hoc handlers through the
// control flow.
package cleanup

import (
	"context"
	"sync"

	"github.com/gabapcia/chaintail/internal/pkg/logger"
)

// Func is a single cleanup action.
type Func func() error

type entry struct {
	name string
	fn   Func
}

// Stack runs registered actions in registration order, exactly once. A
// failing action is logged and does not prevent the remaining actions from
// running.
type Stack struct {
	mu      sync.Mutex
	entries []entry
	done    bool
}

// New returns an empty cleanup stack.
func New() *Stack {
	return &Stack{}
}

// Register appends a named action to the stack. Registration order is
// execution order; register a file's close before its removal.
func (s *Stack) Register(name string, fn Func) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry{name: name, fn: fn})
}

// Run executes every registered action once, in order. Subsequent calls are
// no-ops, so Run can sit on a defer while also being invoked explicitly on
// an error path.
func (s *Stack) Run(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return
	}
	s.done = true

	for _, e := range s.entries {
		if err := e.fn(); err != nil {
			logger.Warn(ctx, "cleanup action failed", "cleanup.action", e.name, "error", err)
		}
	}
}
