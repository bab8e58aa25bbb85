// Package panel holds the debug trigger panel: named zero-argument actions invoked from the
// console or the remote panel.
package panel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// ErrUnknownAction is returned when no action is registered under a name.
var ErrUnknownAction = errors.New("unknown action")

// maxRepeat bounds "name N" console lines.
const maxRepeat = 100

// Action is a named trigger.
type Action struct {
	Name string
	Help string
	Run  func() error
}

// Registry holds actions by name and remembers registration order. Lookups are safe from any
// goroutine; Invoke must run on the frame thread.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]*Action
	order   []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{actions: make(map[string]*Action)}
}

// Register adds or replaces an action.
func (r *Registry) Register(name, help string, run func() error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.actions[name]; !ok {
		r.order = append(r.order, name)
	}
	r.actions[name] = &Action{Name: name, Help: help, Run: run}
}

// Names returns action names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Lookup returns the action registered under name.
func (r *Registry) Lookup(name string) (*Action, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.actions[name]
	return a, ok
}

// Invoke runs the named action.
func (r *Registry) Invoke(name string) error {
	a, ok := r.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	if err := a.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Help returns one "name - help" line per action.
func (r *Registry) Help() []string {
	var out []string
	for _, name := range r.Names() {
		a, _ := r.Lookup(name)
		out = append(out, name+" - "+a.Help)
	}
	return out
}

// Parse interprets a console line: an action name optionally followed by a repeat count
// ("spawnBox 10"). Blank lines return an empty name.
func Parse(line string) (name string, count int, err error) {
	fields := strings.Fields(line)
	switch len(fields) {
	case 0:
		return "", 0, nil
	case 1:
		return fields[0], 1, nil
	case 2:
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 || n > maxRepeat {
			return "", 0, fmt.Errorf("repeat count must be 1..%d, got %q", maxRepeat, fields[1])
		}
		return fields[0], n, nil
	}
	return "", 0, fmt.Errorf("expected: <action> [count], got %q", line)
}
