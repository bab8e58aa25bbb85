package panel

import "sync"

// Logger is the subset of the logger the queue reports to.
type Logger interface {
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Queue carries action names from other goroutines (the remote panel) to the frame thread.
type Queue struct {
	mu    sync.Mutex
	names []string
}

// Push enqueues an action name. Safe from any goroutine.
func (q *Queue) Push(name string) {
	q.mu.Lock()
	q.names = append(q.names, name)
	q.mu.Unlock()
}

// Len returns the number of pending actions.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.names)
}

// Drain invokes every pending action in FIFO order on the calling goroutine and returns how
// many ran without error. Failures are logged.
func (q *Queue) Drain(reg *Registry, log Logger) int {
	q.mu.Lock()
	pending := q.names
	q.names = nil
	q.mu.Unlock()

	ok := 0
	for _, name := range pending {
		if err := reg.Invoke(name); err != nil {
			if log != nil {
				log.Error("panel: %v", err)
			}
			continue
		}
		ok++
	}
	return ok
}
