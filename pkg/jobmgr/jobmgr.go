// Package jobmgr runs named background jobs with cancellation and keeps at
// most one job per name alive.
//
// Typical usage:
//
//	jm := jobmgr.NewManager(func(ev jobmgr.Event) {
//	    log.Println(ev.State, ev.Name, ev.Err)
//	})
//
//	err := jm.Start(ctx, "sync:global", func(ctx context.Context) error {
//	    return syncer.SyncGlobal(ctx, appID)
//	})
//
//	// on shutdown
//	jm.StopAll()
//	jm.Wait()
package jobmgr

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrRunning is returned by Start when a job with the same name is active.
var ErrRunning = errors.New("job is already running")

// State is a job lifecycle stage.
type State string

const (
	StateRunning State = "running"
	StateDone    State = "done"
	StateFailed  State = "failed"
)

// Event describes a job lifecycle change.
type Event struct {
	Name  string
	State State
	Err   error
}

// Reporter receives lifecycle events. It may be called from any goroutine.
type Reporter func(Event)

type job struct {
	cancel context.CancelFunc
}

// Manager starts, stops and tracks jobs. It is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	jobs     map[string]*job
	wg       sync.WaitGroup
	reporter Reporter
}

// NewManager creates a Manager. reporter may be nil.
func NewManager(reporter Reporter) *Manager {
	return &Manager{
		jobs:     make(map[string]*job),
		reporter: reporter,
	}
}

// Start runs runner in a new goroutine under a context derived from ctx.
// The job is forgotten once runner returns.
func (m *Manager) Start(ctx context.Context, name string, runner func(ctx context.Context) error) error {
	m.mu.Lock()
	if _, exists := m.jobs[name]; exists {
		m.mu.Unlock()
		return fmt.Errorf("%s: %w", name, ErrRunning)
	}
	jobCtx, cancel := context.WithCancel(ctx)
	j := &job{cancel: cancel}
	m.jobs[name] = j
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		defer cancel()

		m.report(Event{Name: name, State: StateRunning})
		err := runner(jobCtx)

		m.mu.Lock()
		if m.jobs[name] == j {
			delete(m.jobs, name)
		}
		m.mu.Unlock()

		if err != nil {
			m.report(Event{Name: name, State: StateFailed, Err: err})
			return
		}
		m.report(Event{Name: name, State: StateDone})
	}()
	return nil
}

// Stop cancels a running job by name.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[name]
	if !ok {
		return fmt.Errorf("job %q not running", name)
	}
	j.cancel()
	delete(m.jobs, name)
	return nil
}

// StopAll cancels every running job.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, j := range m.jobs {
		j.cancel()
		delete(m.jobs, name)
	}
}

// Wait blocks until every started job has returned.
func (m *Manager) Wait() { m.wg.Wait() }

// List returns the names of active jobs, sorted.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.jobs))
	for k := range m.jobs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (m *Manager) report(ev Event) {
	if m.reporter != nil {
		m.reporter(ev)
	}
}
