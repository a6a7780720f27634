// Package session owns the live board: it hydrates from the store once, runs
// every action through the reducer and schedules debounced saves.
package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"fluxboard/internal/board"
	"fluxboard/internal/logger"
	"fluxboard/internal/store"

	"github.com/google/uuid"
)

// Loader is the read side of the board file.
type Loader interface {
	Load() (board.Snapshot, error)
}

// Backend loads and saves board snapshots. *store.Store satisfies it.
type Backend interface {
	Loader
	store.Writer
}

// Options configures Open.
type Options struct {
	Store     Backend
	SaveDelay time.Duration
	// Now is the clock for timestamps. Defaults to time.Now.
	Now func() time.Time
}

// Session serializes access to the board state.
type Session struct {
	mu      sync.Mutex
	state   board.State
	reducer board.Reducer
	saver   *store.DebouncedSaver
	now     func() time.Time

	// LoadErr is the error from the initial load, if any. ErrNoBoard is not
	// reported here.
	LoadErr error
	// readOnly is set when the board file could not be read and is still in
	// place. Saving would overwrite it.
	readOnly bool
}

// Open hydrates a session from opts.Store. A missing or unreadable board
// starts empty; the failure is logged and kept in LoadErr. Unless the store
// moved a corrupt file aside, the session is read-only and never saves.
func Open(opts Options) *Session {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &Session{
		state:   board.EmptyState(),
		reducer: board.Reducer{Now: now},
		saver:   store.NewDebouncedSaver(opts.Store, opts.SaveDelay),
		now:     now,
	}

	snap, err := opts.Store.Load()
	switch {
	case err == store.ErrNoBoard:
		logger.Store("no board file yet, starting empty")
	case errors.Is(err, store.ErrQuarantined):
		logger.Warn("discarding corrupt board: %v", err)
		s.LoadErr = err
	case err != nil:
		logger.Warn("board unreadable, changes will not be saved: %v", err)
		s.LoadErr = err
		s.readOnly = true
	default:
		if problems := board.Validate(snap); len(problems) > 0 {
			logger.Warn("board loaded with %d consistency problems; run: fluxboard config doctor", len(problems))
		}
	}
	s.state = s.reducer.Reduce(s.state, board.Hydrate{Snapshot: snap})
	return s
}

// Dispatch applies a and returns the new state. Every action except a filter
// change schedules a save, unless the session is read-only.
func (s *Session) Dispatch(a board.Action) board.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatch(a)
}

func (s *Session) dispatch(a board.Action) board.State {
	prev := s.state
	s.state = s.reducer.Reduce(prev, a)
	logger.Engine("%T applied (history %d, future %d)", a, len(s.state.History), len(s.state.Future))

	if s.readOnly {
		return s.state
	}
	switch a.(type) {
	case board.SetFilterText, board.SetFilterPriority:
	default:
		s.saver.Schedule(s.state.Snapshot)
	}
	return s.state
}

// ReadOnly reports whether changes are kept in memory only because the board
// file could not be read.
func (s *Session) ReadOnly() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readOnly
}

// State returns the current state.
func (s *Session) State() board.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// View returns the filtered projection of the current state.
func (s *Session) View() board.Order {
	return s.State().View()
}

func (s *Session) CanUndo() bool { return s.State().CanUndo() }

func (s *Session) CanRedo() bool { return s.State().CanRedo() }

// Drop resolves a gesture over the current filtered view and applies it. It
// reports false when the gesture was stale and nothing moved.
func (s *Session) Drop(d board.Drop) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	move, ok := board.ResolveDrop(s.state.Order, s.state.View(), d)
	if !ok {
		logger.Engine("stale drop of %s ignored", d.TaskID)
		return false
	}
	s.dispatch(move)
	return true
}

// Add creates a todo task with a fresh id. Titles are trimmed; an empty title
// or invalid priority adds nothing and reports false.
func (s *Session) Add(title, description string, priority board.Priority) (board.Task, bool) {
	title = strings.TrimSpace(title)
	if title == "" || !priority.Valid() {
		return board.Task{}, false
	}
	ts := s.now().UnixMilli()
	task := board.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(description),
		Status:      board.StatusTodo,
		Priority:    priority,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatch(board.AddTask{Task: task})
	_, ok := s.state.Tasks[task.ID]
	return task, ok
}

// Flush writes any pending save immediately.
func (s *Session) Flush() error {
	return s.saver.Flush()
}

// Close flushes the pending save and stops the saver.
func (s *Session) Close() error {
	return s.saver.Close()
}
