package store

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"fluxboard/internal/board"
	"fluxboard/internal/errors"
	"fluxboard/internal/logger"
)

// ErrNoBoard is returned by Load when no board file exists yet.
var ErrNoBoard = fmt.Errorf("no board file")

// ErrUnreadable marks a board file that exists but could not be read. It is
// left in place, so nothing may be saved over it.
var ErrUnreadable = stderrors.New("board file unreadable")

// ErrQuarantined marks a corrupt board file that was moved aside. Saving a
// fresh board to the original path is safe afterwards.
var ErrQuarantined = stderrors.New("corrupt board file moved aside")

// CorruptSuffix is appended to a board file that failed to decode.
const CorruptSuffix = ".corrupt"

// persisted is the on-disk shape. Filters, history and future are session-only.
type persisted struct {
	Tasks map[string]board.Task `json:"tasks"`
	Order board.Order           `json:"order"`
}

// Store reads and writes one board file.
type Store struct {
	path string
}

// New returns a store backed by the JSON file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path is the board file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the board file. A file that is not a JSON object carrying both a
// tasks object and an order object is moved aside and reported as a
// *errors.UserError wrapping ErrQuarantined; the caller should continue with
// an empty board. A file that cannot be read at all stays where it is and the
// error wraps ErrUnreadable.
func (s *Store) Load() (board.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return board.EmptySnapshot(), ErrNoBoard
		}
		return board.EmptySnapshot(), errors.NewUnreadableBoardError(s.path, fmt.Errorf("%w: %v", ErrUnreadable, err))
	}

	snap, err := decode(data)
	if err != nil {
		movedTo := s.path + CorruptSuffix
		if rerr := os.Rename(s.path, movedTo); rerr != nil {
			logger.Warn("could not move corrupt board file aside: %v", rerr)
			return board.EmptySnapshot(), errors.NewCorruptBoardError(s.path, "", fmt.Errorf("%w: %v", ErrUnreadable, err))
		}
		return board.EmptySnapshot(), errors.NewCorruptBoardError(s.path, movedTo, fmt.Errorf("%w: %v", ErrQuarantined, err))
	}

	logger.Store("loaded %d tasks from %s", len(snap.Tasks), s.path)
	return snap, nil
}

// Inspect decodes the board file without touching it, even when it is corrupt.
func (s *Store) Inspect() (board.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return board.EmptySnapshot(), ErrNoBoard
		}
		return board.EmptySnapshot(), fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return decode(data)
}

func decode(data []byte) (board.Snapshot, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return board.Snapshot{}, fmt.Errorf("decode board: %v", err)
	}
	if raw == nil {
		return board.Snapshot{}, fmt.Errorf("decode board: top level is null")
	}

	tasksRaw, ok := raw["tasks"]
	if !ok || !isObject(tasksRaw) {
		return board.Snapshot{}, fmt.Errorf("decode board: missing tasks object")
	}
	orderRaw, ok := raw["order"]
	if !ok || !isObject(orderRaw) {
		return board.Snapshot{}, fmt.Errorf("decode board: missing order object")
	}

	snap := board.EmptySnapshot()
	if err := json.Unmarshal(tasksRaw, &snap.Tasks); err != nil {
		return board.Snapshot{}, fmt.Errorf("decode tasks: %v", err)
	}
	var order board.Order
	if err := json.Unmarshal(orderRaw, &order); err != nil {
		return board.Snapshot{}, fmt.Errorf("decode order: %v", err)
	}
	if order.Todo != nil {
		snap.Order.Todo = order.Todo
	}
	if order.InProgress != nil {
		snap.Order.InProgress = order.InProgress
	}
	if order.Done != nil {
		snap.Order.Done = order.Done
	}
	return snap, nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// Save writes the tasks and order of snap. The file is replaced atomically so a
// crash mid-write never leaves a truncated board.
func (s *Store) Save(snap board.Snapshot) error {
	p := persisted{Tasks: snap.Tasks, Order: snap.Order}
	if p.Tasks == nil {
		p.Tasks = map[string]board.Task{}
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return errors.NewSaveError(s.path, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.NewSaveError(s.path, err)
	}

	tmp, err := os.CreateTemp(dir, ".board-*.json")
	if err != nil {
		return errors.NewSaveError(s.path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.NewSaveError(s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.NewSaveError(s.path, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return errors.NewSaveError(s.path, err)
	}

	logger.Store("saved %d tasks to %s", len(p.Tasks), s.path)
	return nil
}
