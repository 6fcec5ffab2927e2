// Package todo implements the record store: a monotonic counter that
// assigns ids, and two maps keyed by id holding each todo's text and its
// completion flag.
//
// Store does no locking of its own. Each method is one invocation and the
// caller (the host) is expected to run invocations one at a time.
package todo

import (
	"errors"
	"fmt"
	"strconv"

	"todo/store"

	"go.uber.org/zap"
)

const CounterKey = "todo_counter"

const (
	MsgNotFound  = "Todo not found"
	MsgCompleted = "Todo marked as completed!"
	MsgDeleted   = "Todo deleted successfully!"
)

var ErrNotFound = errors.New("todo not found")

type Store struct {
	Counter   store.Store[uint64]
	Texts     store.Store[string]
	Completed store.Store[bool]

	// Atomic runs each mutating operation. Backends with transactions set
	// it (store.DB.Atomic) so that the counter and both maps commit
	// together; the default runs fn directly.
	Atomic func(fn func() error) error

	log *zap.Logger
}

func New(counter store.Store[uint64], texts store.Store[string], completed store.Store[bool], log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}

	return &Store{
		Counter:   counter,
		Texts:     texts,
		Completed: completed,
		Atomic:    func(fn func() error) error { return fn() },
		log:       log.Named("todo"),
	}
}

// NewPersistent returns a Store whose counter and maps live in buckets of
// db, with every mutation committed in one bbolt transaction.
func NewPersistent(db *store.DB, log *zap.Logger) (*Store, error) {
	counter, err := store.NewPersistentStore[uint64](db, "counter")
	if err != nil {
		return nil, err
	}
	texts, err := store.NewPersistentStore[string](db, "todos")
	if err != nil {
		return nil, err
	}
	completed, err := store.NewPersistentStore[bool](db, "completed")
	if err != nil {
		return nil, err
	}

	s := New(counter, texts, completed, log)
	s.Atomic = db.Atomic

	return s, nil
}

// NewInMemory returns a Store backed by in-memory maps.
func NewInMemory(log *zap.Logger) *Store {
	return New(
		store.NewInMemoryStore[uint64](),
		store.NewInMemoryStore[string](),
		store.NewInMemoryStore[bool](),
		log,
	)
}

func key(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// Create assigns the next id and stores text with completed=false.
// Ids start at 1 and are never reused, even after Delete.
//
// The counter is written last and earlier writes are undone when a later
// one fails, so a failed Create leaves the counter and both maps as they
// were.
func (s *Store) Create(text string) (id uint64, err error) {
	err = s.Atomic(func() error {
		current, err := s.Count()
		if err != nil {
			return err
		}

		id = current + 1
		k := key(id)

		if err := s.Completed.Put(k, false); err != nil {
			return fmt.Errorf("write status %d: %w", id, err)
		}

		if err := s.Texts.Put(k, text); err != nil {
			return errors.Join(
				fmt.Errorf("write todo %d: %w", id, err),
				s.undo("status", id, s.Completed.Delete(k)),
			)
		}

		if err := s.Counter.Put(CounterKey, id); err != nil {
			return errors.Join(
				fmt.Errorf("write counter: %w", err),
				s.undo("todo", id, s.Texts.Delete(k)),
				s.undo("status", id, s.Completed.Delete(k)),
			)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Debug("created todo", zap.Uint64("id", id))

	return id, nil
}

// Complete marks id as completed. Completing an already completed todo
// succeeds without writing.
func (s *Store) Complete(id uint64) error {
	return s.Atomic(func() error {
		if err := s.mustExist(id); err != nil {
			return err
		}

		completed, err := s.IsCompleted(id)
		if err != nil {
			return err
		}

		if StatusOf(completed) == Completed {
			return nil
		}

		if err := s.Completed.Put(key(id), true); err != nil {
			return fmt.Errorf("write status %d: %w", id, err)
		}

		s.log.Debug("completed todo", zap.Uint64("id", id))

		return nil
	})
}

func (s *Store) Get(id uint64) (string, error) {
	text, err := s.Texts.Get(key(id))
	if errors.Is(err, store.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read todo %d: %w", id, err)
	}

	return text, nil
}

// IsCompleted reports the completion flag of id. An unknown id reports
// false, the same as an incomplete one.
func (s *Store) IsCompleted(id uint64) (bool, error) {
	completed, err := s.Completed.Get(key(id))
	if errors.Is(err, store.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read status %d: %w", id, err)
	}

	return completed, nil
}

// Count returns the number of todos ever created.
func (s *Store) Count() (uint64, error) {
	n, err := s.Counter.Get(CounterKey)
	if errors.Is(err, store.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read counter: %w", err)
	}

	return n, nil
}

// Delete removes id from both maps. The counter is left untouched. When
// removing the status fails the text is put back.
func (s *Store) Delete(id uint64) error {
	return s.Atomic(func() error {
		if err := s.mustExist(id); err != nil {
			return err
		}

		k := key(id)
		text, err := s.Texts.Get(k)
		if err != nil {
			return fmt.Errorf("read todo %d: %w", id, err)
		}

		if err := s.Texts.Delete(k); err != nil {
			return fmt.Errorf("delete todo %d: %w", id, err)
		}

		if err := s.Completed.Delete(k); err != nil {
			return errors.Join(
				fmt.Errorf("delete status %d: %w", id, err),
				s.undo("todo", id, s.Texts.Put(k, text)),
			)
		}

		s.log.Debug("deleted todo", zap.Uint64("id", id))

		return nil
	})
}

// undo wraps the error of a compensating write, if any.
func (s *Store) undo(what string, id uint64, err error) error {
	if err == nil {
		return nil
	}

	s.log.Error("undo failed", zap.String("map", what), zap.Uint64("id", id), zap.Error(err))

	return fmt.Errorf("undo %s %d: %w", what, id, err)
}

func (s *Store) mustExist(id uint64) error {
	ok, err := s.Texts.Has(key(id))
	if err != nil {
		return fmt.Errorf("read todo %d: %w", id, err)
	}
	if !ok {
		return ErrNotFound
	}

	return nil
}

// Message returns the user-facing text for the result of op.
func Message(op Op, err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return MsgNotFound
	case err != nil:
		return err.Error()
	}

	switch op {
	case OpComplete:
		return MsgCompleted
	case OpDelete:
		return MsgDeleted
	}

	return ""
}
