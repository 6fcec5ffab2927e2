package todo

import (
	"errors"
	"path/filepath"
	"testing"

	"todo/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDiskFull = errors.New("disk full")

// failingStore passes through to Store until putErr or deleteErr is set.
type failingStore[T any] struct {
	store.Store[T]
	putErr    error
	deleteErr error
	puts      int
}

func (f *failingStore[T]) Put(key string, value T) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.puts++
	return f.Store.Put(key, value)
}

func (f *failingStore[T]) Delete(key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.Store.Delete(key)
}

type failingStores struct {
	counter   *failingStore[uint64]
	texts     *failingStore[string]
	completed *failingStore[bool]
}

func wrap(s *Store) (*Store, failingStores) {
	f := failingStores{
		counter:   &failingStore[uint64]{Store: s.Counter},
		texts:     &failingStore[string]{Store: s.Texts},
		completed: &failingStore[bool]{Store: s.Completed},
	}

	w := New(f.counter, f.texts, f.completed, nil)
	w.Atomic = s.Atomic

	return w, f
}

func failingBackends(t *testing.T) map[string]func() (*Store, failingStores) {
	return map[string]func() (*Store, failingStores){
		"memory":     func() (*Store, failingStores) { return wrap(NewInMemory(nil)) },
		"persistent": func() (*Store, failingStores) { return wrap(newPersistent(t)) },
	}
}

func assertUnchanged(t *testing.T, s *Store, wantCount uint64, wantRecords int) {
	t.Helper()

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, wantCount, n, "counter")

	tn, err := s.Texts.Count()
	require.NoError(t, err)
	cn, err := s.Completed.Count()
	require.NoError(t, err)
	assert.Equal(t, wantRecords, tn, "texts")
	assert.Equal(t, wantRecords, cn, "completed")
}

func TestStore_CreateFailureRollsBack(t *testing.T) {
	for name, newStore := range failingBackends(t) {
		for _, failing := range []string{"completed", "texts", "counter"} {
			t.Run(name+"/"+failing, func(t *testing.T) {
				s, f := newStore()

				_, err := s.Create("kept")
				require.NoError(t, err)

				switch failing {
				case "completed":
					f.completed.putErr = errDiskFull
				case "texts":
					f.texts.putErr = errDiskFull
				case "counter":
					f.counter.putErr = errDiskFull
				}

				_, err = s.Create("x")
				assert.ErrorIs(t, err, errDiskFull)
				assertUnchanged(t, s, 1, 1)

				_, err = s.Get(2)
				assert.ErrorIs(t, err, ErrNotFound)

				f.completed.putErr, f.texts.putErr, f.counter.putErr = nil, nil, nil

				id, err := s.Create("y")
				require.NoError(t, err)
				assert.Equal(t, uint64(2), id)
				assertUnchanged(t, s, 2, 2)
			})
		}
	}
}

func TestStore_DeleteFailureRestoresText(t *testing.T) {
	for name, newStore := range failingBackends(t) {
		t.Run(name, func(t *testing.T) {
			s, f := newStore()

			id, err := s.Create("Buy milk")
			require.NoError(t, err)
			require.NoError(t, s.Complete(id))

			f.completed.deleteErr = errDiskFull

			err = s.Delete(id)
			assert.ErrorIs(t, err, errDiskFull)
			assertUnchanged(t, s, 1, 1)

			text, err := s.Get(id)
			require.NoError(t, err)
			assert.Equal(t, "Buy milk", text)

			done, err := s.IsCompleted(id)
			require.NoError(t, err)
			assert.True(t, done)
		})
	}
}

func TestStore_CompleteAlreadyCompletedSkipsWrite(t *testing.T) {
	s, f := wrap(NewInMemory(nil))

	id, err := s.Create("once")
	require.NoError(t, err)
	require.NoError(t, s.Complete(id))
	writes := f.completed.puts

	f.completed.putErr = errDiskFull
	assert.NoError(t, s.Complete(id))
	assert.Equal(t, writes, f.completed.puts)
}

func TestNewPersistent_AtomicRollback(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "todos.db"), 0600)
	require.NoError(t, err)
	defer db.Close()

	s, err := NewPersistent(db, nil)
	require.NoError(t, err)

	// a failure after the first write discards it without any undo
	err = s.Atomic(func() error {
		require.NoError(t, s.Completed.Put(key(1), false))
		return errDiskFull
	})
	assert.ErrorIs(t, err, errDiskFull)
	assertUnchanged(t, s, 0, 0)
}
