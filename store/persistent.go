package store

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.etcd.io/bbolt"
)

// DB is the bbolt database shared by every PersistentStore of a process.
// While Atomic runs, those stores read and write through its transaction.
type DB struct {
	*bbolt.DB

	tx *bbolt.Tx
}

// Open opens the bbolt file. bbolt holds an exclusive file lock, so a
// second Open on the same file fails after a short timeout instead of
// blocking forever.
func Open(file string, mode os.FileMode) (*DB, error) {
	db, err := bbolt.Open(file, mode, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", file, err)
	}

	return &DB{DB: db}, nil
}

// Atomic runs fn in a single read-write transaction. Every write fn makes
// through stores on d commits together, or none does when fn returns an
// error. Calls nest into the outer transaction. Callers must not run
// Atomic concurrently.
func (d *DB) Atomic(fn func() error) error {
	if d.tx != nil {
		return fn()
	}

	return d.DB.Update(func(tx *bbolt.Tx) error {
		d.tx = tx
		defer func() { d.tx = nil }()

		return fn()
	})
}

func (d *DB) view(fn func(tx *bbolt.Tx) error) error {
	if d.tx != nil {
		return fn(d.tx)
	}

	return d.DB.View(fn)
}

func (d *DB) update(fn func(tx *bbolt.Tx) error) error {
	if d.tx != nil {
		return fn(d.tx)
	}

	return d.DB.Update(fn)
}

type PersistentStore[T any] struct {
	Db     *DB
	Bucket string
}

func (p *PersistentStore[T]) CreateBucket() error {
	return p.Db.update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(p.Bucket))
		return err
	})
}

func (p *PersistentStore[T]) Count() (int, error) {
	count := 0

	err := p.Db.view(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(p.Bucket))
		err := b.ForEach(func(k, v []byte) error {
			count++
			return nil
		})

		return err
	})

	if err != nil {
		return -1, err
	}

	return count, nil

}

func (p *PersistentStore[T]) Get(key string) (v T, err error) {

	err = p.Db.view(func(tx *bbolt.Tx) error {

		b := tx.Bucket([]byte(p.Bucket))
		t := b.Get([]byte(key))
		if t == nil {
			return fmt.Errorf("key %s: %w", key, ErrKeyNotFound)
		}

		err := json.Unmarshal(t, &v)
		if err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}

		return nil
	})

	return
}

func (p *PersistentStore[T]) Has(key string) (found bool, err error) {

	err = p.Db.view(func(tx *bbolt.Tx) error {
		found = tx.Bucket([]byte(p.Bucket)).Get([]byte(key)) != nil
		return nil
	})

	return
}

func (p *PersistentStore[T]) List() (vs []T, err error) {

	err = p.Db.view(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(p.Bucket))
		err := b.ForEach(func(k, v []byte) error {

			var ret T
			err := json.Unmarshal(v, &ret)
			if err != nil {
				return fmt.Errorf("decode %s: %w", k, err)
			}

			vs = append(vs, ret)
			return nil
		})

		return err
	})

	return

}

func (p *PersistentStore[T]) Put(key string, value T) error {

	return p.Db.update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(p.Bucket))

		buf, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}

		return b.Put([]byte(key), buf)
	})

}

func (p *PersistentStore[T]) Delete(key string) error {
	return p.Db.update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(p.Bucket)).Delete([]byte(key))
	})
}

func NewPersistentStore[T any](db *DB, bucket string) (*PersistentStore[T], error) {

	p := &PersistentStore[T]{
		Db:     db,
		Bucket: bucket,
	}

	if err := p.CreateBucket(); err != nil {
		return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
	}

	return p, nil
}
