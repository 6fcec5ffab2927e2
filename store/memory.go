package store

import (
	"fmt"
	"sort"
)

type InMemoryStore[T any] struct {
	Db map[string]T
}

func NewInMemoryStore[T any]() *InMemoryStore[T] {
	return &InMemoryStore[T]{
		Db: make(map[string]T),
	}
}

func (i *InMemoryStore[T]) Count() (int, error) {
	return len(i.Db), nil
}

func (i *InMemoryStore[T]) Get(key string) (v T, err error) {

	v, ok := i.Db[key]
	if !ok {
		return v, fmt.Errorf("key %s: %w", key, ErrKeyNotFound)
	}

	return v, nil
}

func (i *InMemoryStore[T]) Has(key string) (bool, error) {
	_, ok := i.Db[key]
	return ok, nil
}

// List returns values ordered by key so both backends agree.
func (i *InMemoryStore[T]) List() ([]T, error) {
	keys := make([]string, 0, len(i.Db))
	for k := range i.Db {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var vs []T
	for _, k := range keys {
		vs = append(vs, i.Db[k])
	}

	return vs, nil
}

// Put implements Store.
func (i *InMemoryStore[T]) Put(key string, value T) error {
	i.Db[key] = value
	return nil
}

func (i *InMemoryStore[T]) Delete(key string) error {
	delete(i.Db, key)
	return nil
}
