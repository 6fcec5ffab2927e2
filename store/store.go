package store

import "errors"

var ErrKeyNotFound = errors.New("key not found")

type Store[T any] interface {
	Put(key string, value T) error
	Get(key string) (T, error)
	Has(key string) (bool, error)
	Delete(key string) error
	List() ([]T, error)
	Count() (int, error)
}
