package todo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	assert.Equal(t, "Completed", StatusOf(true).String())
	assert.Equal(t, "Incomplete", StatusOf(false).String())
}

func TestNewEvent(t *testing.T) {
	e := NewEvent(OpDelete, 3, ErrNotFound)
	assert.False(t, e.Found)
	assert.Equal(t, uint64(3), e.TodoID)

	f := NewEvent(OpDelete, 3, nil)
	assert.True(t, f.Found)
	assert.NotEqual(t, e.ID, f.ID)

	assert.True(t, NewEvent(OpCreate, 1, errors.New("x")).Timestamp.Location().String() == "UTC")
}
