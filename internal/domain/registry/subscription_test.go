package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/bsteffaniak/chadreview-relay/internal/domain/model"
)

var testKey = model.PRKey{Owner: "octo", Repo: "hi", Number: 7}

// TestSubscriptionSet_AddIsIdempotent covers spec.md P4.
func TestSubscriptionSet_AddIsIdempotent(t *testing.T) {
	s := NewSubscriptionSet()

	s.Add(testKey)
	s.Add(testKey)

	assert.True(t, s.Contains(testKey))
	assert.Equal(t, 1, s.Len())
}

// TestSubscriptionSet_RemoveIsIdempotent covers spec.md P4.
func TestSubscriptionSet_RemoveIsIdempotent(t *testing.T) {
	s := NewSubscriptionSet()
	s.Add(testKey)

	s.Remove(testKey)
	s.Remove(testKey)

	assert.False(t, s.Contains(testKey))
	assert.Equal(t, 0, s.Len())
}

func TestSubscriptionSet_RemoveUnknownKeyIsNoop(t *testing.T) {
	s := NewSubscriptionSet()

	s.Remove(model.PRKey{Owner: "a", Repo: "b", Number: 1})

	assert.Equal(t, 0, s.Len())
}
