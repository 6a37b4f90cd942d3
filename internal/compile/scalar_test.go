package compile

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/roach88/matchq/internal/match"
)

func TestBool(t *testing.T) {
	p := Bool(match.Ptr(true), archived)
	assert.Equal(t, "x => (x.archived == true)", p.String())
	assert.True(t, matches(t, p, invoice{Archived: true}))
	assert.False(t, matches(t, p, invoice{Archived: false}))

	p = Bool(match.Ptr(false), archived)
	assert.True(t, matches(t, p, invoice{Archived: false}))
}

func TestIDSet(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	ids := []uuid.UUID{a, b}
	p := IDSet(ids, invoiceID)

	assert.True(t, matches(t, p, invoice{ID: a}))
	assert.True(t, matches(t, p, invoice{ID: b}))
	assert.False(t, matches(t, p, invoice{ID: c}))

	// The predicate owns its copy of the set.
	ids[0] = c
	assert.True(t, matches(t, p, invoice{ID: a}))
	assert.False(t, matches(t, p, invoice{ID: c}))
}
