package dag

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEntity struct {
	id    string
	deps  []string
	log   *[]string
	fails bool
}

func (f *fakeEntity) ID() string             { return f.id }
func (f *fakeEntity) Dependencies() []string { return f.deps }
func (f *fakeEntity) Calculate() error {
	if f.fails {
		return errors.New("boom")
	}
	if f.log != nil {
		*f.log = append(*f.log, f.id)
	}
	return nil
}

func indexOf(order []string, id string) int {
	for i, s := range order {
		if s == id {
			return i
		}
	}
	return -1
}

func TestEvaluate_RespectsReferences(t *testing.T) {
	var order []string
	entities := []*fakeEntity{
		{id: "d", deps: []string{"c", "b"}, log: &order},
		{id: "c", deps: []string{"b"}, log: &order},
		{id: "b", deps: []string{"a"}, log: &order},
		{id: "a", log: &order},
		{id: "e", deps: []string{"outside"}, log: &order},
	}

	require.NoError(t, Evaluate(entities))
	require.Len(t, order, len(entities), "every entity is calculated exactly once")

	for _, e := range entities {
		for _, dep := range e.deps {
			if dep == "outside" {
				continue
			}
			assert.Less(t, indexOf(order, dep), indexOf(order, e.id), "%s must be calculated before %s", dep, e.id)
		}
	}
}

func TestEvaluate_IndependentEntitiesKeepDeclarationOrder(t *testing.T) {
	var order []string
	entities := []*fakeEntity{
		{id: "x", log: &order},
		{id: "y", log: &order},
		{id: "z", log: &order},
	}
	require.NoError(t, Evaluate(entities))
	assert.Equal(t, []string{"x", "y", "z"}, order)
}

func TestEvaluate_CycleFailsInsteadOfLooping(t *testing.T) {
	var order []string
	entities := []*fakeEntity{
		{id: "ok", log: &order},
		{id: "x", deps: []string{"y"}, log: &order},
		{id: "y", deps: []string{"x"}, log: &order},
	}

	err := Evaluate(entities)
	var cyc *CyclicDependencyError
	require.True(t, errors.As(err, &cyc))
	assert.ElementsMatch(t, []string{"x", "y"}, cyc.Entities)
	assert.Equal(t, []string{"ok"}, order)
}

func TestEvaluate_PropagatesCalculateError(t *testing.T) {
	err := Evaluate([]*fakeEntity{{id: "a", fails: true}})
	assert.EqualError(t, err, "boom")
}

func TestEvaluate_Empty(t *testing.T) {
	assert.NoError(t, Evaluate[*fakeEntity](nil))
}
