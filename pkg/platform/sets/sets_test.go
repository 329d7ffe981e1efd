package sets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDifference(t *testing.T) {
	existing := Of(1, 2, 3)
	fresh := Of(2, 3, 4)

	assert.Equal(t, []int{1}, Sorted(existing.Difference(fresh)))
	assert.Equal(t, []int{4}, Sorted(fresh.Difference(existing)))
	assert.Empty(t, existing.Difference(existing))
}

func TestUnion(t *testing.T) {
	a := Of("x")
	got := a.Union(Of("y"), Of("x", "z"))
	assert.Equal(t, []string{"x", "y", "z"}, Sorted(got))
	assert.Equal(t, 1, a.Len(), "receiver is not mutated")
}

func TestChunk(t *testing.T) {
	assert.Nil(t, Chunk([]int{}, 3))
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, Chunk([]int{1, 2, 3, 4, 5}, 2))
	assert.Equal(t, [][]int{{1, 2}}, Chunk([]int{1, 2}, 1000))
}
