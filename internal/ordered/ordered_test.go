package ordered

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

func abc() *orderedmap.OrderedMap[string, int] {
	m := orderedmap.New[string, int]()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)
	return m
}

func TestRenameKeepsPosition(t *testing.T) {
	m := abc()
	require.NoError(t, Rename(m, "b", "x", 2))
	assert.Equal(t, []string{"a", "x", "c"}, Keys(m))
	assert.Equal(t, []int{1, 2, 3}, Values(m))
}

func TestRenameMissingKeyRollsBack(t *testing.T) {
	m := abc()
	assert.Error(t, Rename(m, "missing", "x", 9))
	assert.Equal(t, []string{"a", "b", "c"}, Keys(m))
}

func TestSetAfter(t *testing.T) {
	m := abc()
	require.NoError(t, SetAfter(m, "a", "a_1", 10))
	assert.Equal(t, []string{"a", "a_1", "b", "c"}, Keys(m))

	require.NoError(t, SetAfter(m, "c", "c_1", 30))
	assert.Equal(t, []string{"a", "a_1", "b", "c", "c_1"}, Keys(m))
}
