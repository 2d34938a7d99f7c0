package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func index(t *testing.T, order []string) map[string]int {
	t.Helper()
	idx := make(map[string]int, len(order))
	for i, id := range order {
		idx[id] = i
	}
	return idx
}

func TestGraph_Sort_DependenciesFirst(t *testing.T) {
	g := New()
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("b", "c"))

	order, err := g.Sort()
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, order)
}

func TestGraph_Sort_Diamond(t *testing.T) {
	// top depends on left and right, both depend on base
	g := New()
	require.NoError(t, g.AddEdge("top", "left"))
	require.NoError(t, g.AddEdge("top", "right"))
	require.NoError(t, g.AddEdge("left", "base"))
	require.NoError(t, g.AddEdge("right", "base"))

	order, err := g.Sort()
	require.NoError(t, err)

	idx := index(t, order)
	assert.Less(t, idx["base"], idx["left"])
	assert.Less(t, idx["base"], idx["right"])
	assert.Less(t, idx["left"], idx["top"])
	assert.Less(t, idx["right"], idx["top"])
}

func TestGraph_Sort_TieBreakIsDiscoveryOrder(t *testing.T) {
	g := New()
	g.AddNode("gamma")
	g.AddNode("alpha")
	g.AddNode("beta")

	order, err := g.Sort()
	require.NoError(t, err)
	assert.Equal(t, []string{"gamma", "alpha", "beta"}, order)

	// Same nodes added in a different order sort differently but still
	// deterministically.
	g2 := New()
	g2.AddNode("beta")
	g2.AddNode("gamma")
	g2.AddNode("alpha")

	order2, err := g2.Sort()
	require.NoError(t, err)
	assert.Equal(t, []string{"beta", "gamma", "alpha"}, order2)
}

func TestGraph_AddEdge_RejectsCycle(t *testing.T) {
	g := New()
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("b", "c"))

	err := g.AddEdge("c", "a")
	require.Error(t, err)

	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	assert.True(t, cycle.On("a"))
	assert.True(t, cycle.On("b"))
	assert.True(t, cycle.On("c"))
	assert.Contains(t, cycle.Error(), "cyclic dependency")

	// The offending edge was rolled back; the graph stays usable.
	assert.True(t, g.IsAcyclic())
	_, err = g.Sort()
	assert.NoError(t, err)
}

func TestGraph_AddEdge_SelfCycle(t *testing.T) {
	g := New()
	err := g.AddEdge("a", "a")
	require.Error(t, err)

	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	assert.True(t, cycle.On("a"))
}

func TestGraph_DetectCycles_CleanGraph(t *testing.T) {
	g := New()
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("a", "c"))

	assert.NoError(t, g.DetectCycles())
	assert.True(t, g.IsAcyclic())
}

func TestGraph_AddNode_Idempotent(t *testing.T) {
	g := New()
	g.AddNode("a")
	g.AddNode("a")
	assert.Equal(t, 1, g.Size())
}

func TestGraph_Dependencies(t *testing.T) {
	g := New()
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("a", "c"))

	assert.Equal(t, []string{"b", "c"}, g.Dependencies("a"))
	assert.Empty(t, g.Dependencies("b"))
}
