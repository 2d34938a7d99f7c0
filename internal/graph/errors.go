package graph

import (
	"fmt"
	"strings"
)

// CycleError reports a cycle among component definitions.
// Path holds every identity on the cycle in edge order; the last
// element depends back on the first.
type CycleError struct {
	Node string
	Path []string
}

func (e CycleError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("cyclic dependency detected: %s -> %s", e.Node, e.Node)
	}

	return fmt.Sprintf("cyclic dependency detected: %s -> %s",
		strings.Join(e.Path, " -> "), e.Path[0])
}

// On reports whether the given identity lies on the cycle.
func (e CycleError) On(id string) bool {
	if e.Node == id {
		return true
	}
	for _, p := range e.Path {
		if p == id {
			return true
		}
	}
	return false
}
