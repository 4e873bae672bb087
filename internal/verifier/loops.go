package verifier

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/minicheck/internal/ir"
)

// Loop describes a cycle in a function's control-flow graph.
//
// Loops are informational. Cyclic control flow is well-formed as long as
// every block is entered with one consistent liveness set.
type Loop struct {
	Blocks  []ir.BbName `json:"blocks"` // members of the strongly connected component, sorted
	Path    []ir.BbName `json:"path"`   // one traversal: ["bb1", "bb2", "bb1"]
	Message string      `json:"message"`
}

// AnalyzeLoops finds the cycles of a function's block graph.
//
// The algorithm:
//  1. Build block → successor edges from terminators (missing targets are ignored)
//  2. Use Tarjan's algorithm to find strongly connected components
//  3. Report each SCC with more than one block, or a block that jumps to itself
//
// An acyclic function returns an empty list. The result is ordered by the
// smallest block name in each loop.
func AnalyzeLoops(fn *ir.Function) []Loop {
	graph := buildBlockGraph(fn)

	var loops []Loop
	for _, scc := range tarjanSCC(graph) {
		if len(scc) > 1 || hasSelfLoop(scc[0], graph) {
			loops = append(loops, sccToLoop(scc, graph))
		}
	}
	slices.SortFunc(loops, func(a, b Loop) int {
		return strings.Compare(string(a.Blocks[0]), string(b.Blocks[0]))
	})
	if loops == nil {
		return []Loop{}
	}
	return loops
}

// blockGraph maps a block to the blocks its terminator may jump to.
type blockGraph map[ir.BbName][]ir.BbName

func buildBlockGraph(fn *ir.Function) blockGraph {
	graph := make(blockGraph, len(fn.Blocks))
	for name, block := range fn.Blocks {
		edges := []ir.BbName{}
		for _, next := range successors(block.Terminator) {
			if _, ok := fn.Blocks[next]; ok {
				edges = append(edges, next)
			}
		}
		graph[name] = edges
	}
	return graph
}

func hasSelfLoop(node ir.BbName, graph blockGraph) bool {
	return slices.Contains(graph[node], node)
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Nodes are visited in name order so the output is deterministic.
func tarjanSCC(graph blockGraph) [][]ir.BbName {
	var (
		index   = 0
		stack   []ir.BbName
		indices = make(map[ir.BbName]int)
		lowlink = make(map[ir.BbName]int)
		onStack = make(map[ir.BbName]bool)
		sccs    [][]ir.BbName
	)

	var strongConnect func(ir.BbName)
	strongConnect = func(v ir.BbName) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []ir.BbName
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			slices.Sort(scc)
			sccs = append(sccs, scc)
		}
	}

	for _, node := range ir.SortedKeys(graph) {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}
	return sccs
}

func sccToLoop(scc []ir.BbName, graph blockGraph) Loop {
	if len(scc) == 1 {
		return Loop{
			Blocks:  scc,
			Path:    []ir.BbName{scc[0], scc[0]},
			Message: fmt.Sprintf("self-loop: %s → %s", scc[0], scc[0]),
		}
	}

	path := reconstructCyclePath(scc, graph)
	parts := make([]string, len(path))
	for i, b := range path {
		parts[i] = string(b)
	}
	return Loop{
		Blocks:  scc,
		Path:    path,
		Message: fmt.Sprintf("loop: %s", strings.Join(parts, " → ")),
	}
}

// reconstructCyclePath walks edges inside the SCC from its first member
// until it returns to the start or runs out of unvisited members.
func reconstructCyclePath(scc []ir.BbName, graph blockGraph) []ir.BbName {
	members := make(map[ir.BbName]bool, len(scc))
	for _, node := range scc {
		members[node] = true
	}

	start := scc[0]
	current := start
	path := []ir.BbName{current}
	visited := make(map[ir.BbName]bool)
	for {
		visited[current] = true

		var next ir.BbName
		found := false
		for _, neighbor := range graph[current] {
			if members[neighbor] && (!visited[neighbor] || neighbor == start) {
				next, found = neighbor, true
				break
			}
		}
		if !found {
			break
		}

		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}
	return path
}
