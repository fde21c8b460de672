// Package graph provides the dependency graph for proposal tasks and
// the closure expansion used when editing a generated document.
package graph

import (
	"errors"
	"fmt"
	"sync"

	"github.com/draftgen/draftgen/internal/registry"
	"github.com/draftgen/draftgen/pkg/models"
)

// ErrCycleDetected indicates a circular dependency in the task graph.
var ErrCycleDetected = errors.New("circular dependency detected")

// Graph is a directed acyclic graph over the registry tasks.
// Edges point from a task to the tasks it depends on; dependents are
// derived by reversing those edges.
type Graph struct {
	mu sync.RWMutex
	// nodes maps task ID to its registry spec.
	nodes map[models.TaskID]registry.Spec
	// edges maps task ID to the tasks it depends on.
	edges map[models.TaskID][]models.TaskID
	// debugLog is an optional logging function.
	debugLog func(format string, args ...interface{})
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[models.TaskID]registry.Spec),
		edges:    make(map[models.TaskID][]models.TaskID),
		debugLog: func(format string, args ...interface{}) {},
	}
}

// FromRegistry builds the graph from the full task registry.
// The registry is fixed, so a build failure here is a programming error.
func FromRegistry() (*Graph, error) {
	g := New()
	if err := g.Build(registry.All()); err != nil {
		return nil, err
	}
	return g, nil
}

// SetDebugLog sets the debug logging function.
func (g *Graph) SetDebugLog(fn func(format string, args ...interface{})) {
	if fn != nil {
		g.debugLog = fn
	}
}

// Build constructs the graph from task specs.
// Returns an error on cycles or references to unknown tasks.
func (g *Graph) Build(specs []registry.Spec) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.debugLog("[graph.Build] building graph from %d tasks", len(specs))

	for _, s := range specs {
		g.nodes[s.ID] = s
		g.edges[s.ID] = nil
	}

	for _, s := range specs {
		for _, dep := range s.DependsOn {
			if _, exists := g.nodes[dep]; !exists {
				return fmt.Errorf("task %s depends on unknown task %s", s.ID, dep)
			}
			g.edges[s.ID] = append(g.edges[s.ID], dep)
		}
	}

	if g.hasCycleLocked() {
		return ErrCycleDetected
	}

	g.debugLog("[graph.Build] graph built with %d nodes", len(g.nodes))
	return nil
}

// HasCycle returns true if the graph contains a circular dependency.
func (g *Graph) HasCycle() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.hasCycleLocked()
}

// hasCycleLocked assumes the lock is held.
// Uses depth-first search with coloring to detect back edges.
func (g *Graph) hasCycleLocked() bool {
	// 0 = unvisited, 1 = in progress, 2 = done.
	colors := make(map[models.TaskID]int, len(g.nodes))

	var visit func(id models.TaskID) bool
	visit = func(id models.TaskID) bool {
		colors[id] = 1
		for _, dep := range g.edges[id] {
			switch colors[dep] {
			case 1:
				return true
			case 0:
				if visit(dep) {
					return true
				}
			}
		}
		colors[id] = 2
		return false
	}

	for id := range g.nodes {
		if colors[id] == 0 && visit(id) {
			return true
		}
	}
	return false
}

// TopologicalSort returns task IDs with all dependencies before their
// dependents. Ties are broken by registry declaration order so the
// result is deterministic.
func (g *Graph) TopologicalSort() ([]models.TaskID, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.hasCycleLocked() {
		return nil, ErrCycleDetected
	}

	visited := make(map[models.TaskID]bool, len(g.nodes))
	var result []models.TaskID

	var visit func(id models.TaskID)
	visit = func(id models.TaskID) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, dep := range g.edges[id] {
			visit(dep)
		}
		result = append(result, id)
	}

	for _, s := range registry.All() {
		if _, ok := g.nodes[s.ID]; ok {
			visit(s.ID)
		}
	}
	return result, nil
}

// Dependencies returns the tasks the given task depends on.
func (g *Graph) Dependencies(id models.TaskID) []models.TaskID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edges[id]
}

// Dependents returns the tasks that depend on the given task.
func (g *Graph) Dependents(id models.TaskID) []models.TaskID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.dependentsLocked(id)
}

func (g *Graph) dependentsLocked(id models.TaskID) []models.TaskID {
	var out []models.TaskID
	for node, deps := range g.edges {
		for _, dep := range deps {
			if dep == id {
				out = append(out, node)
				break
			}
		}
	}
	return out
}

// Size returns the number of tasks in the graph.
func (g *Graph) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// Expand widens a requested task set to keep a generated document
// consistent: every task downstream of a requested one is stale and
// must rerun.
//
// A single explicitly requested edit is honored literally, without
// expansion. Before a document exists there is nothing downstream to
// go stale, so the request is only canonicalized. Otherwise the
// forward closure over dependents is taken. The compile sink is never
// pulled in by expansion; pipelines append it themselves.
//
// The result is deduplicated and in registry declaration order.
func (g *Graph) Expand(requested []models.TaskID, explicitEdit, generated bool) []models.TaskID {
	if explicitEdit && len(requested) == 1 {
		return registry.SortCanonical(requested)
	}
	if !generated {
		return registry.SortCanonical(requested)
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	seen := make(map[models.TaskID]bool)
	queue := append([]models.TaskID(nil), requested...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		if _, ok := g.nodes[id]; !ok {
			continue
		}
		seen[id] = true
		for _, dep := range g.dependentsLocked(id) {
			if dep == models.TaskFinalCompilation {
				continue
			}
			if !seen[dep] {
				queue = append(queue, dep)
			}
		}
	}

	closure := make([]models.TaskID, 0, len(seen))
	for id := range seen {
		closure = append(closure, id)
	}
	return registry.SortCanonical(closure)
}
