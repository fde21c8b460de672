package pipeline

import (
	"github.com/draftgen/draftgen/internal/graph"
	"github.com/draftgen/draftgen/internal/registry"
	"github.com/draftgen/draftgen/pkg/models"
)

// Plan is an ordered list of levels. Tasks within a level run
// concurrently; levels run strictly in order.
type Plan [][]models.TaskID

// Tasks returns all task IDs in the plan, in plan order.
func (p Plan) Tasks() []models.TaskID {
	var out []models.TaskID
	for _, level := range p {
		out = append(out, level...)
	}
	return out
}

// FullPlan returns the static plan for a complete generation: the
// title first, then every content task in parallel, then the compile
// sink. A non-nil requested set restricts each level to its members;
// nil means all tasks. Levels that filter down to nothing are dropped.
func FullPlan(requested []models.TaskID) Plan {
	var keep map[models.TaskID]bool
	if requested != nil {
		keep = make(map[models.TaskID]bool, len(requested))
		for _, id := range requested {
			keep[id] = true
		}
	}

	levels := Plan{
		{models.TaskTitle},
		registry.ContentTasks(),
		{models.TaskFinalCompilation},
	}

	var out Plan
	for _, level := range levels {
		if keep != nil {
			kept := level[:0:0]
			for _, id := range level {
				if keep[id] {
					kept = append(kept, id)
				}
			}
			level = kept
		}
		if len(level) > 0 {
			out = append(out, level)
		}
	}
	return out
}

// EditPlan computes levels for an arbitrary task subset: a task sits at
// level zero when none of its dependencies are in the subset, otherwise
// one past its deepest in-subset dependency. Dependencies outside the
// subset are already satisfied by persisted sections and impose no
// ordering. Tasks within a level are in registry declaration order.
func EditPlan(g *graph.Graph, tasks []models.TaskID) Plan {
	if len(tasks) == 0 {
		return nil
	}

	subset := make(map[models.TaskID]bool, len(tasks))
	for _, id := range tasks {
		subset[id] = true
	}

	depth := make(map[models.TaskID]int, len(tasks))
	var levelOf func(id models.TaskID) int
	levelOf = func(id models.TaskID) int {
		if d, ok := depth[id]; ok {
			return d
		}
		d := 0
		for _, dep := range g.Dependencies(id) {
			if !subset[dep] {
				continue
			}
			if cand := levelOf(dep) + 1; cand > d {
				d = cand
			}
		}
		depth[id] = d
		return d
	}

	maxDepth := 0
	for _, id := range registry.SortCanonical(tasks) {
		if d := levelOf(id); d > maxDepth {
			maxDepth = d
		}
	}

	plan := make(Plan, maxDepth+1)
	for _, id := range registry.SortCanonical(tasks) {
		d := depth[id]
		plan[d] = append(plan[d], id)
	}
	return plan
}
