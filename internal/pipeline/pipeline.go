package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/draftgen/draftgen/internal/graph"
	"github.com/draftgen/draftgen/internal/state"
	"github.com/draftgen/draftgen/pkg/models"
)

// ErrPrerequisite indicates a run was rejected before any task was
// dispatched.
var ErrPrerequisite = errors.New("prerequisite not met")

// ErrNoTasks indicates an edit run was requested with an empty task set.
var ErrNoTasks = errors.New("no tasks to run")

// PrerequisiteFunc validates state before a run starts.
type PrerequisiteFunc func(st *state.ProjectState) error

// RequireInitialIdea is the default prerequisite: a run needs a
// non-empty project idea.
func RequireInitialIdea(st *state.ProjectState) error {
	if strings.TrimSpace(st.InitialIdea) == "" {
		return fmt.Errorf("%w: no project idea provided", ErrPrerequisite)
	}
	return nil
}

// Pipeline executes a plan against project state: prerequisite check,
// level execution, and terminal stage bookkeeping.
type Pipeline struct {
	name     string
	plan     Plan
	executor *Executor
	check    PrerequisiteFunc
	observer Observer
}

// NewFull creates the full-generation pipeline.
func NewFull(executor *Executor, observer Observer) *Pipeline {
	return newPipeline("full_proposal", FullPlan(nil), executor, observer)
}

// NewEdit creates a pipeline over an already-expanded task subset.
func NewEdit(executor *Executor, g *graph.Graph, tasks []models.TaskID, observer Observer) (*Pipeline, error) {
	if len(tasks) == 0 {
		return nil, ErrNoTasks
	}
	return newPipeline("edit", EditPlan(g, tasks), executor, observer), nil
}

func newPipeline(name string, plan Plan, executor *Executor, observer Observer) *Pipeline {
	if observer == nil {
		observer = NopObserver
	}
	return &Pipeline{
		name:     name,
		plan:     plan,
		executor: executor,
		check:    RequireInitialIdea,
		observer: observer,
	}
}

// SetPrerequisite replaces the default prerequisite check.
func (p *Pipeline) SetPrerequisite(check PrerequisiteFunc) {
	if check != nil {
		p.check = check
	}
}

// Plan returns the pipeline's plan.
func (p *Pipeline) Plan() Plan {
	return p.plan
}

// Execute runs the plan. The prerequisite is checked before anything
// is dispatched. A hard task error leaves the state failed and is
// returned; a completeness failure leaves the state failed with an
// explanatory message and returns nil.
func (p *Pipeline) Execute(ctx context.Context, st *state.ProjectState) error {
	if err := p.check(st); err != nil {
		return err
	}

	st.Stage = models.StageRunning
	st.StatusMessage = ""
	p.observer.Progress(StageStart, fmt.Sprintf("%s: %d level(s)", p.name, len(p.plan)))

	if err := p.executor.RunLevels(ctx, p.plan, st); err != nil {
		st.Stage = models.StageFailed
		st.StatusMessage = err.Error()
		p.observer.Progress(StageFailed, err.Error())
		return err
	}

	if st.Stage == models.StageFailed {
		p.observer.Progress(StageFailed, st.StatusMessage)
		return nil
	}

	st.Stage = models.StageCompleted
	p.observer.Progress(StageCompleted, p.name)
	return nil
}
