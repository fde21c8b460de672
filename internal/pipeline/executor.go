package pipeline

import (
	"context"
	"fmt"

	"github.com/draftgen/draftgen/internal/registry"
	"github.com/draftgen/draftgen/internal/state"
	"github.com/draftgen/draftgen/pkg/models"
)

// Task is one runnable unit of the plan. Tasks read from the snapshot
// they are given and return their outputs; they never write shared
// state themselves.
type Task interface {
	ID() models.TaskID
	Run(ctx context.Context, snap *state.ProjectState) (models.TaskResult, error)
}

// TitleStore persists the proposal title as soon as the title task
// finishes, without waiting for the rest of its level.
type TitleStore interface {
	SaveTitle(sessionID, title string) error
}

// TaskError wraps the first error of a level with the task that
// produced it.
type TaskError struct {
	Task models.TaskID
	Err  error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %s: %v", e.Task, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// Executor runs plan levels: tasks within a level fan out to
// goroutines against a shared snapshot, and their outputs merge back
// into the live state one result at a time.
type Executor struct {
	tasks       map[models.TaskID]Task
	store       TitleStore
	observer    Observer
	maxParallel int
	debugLog    func(format string, args ...interface{})
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithTitleStore enables the title write-through.
func WithTitleStore(store TitleStore) ExecutorOption {
	return func(e *Executor) { e.store = store }
}

// WithObserver sets the progress observer.
func WithObserver(o Observer) ExecutorOption {
	return func(e *Executor) {
		if o != nil {
			e.observer = o
		}
	}
}

// WithMaxParallel caps concurrent tasks per level. Zero or negative
// means level-sized, the default.
func WithMaxParallel(n int) ExecutorOption {
	return func(e *Executor) { e.maxParallel = n }
}

// WithDebugLog sets the debug logging function.
func WithDebugLog(fn func(format string, args ...interface{})) ExecutorOption {
	return func(e *Executor) {
		if fn != nil {
			e.debugLog = fn
		}
	}
}

// NewExecutor creates an executor over the given tasks.
func NewExecutor(tasks []Task, opts ...ExecutorOption) *Executor {
	e := &Executor{
		tasks:    make(map[models.TaskID]Task, len(tasks)),
		observer: NopObserver,
		debugLog: func(format string, args ...interface{}) {},
	}
	for _, t := range tasks {
		e.tasks[t.ID()] = t
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// taskOutcome carries one task's result across the merge channel.
type taskOutcome struct {
	id     models.TaskID
	result models.TaskResult
	err    error
}

// RunLevels executes the plan against the live state. The whole plan
// is validated against the registry before anything is dispatched.
//
// Within a level the first error is recorded, already-running siblings
// finish and their outputs still merge, and remaining levels are
// skipped. A soft completeness failure ends the run in the failed
// stage without an error.
func (e *Executor) RunLevels(ctx context.Context, plan Plan, st *state.ProjectState) error {
	for _, level := range plan {
		for _, id := range level {
			if _, ok := e.tasks[id]; !ok {
				return fmt.Errorf("%w: %s", registry.ErrUnknownTask, id)
			}
		}
	}

	for i, level := range plan {
		e.debugLog("[executor] level %d: %v", i, level)
		e.observer.Progress(StageLevel, fmt.Sprintf("running %d task(s)", len(level)))

		if err := e.runLevel(ctx, level, st); err != nil {
			return err
		}
		if st.Stage == models.StageFailed {
			// Completeness failure: stop without an error.
			return nil
		}
	}
	return nil
}

func (e *Executor) runLevel(ctx context.Context, level []models.TaskID, st *state.ProjectState) error {
	snap := st.Clone()
	results := make(chan taskOutcome, len(level))

	var sem chan struct{}
	if e.maxParallel > 0 {
		sem = make(chan struct{}, e.maxParallel)
	}

	for _, id := range level {
		task := e.tasks[id]
		go func(id models.TaskID, task Task) {
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}
			result, err := task.Run(ctx, snap)
			results <- taskOutcome{id: id, result: result, err: err}
		}(id, task)
	}

	// Merging happens only here, so state writes are serialized
	// without a lock.
	var firstErr *TaskError
	for range level {
		out := <-results

		if out.err != nil {
			e.observer.Progress(StageTask, fmt.Sprintf("%s failed: %v", out.id, out.err))
			if firstErr == nil {
				firstErr = &TaskError{Task: out.id, Err: out.err}
			}
			continue
		}

		if out.result.Failure != "" {
			st.Stage = models.StageFailed
			st.StatusMessage = out.result.Failure
			e.observer.Progress(StageTask, fmt.Sprintf("%s: %s", out.id, out.result.Failure))
			continue
		}

		st.Apply(out.result.Outputs)
		e.mergeTitle(out, st)
		e.observer.Progress(StageTask, fmt.Sprintf("%s completed", out.id))
	}

	if firstErr != nil {
		return firstErr
	}
	return nil
}

// mergeTitle applies the title write-through: the title is visible in
// the session store as soon as it exists. A store failure here only
// logs; the run goes on.
func (e *Executor) mergeTitle(out taskOutcome, st *state.ProjectState) {
	if out.id != models.TaskTitle {
		return
	}
	title, ok := out.result.Outputs["proposal_title"]
	if !ok || title == "" {
		return
	}

	st.Title = title
	if e.store != nil {
		if err := e.store.SaveTitle(st.SessionID, title); err != nil {
			e.debugLog("[executor] title write-through failed: %v", err)
		}
	}
}
