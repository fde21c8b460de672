// Package orchestrator coordinates a session turn: routing the user's
// message, expanding the affected task set, running the pipeline, and
// persisting what came out.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/draftgen/draftgen/internal/graph"
	"github.com/draftgen/draftgen/internal/llm"
	"github.com/draftgen/draftgen/internal/pipeline"
	"github.com/draftgen/draftgen/internal/registry"
	"github.com/draftgen/draftgen/internal/router"
	"github.com/draftgen/draftgen/internal/state"
	"github.com/draftgen/draftgen/internal/tasks"
	"github.com/draftgen/draftgen/pkg/models"
)

// Store is the persistence surface the orchestrator needs: the session
// store plus full state reconstruction.
type Store interface {
	state.SessionStore
	LoadProjectState(sessionID string) (*state.ProjectState, error)
}

// Orchestrator drives sessions end to end.
type Orchestrator struct {
	store        Store
	client       llm.Client
	classifier   *router.Classifier
	graph        *graph.Graph
	tasks        []pipeline.Task
	observer     pipeline.Observer
	defaultRates map[string]float64
	maxParallel  int
	debugLog     func(format string, args ...interface{})
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithObserver sets the progress observer for pipeline runs.
func WithObserver(o pipeline.Observer) Option {
	return func(orc *Orchestrator) {
		if o != nil {
			orc.observer = o
		}
	}
}

// WithKeywords replaces the routing fallback keyword table.
func WithKeywords(kw *router.KeywordTable) Option {
	return func(orc *Orchestrator) {
		orc.classifier = router.New(orc.client, kw)
	}
}

// WithDefaultRates sets the configured default role rates.
func WithDefaultRates(rates map[string]float64) Option {
	return func(orc *Orchestrator) { orc.defaultRates = rates }
}

// WithMaxParallel caps concurrent tasks per pipeline level.
func WithMaxParallel(n int) Option {
	return func(orc *Orchestrator) { orc.maxParallel = n }
}

// WithTasks replaces the task set, for tests.
func WithTasks(ts []pipeline.Task) Option {
	return func(orc *Orchestrator) { orc.tasks = ts }
}

// WithDebugLog sets the debug logging function.
func WithDebugLog(fn func(format string, args ...interface{})) Option {
	return func(orc *Orchestrator) {
		if fn != nil {
			orc.debugLog = fn
			orc.classifier.SetDebugLog(fn)
			orc.graph.SetDebugLog(fn)
		}
	}
}

// New creates an orchestrator over the given store and generation
// backend.
func New(store Store, client llm.Client, opts ...Option) (*Orchestrator, error) {
	g, err := graph.FromRegistry()
	if err != nil {
		return nil, fmt.Errorf("build task graph: %w", err)
	}

	orc := &Orchestrator{
		store:      store,
		client:     client,
		classifier: router.New(client, nil),
		graph:      g,
		tasks:      tasks.All(client),
		observer:   pipeline.NopObserver,
		debugLog:   func(format string, args ...interface{}) {},
	}
	for _, opt := range opts {
		opt(orc)
	}
	return orc, nil
}

// TurnResult is what a handled turn produced.
type TurnResult struct {
	// Decision is the routing outcome for the turn.
	Decision models.Decision
	// Reply is the assistant's message for this turn.
	Reply string
	// State is the project state after the turn.
	State *state.ProjectState
	// Ran lists the tasks executed this turn, in plan order.
	Ran []models.TaskID
}

// HandleTurn processes one user message against a session. Routing
// never fails; pipeline errors are returned after the failure has been
// recorded on the session.
func (o *Orchestrator) HandleTurn(ctx context.Context, sessionID, utterance string) (*TurnResult, error) {
	st, err := o.store.LoadProjectState(sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	dec := o.classifier.Route(ctx, utterance, st)
	o.debugLog("[orchestrator] action=%s tasks=%v confidence=%.2f (%s)",
		dec.Action, dec.Tasks, dec.Confidence, dec.Reasoning)

	if err := o.store.AppendMessage(sessionID, "user", utterance); err != nil {
		return nil, fmt.Errorf("record message: %w", err)
	}
	st.Conversation = append(st.Conversation, state.Message{Role: "user", Content: utterance})

	if !dec.Settings.Empty() {
		// Session scope remembers the turn's settings; configured
		// defaults stay in config and are merged per run.
		remembered := router.EffectiveConstraints(nil, st.Constraints, dec.Settings)
		if err := o.store.SaveConstraints(sessionID, remembered); err != nil {
			return nil, fmt.Errorf("save constraints: %w", err)
		}
		st.Constraints = remembered
	}
	routedTasks := len(dec.Tasks)
	router.InjectConstraintTasks(&dec)

	result := &TurnResult{Decision: dec, State: st}

	switch dec.Action {
	case models.ActionGenerate:
		err = o.runPlan(ctx, st, nil, result, "full generation")
	case models.ActionEdit:
		// A single task the user explicitly asked for is never
		// auto-expanded; injected tasks always take the closure.
		explicit := len(dec.Tasks) == 1 && routedTasks == len(dec.Tasks)
		expanded := o.graph.Expand(dec.Tasks, explicit, st.Generated)
		if len(expanded) == 0 {
			result.Reply = "I could not tell which part of the proposal to update. Could you name the section?"
			break
		}
		err = o.runPlan(ctx, st, expanded, result, utterance)
	default:
		result.Reply = dec.Response
		if result.Reply == "" {
			result.Reply = "Tell me more about your project, or say \"generate\" when you are ready for the proposal."
		}
	}
	if err != nil {
		return result, err
	}

	if aerr := o.store.AppendMessage(sessionID, "assistant", result.Reply); aerr != nil {
		o.debugLog("[orchestrator] record reply failed: %v", aerr)
	}
	st.Conversation = append(st.Conversation, state.Message{Role: "assistant", Content: result.Reply})
	return result, nil
}

// Generate runs the full pipeline for a session without routing, as
// the one-shot CLI path does.
func (o *Orchestrator) Generate(ctx context.Context, sessionID string) (*TurnResult, error) {
	st, err := o.store.LoadProjectState(sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	result := &TurnResult{
		Decision: models.Decision{Action: models.ActionGenerate, Confidence: 1.0},
		State:    st,
	}
	if err := o.runPlan(ctx, st, nil, result, "full generation"); err != nil {
		return result, err
	}
	return result, nil
}

// runPlan executes either the full plan (taskSet == nil) or an edit
// plan over the expanded subset, then persists the outcome. reason is
// stored alongside each saved output.
func (o *Orchestrator) runPlan(ctx context.Context, st *state.ProjectState, taskSet []models.TaskID, result *TurnResult, reason string) error {
	exec := pipeline.NewExecutor(o.tasks,
		pipeline.WithTitleStore(o.store),
		pipeline.WithObserver(o.observer),
		pipeline.WithMaxParallel(o.maxParallel),
		pipeline.WithDebugLog(o.debugLog),
	)

	// The run sees defaults underneath the session and turn values.
	st.Constraints = router.EffectiveConstraints(o.defaultRates, st.Constraints, models.Constraints{})

	var pl *pipeline.Pipeline
	var err error
	if taskSet == nil {
		pl = pipeline.NewFull(exec, o.observer)
	} else {
		pl, err = pipeline.NewEdit(exec, o.graph, taskSet, o.observer)
		if err != nil {
			return err
		}
	}
	result.Ran = pl.Plan().Tasks()

	if err := o.store.SetStage(st.SessionID, string(models.StageRunning), ""); err != nil {
		return fmt.Errorf("mark running: %w", err)
	}

	if err := pl.Execute(ctx, st); err != nil {
		if serr := o.store.SetStage(st.SessionID, string(models.StageFailed), err.Error()); serr != nil {
			o.debugLog("[orchestrator] record failure: %v", serr)
		}
		result.Reply = "I could not complete this update. Please try again."
		return err
	}

	if st.Stage == models.StageFailed {
		// Completeness failure: recorded and reported, not an error.
		if serr := o.store.SetStage(st.SessionID, string(models.StageFailed), st.StatusMessage); serr != nil {
			o.debugLog("[orchestrator] record failure: %v", serr)
		}
		result.Reply = st.StatusMessage
		return nil
	}

	if err := o.persistOutputs(st, result.Ran, reason); err != nil {
		return err
	}

	if st.HasSection("final_proposal") && !st.Generated {
		st.Generated = true
		if err := o.store.SetGenerated(st.SessionID, true); err != nil {
			return fmt.Errorf("mark generated: %w", err)
		}
	}
	if err := o.store.SetStage(st.SessionID, string(models.StageCompleted), ""); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}

	if taskSet == nil {
		result.Reply = fmt.Sprintf("Your proposal %q is ready.", st.Title)
	} else {
		result.Reply = fmt.Sprintf("Updated %d section(s) of the proposal.", len(result.Ran))
	}
	return nil
}

// persistOutputs saves every output key the executed tasks produced.
func (o *Orchestrator) persistOutputs(st *state.ProjectState, ran []models.TaskID, reason string) error {
	for _, id := range ran {
		spec, ok := registry.Get(id)
		if !ok {
			continue
		}
		for _, key := range spec.OutputKeys {
			content := st.Get(key)
			if key == "proposal_title" && content == "" {
				content = st.Title
			}
			if content == "" {
				continue
			}
			if err := o.store.SaveOutput(st.SessionID, string(id), key, content, reason); err != nil {
				return fmt.Errorf("save %s output: %w", id, err)
			}
		}
	}
	return nil
}
