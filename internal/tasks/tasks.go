package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/draftgen/draftgen/internal/llm"
	"github.com/draftgen/draftgen/internal/pipeline"
	"github.com/draftgen/draftgen/internal/state"
	"github.com/draftgen/draftgen/pkg/models"
)

// Option configures the task set.
type Option func(*settings)

type settings struct {
	maxTokens int
}

// WithMaxTokens caps the completion size of every generation task.
// Zero means the backend default.
func WithMaxTokens(n int) Option {
	return func(s *settings) { s.maxTokens = n }
}

// All returns every registered task backed by the given client, in a
// form the executor accepts.
func All(client llm.Client, opts ...Option) []pipeline.Task {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	return []pipeline.Task{
		&titleTask{client: client, maxTokens: s.maxTokens},
		&scopeTask{client: client, maxTokens: s.maxTokens},
		&sectionTask{
			id:        models.TaskBusinessAnalyst,
			key:       "business_analysis",
			system:    businessSystemPrompt,
			build:     buildBusinessPrompt,
			client:    client,
			maxTokens: s.maxTokens,
		},
		&sectionTask{
			id:        models.TaskTechnicalArchitect,
			key:       "technical_spec",
			system:    technicalSystemPrompt,
			build:     buildTechnicalPrompt,
			client:    client,
			maxTokens: s.maxTokens,
		},
		&sectionTask{
			id:        models.TaskProjectManager,
			key:       "project_plan",
			system:    projectPlanSystemPrompt,
			build:     buildProjectPlanPrompt,
			client:    client,
			maxTokens: s.maxTokens,
		},
		&sectionTask{
			id:        models.TaskResourceAllocation,
			key:       "resource_plan",
			system:    resourceSystemPrompt,
			build:     buildResourcePrompt,
			client:    client,
			maxTokens: s.maxTokens,
		},
		&compileTask{},
	}
}

// sectionTask generates one document section from a prompt built
// against the level snapshot.
type sectionTask struct {
	id        models.TaskID
	key       string
	system    string
	build     func(snap *state.ProjectState) string
	client    llm.Client
	maxTokens int
}

func (t *sectionTask) ID() models.TaskID { return t.id }

func (t *sectionTask) Run(ctx context.Context, snap *state.ProjectState) (models.TaskResult, error) {
	out, err := t.client.Complete(ctx, llm.Request{
		System:    t.system,
		Prompt:    t.build(snap),
		MaxTokens: t.maxTokens,
	})
	if err != nil {
		return models.TaskResult{}, fmt.Errorf("%s: %w", t.id, err)
	}
	return models.TaskResult{
		Outputs: map[string]string{t.key: strings.TrimSpace(out)},
	}, nil
}

// titleTask generates the proposal title. A backend failure is
// recoverable here: the title falls back to an idea-derived one
// rather than failing the run.
type titleTask struct {
	client    llm.Client
	maxTokens int
}

func (t *titleTask) ID() models.TaskID { return models.TaskTitle }

func (t *titleTask) Run(ctx context.Context, snap *state.ProjectState) (models.TaskResult, error) {
	out, err := t.client.Complete(ctx, llm.Request{
		System:    titleSystemPrompt,
		Prompt:    buildTitlePrompt(snap),
		MaxTokens: t.maxTokens,
	})

	title := cleanTitle(out)
	if err != nil || title == "" {
		title = fallbackTitle(snap.InitialIdea)
	}
	return models.TaskResult{
		Outputs: map[string]string{"proposal_title": title},
	}, nil
}

// cleanTitle strips quoting, fencing, and trailing punctuation the
// model sometimes adds, and keeps only the first line.
func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.Trim(s, "`\"' ")
	s = strings.TrimSuffix(s, ".")
	return strings.TrimSpace(s)
}

// fallbackTitle derives a title from the idea itself.
func fallbackTitle(idea string) string {
	idea = strings.TrimSpace(idea)
	if idea == "" {
		idea = "Project"
	}
	if len(idea) > 50 {
		idea = strings.TrimSpace(idea[:50])
	}
	return idea + " Proposal"
}

// scopeTask produces both scope outputs: the refined scope and the
// similar-products survey. Two completions, one task.
type scopeTask struct {
	client    llm.Client
	maxTokens int
}

func (t *scopeTask) ID() models.TaskID { return models.TaskScopeRefinement }

func (t *scopeTask) Run(ctx context.Context, snap *state.ProjectState) (models.TaskResult, error) {
	scope, err := t.client.Complete(ctx, llm.Request{
		System:    scopeSystemPrompt,
		Prompt:    buildScopePrompt(snap),
		MaxTokens: t.maxTokens,
	})
	if err != nil {
		return models.TaskResult{}, fmt.Errorf("%s: %w", models.TaskScopeRefinement, err)
	}

	products, err := t.client.Complete(ctx, llm.Request{
		System:    similarProductsSystemPrompt,
		Prompt:    buildSimilarProductsPrompt(snap),
		MaxTokens: t.maxTokens,
	})
	if err != nil {
		return models.TaskResult{}, fmt.Errorf("%s: %w", models.TaskScopeRefinement, err)
	}

	return models.TaskResult{
		Outputs: map[string]string{
			"refined_scope":    strings.TrimSpace(scope),
			"similar_products": strings.TrimSpace(products),
		},
	}, nil
}
