package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/draftgen/draftgen/internal/registry"
	"github.com/draftgen/draftgen/internal/state"
	"github.com/draftgen/draftgen/pkg/models"
)

// requiredSections are the keys the final document cannot be built
// without, in report order.
var requiredSections = []string{
	"refined_scope",
	"business_analysis",
	"technical_spec",
	"project_plan",
	"resource_plan",
}

// compileTask validates section completeness and assembles the final
// proposal document. Missing content is a business failure, reported
// through the result, never an error.
type compileTask struct{}

func (t *compileTask) ID() models.TaskID { return models.TaskFinalCompilation }

func (t *compileTask) Run(_ context.Context, snap *state.ProjectState) (models.TaskResult, error) {
	var missing []string
	for _, key := range requiredSections {
		if strings.TrimSpace(snap.Get(key)) == "" {
			missing = append(missing, registry.SectionName(key))
		}
	}
	if len(missing) > 0 {
		return models.TaskResult{
			Failure: fmt.Sprintf("missing required components: %s", strings.Join(missing, ", ")),
		}, nil
	}

	title := snap.Title
	if title == "" {
		title = snap.Get("proposal_title")
	}
	if title == "" {
		title = "Project Proposal"
	}

	return models.TaskResult{
		Outputs: map[string]string{
			"final_proposal": assemble(title, snap),
		},
	}, nil
}

// assemble renders the final document in section order: title, the
// original idea, the market survey, then each generated section.
func assemble(title string, snap *state.ProjectState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)

	sections := []struct {
		heading string
		content string
	}{
		{"Initial Idea", snap.InitialIdea},
		{"Similar Products", snap.Get("similar_products")},
		{"Refined Scope", snap.Get("refined_scope")},
		{"Business Analysis", snap.Get("business_analysis")},
		{"Technical Specification", snap.Get("technical_spec")},
		{"Project Plan", snap.Get("project_plan")},
		{"Resource Plan", snap.Get("resource_plan")},
	}
	for _, s := range sections {
		if strings.TrimSpace(s.content) == "" {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", s.heading, s.content)
	}
	return strings.TrimSpace(b.String()) + "\n"
}
