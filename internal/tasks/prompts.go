// Package tasks implements the proposal generation tasks and the
// compile sink that assembles the final document.
package tasks

import (
	"fmt"
	"sort"
	"strings"

	"github.com/draftgen/draftgen/internal/registry"
	"github.com/draftgen/draftgen/internal/router"
	"github.com/draftgen/draftgen/internal/state"
)

const titleSystemPrompt = `You are a title generation expert. Create a clear,
concise, professional proposal title of 4-8 words. Include the project
category where it fits (e.g. "Website", "Mobile App", "E-commerce") and
prefer a "... Project Proposal" form. Return ONLY the title, with no
quotes, markdown, or trailing period.`

const scopeSystemPrompt = `You are a scope refinement specialist. Refine the
client's exact project idea into a concrete, well-structured scope. Preserve
the client's vision: extract the specific features, deliverables, and
requirements they mention, and enhance rather than replace them. If a budget
or timeline is stated, treat it as a hard constraint.`

const similarProductsSystemPrompt = `You are a market researcher. Survey
existing products similar to the client's project idea: name real,
comparable products, what they do well, and where the client's idea can
differentiate. Stay specific to the idea given.`

const businessSystemPrompt = `You are a business analyst. Analyze the
business viability of the client's specific project: market fit, target
users, ROI, and the business case for the stated requirements. If a budget
or timeline is stated, confirm feasibility within it and separate essential
features from optional ones. Do not recommend additions that would bust the
constraints.`

const technicalSystemPrompt = `You are a technical architect. Design the
technical approach for the client's specific project: technology stack,
system architecture, data model, and integrations. Justify choices against
the stated scope, and keep the design buildable by a small team.`

const projectPlanSystemPrompt = `You are a project manager. Build the
delivery plan for the client's specific project: phases, milestones,
deliverables per phase, and a schedule. If a timeline is stated, it is a
hard deadline; every phase must fit inside it.`

const resourceSystemPrompt = `You are a resource manager. Staff the project
and cost it out against the detailed project plan. Use the hourly rates
given in the prompt; rates stated by the client override any defaults. If a
budget is stated it is a hard ceiling: verify the total cost fits under it,
and propose a phased approach when it cannot. State the total explicitly,
e.g. "Total Cost: $X (within $Y budget)".`

// sectionOr returns the named section, or a fallback when it has not
// been generated yet. During a full run the content tasks share one
// level, so upstream sections are often still empty.
func sectionOr(snap *state.ProjectState, key, fallback string) string {
	if v := snap.Get(key); strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

// contextBlock renders the named sections that already exist, labeled
// by their human names.
func contextBlock(snap *state.ProjectState, keys ...string) string {
	var b strings.Builder
	for _, key := range keys {
		v := snap.Get(key)
		if strings.TrimSpace(v) == "" {
			continue
		}
		fmt.Fprintf(&b, "## %s\n%s\n\n", heading(registry.SectionName(key)), v)
	}
	return b.String()
}

// constraintsBlock renders the effective rates, budget, and timeline
// for prompts that must respect them.
func constraintsBlock(snap *state.ProjectState) string {
	c := snap.Constraints
	if c.Empty() {
		return ""
	}

	var b strings.Builder
	b.WriteString("## Constraints\n")
	if len(c.Rates) > 0 {
		b.WriteString("Hourly rates (client-stated rates override defaults):\n")
		roles := make([]string, 0, len(c.Rates))
		for role := range c.Rates {
			roles = append(roles, role)
		}
		sort.Strings(roles)
		for _, role := range roles {
			fmt.Fprintf(&b, "- %s: $%g/hour\n", role, router.HourlyRate(c.Rates[role]))
		}
	}
	if c.Budget != "" {
		fmt.Fprintf(&b, "Budget: %s (hard ceiling)\n", c.Budget)
	}
	if c.Timeline.Display != "" {
		fmt.Fprintf(&b, "Timeline: %s", c.Timeline.Display)
		if c.Timeline.Hours > 0 {
			fmt.Fprintf(&b, " (~%d working hours)", c.Timeline.Hours)
		}
		b.WriteString(" (hard deadline)\n")
	}
	b.WriteString("\n")
	return b.String()
}

func buildTitlePrompt(snap *state.ProjectState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Project idea: %s\n", snap.InitialIdea)
	if snap.Title != "" {
		fmt.Fprintf(&b, "\nCurrent title (generate a different one): %s\n", snap.Title)
		if msg := lastUserMessage(snap); msg != "" {
			fmt.Fprintf(&b, "Client feedback: %s\n", msg)
		}
	}
	b.WriteString("\nReturn only the title.")
	return b.String()
}

func buildScopePrompt(snap *state.ProjectState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Project idea:\n%s\n\n", snap.InitialIdea)
	b.WriteString(constraintsBlock(snap))
	if prev := snap.Get("refined_scope"); prev != "" {
		fmt.Fprintf(&b, "## Previous scope (revise per the latest feedback)\n%s\n\n", prev)
		if msg := lastUserMessage(snap); msg != "" {
			fmt.Fprintf(&b, "Client feedback: %s\n", msg)
		}
	}
	b.WriteString("Produce the refined project scope.")
	return b.String()
}

func buildSimilarProductsPrompt(snap *state.ProjectState) string {
	return fmt.Sprintf("Project idea:\n%s\n\nList and compare similar existing products.", snap.InitialIdea)
}

func buildBusinessPrompt(snap *state.ProjectState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Project scope:\n%s\n\n",
		sectionOr(snap, "refined_scope", snap.InitialIdea))
	b.WriteString(constraintsBlock(snap))
	b.WriteString(contextBlock(snap, "similar_products"))
	if msg := lastUserMessage(snap); snap.HasSection("business_analysis") && msg != "" {
		fmt.Fprintf(&b, "Client feedback: %s\n\n", msg)
	}
	b.WriteString("Produce the business analysis.")
	return b.String()
}

func buildTechnicalPrompt(snap *state.ProjectState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Project scope:\n%s\n\n",
		sectionOr(snap, "refined_scope", snap.InitialIdea))
	b.WriteString(contextBlock(snap, "business_analysis"))
	if msg := lastUserMessage(snap); snap.HasSection("technical_spec") && msg != "" {
		fmt.Fprintf(&b, "Client feedback: %s\n\n", msg)
	}
	b.WriteString("Produce the technical specification.")
	return b.String()
}

func buildProjectPlanPrompt(snap *state.ProjectState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Project scope:\n%s\n\n",
		sectionOr(snap, "refined_scope", snap.InitialIdea))
	b.WriteString(constraintsBlock(snap))
	b.WriteString(contextBlock(snap, "business_analysis", "technical_spec"))
	if msg := lastUserMessage(snap); snap.HasSection("project_plan") && msg != "" {
		fmt.Fprintf(&b, "Client feedback: %s\n\n", msg)
	}
	b.WriteString("Produce the project plan.")
	return b.String()
}

func buildResourcePrompt(snap *state.ProjectState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Project scope:\n%s\n\n",
		sectionOr(snap, "refined_scope", snap.InitialIdea))
	fmt.Fprintf(&b, "Project plan:\n%s\n\n",
		sectionOr(snap, "project_plan", "(not yet available; plan from the scope)"))
	b.WriteString(constraintsBlock(snap))
	if msg := lastUserMessage(snap); snap.HasSection("resource_plan") && msg != "" {
		fmt.Fprintf(&b, "Client feedback: %s\n\n", msg)
	}
	b.WriteString("Produce the resource plan with costed staffing.")
	return b.String()
}

// heading capitalizes the first letter of a section name.
func heading(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// lastUserMessage returns the most recent user turn, or "".
func lastUserMessage(snap *state.ProjectState) string {
	for i := len(snap.Conversation) - 1; i >= 0; i-- {
		if snap.Conversation[i].Role == "user" {
			return snap.Conversation[i].Content
		}
	}
	return ""
}
