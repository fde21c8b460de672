package models

import (
	"encoding/json"
	"fmt"
)

// Action is the high-level intent behind a user turn.
type Action string

const (
	// ActionConversation answers the user without touching the document.
	ActionConversation Action = "conversation"
	// ActionEdit reruns a subset of tasks against the existing document.
	ActionEdit Action = "edit"
	// ActionGenerate runs the full document pipeline.
	ActionGenerate Action = "generate"
)

// Valid returns true if the action is a known value.
func (a Action) Valid() bool {
	switch a {
	case ActionConversation, ActionEdit, ActionGenerate:
		return true
	default:
		return false
	}
}

// Decision is the routing outcome for a single user turn.
type Decision struct {
	// Action is the selected intent.
	Action Action `json:"action"`
	// Tasks lists the tasks to run for edit actions.
	Tasks []TaskID `json:"tasks,omitempty"`
	// Confidence is how certain the router is (0.0-1.0).
	Confidence float64 `json:"confidence"`
	// Response is the conversational reply, if any.
	Response string `json:"response,omitempty"`
	// Reasoning explains the routing choice. Informational only.
	Reasoning string `json:"reasoning,omitempty"`
	// Settings holds constraints extracted from the turn.
	Settings Constraints `json:"settings"`
}

// HasTask returns true if the decision includes the given task.
func (d *Decision) HasTask(id TaskID) bool {
	for _, t := range d.Tasks {
		if t == id {
			return true
		}
	}
	return false
}

// AddTask appends a task to the decision unless already present.
func (d *Decision) AddTask(id TaskID) {
	if !d.HasTask(id) {
		d.Tasks = append(d.Tasks, id)
	}
}

// Rate is an hourly billing rate for one role, normalized to an
// amount-per-hour regardless of how the user phrased it.
type Rate struct {
	// Amount is the numeric rate as stated by the user.
	Amount float64 `json:"amount"`
	// Unit is the billing period the user used ("hour", "day", "week",
	// "month"). Empty or unknown units mean the amount is already hourly.
	Unit string `json:"unit,omitempty"`
}

// UnmarshalJSON accepts either a bare number (hourly) or an object
// with amount and unit fields.
func (r *Rate) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		r.Amount = n
		r.Unit = ""
		return nil
	}

	type rateAlias Rate
	var a rateAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("parse rate: %w", err)
	}
	*r = Rate(a)
	return nil
}

// Timeline is a delivery deadline stated by the user.
type Timeline struct {
	// Display is the deadline as the user phrased it (e.g. "4-5 weeks").
	Display string `json:"display,omitempty"`
	// Hours is the total working-hour equivalent.
	Hours int `json:"hours,omitempty"`
}

// Constraints holds user-stated settings that shape the document:
// role rates, a budget cap, and a delivery timeline.
type Constraints struct {
	// Rates maps role names to their stated rates.
	Rates map[string]Rate `json:"rates,omitempty"`
	// Budget is the display form of the budget (e.g. "$50,000").
	Budget string `json:"budget,omitempty"`
	// BudgetAmount is the budget in currency units.
	BudgetAmount float64 `json:"budget_amount,omitempty"`
	// Timeline is the stated deadline, if any.
	Timeline Timeline `json:"timeline,omitempty"`
}

// Empty returns true if no constraint is set.
func (c Constraints) Empty() bool {
	return len(c.Rates) == 0 && c.Budget == "" && c.Timeline.Display == ""
}

// Clone returns a deep copy of the constraints.
func (c Constraints) Clone() Constraints {
	out := c
	if c.Rates != nil {
		out.Rates = make(map[string]Rate, len(c.Rates))
		for k, v := range c.Rates {
			out.Rates[k] = v
		}
	}
	return out
}
