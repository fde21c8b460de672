package state

import (
	"testing"

	"github.com/draftgen/draftgen/pkg/models"
)

func TestProjectState_CloneIsolation(t *testing.T) {
	st := NewProjectState("s1", "idea")
	st.Set("refined_scope", "original")
	st.Constraints.Rates = map[string]models.Rate{"senior_engineer": {Amount: 70}}

	snap := st.Clone()
	snap.Set("refined_scope", "changed")
	snap.Constraints.Rates["senior_engineer"] = models.Rate{Amount: 90}

	if st.Get("refined_scope") != "original" {
		t.Error("clone shares sections map")
	}
	if st.Constraints.Rates["senior_engineer"].Amount != 70 {
		t.Error("clone shares rates map")
	}
}

func TestProjectState_ApplyLastWriterWins(t *testing.T) {
	st := NewProjectState("s1", "idea")

	st.Apply(map[string]string{"business_analysis": "first"})
	st.Apply(map[string]string{"business_analysis": "second", "technical_spec": "spec"})

	if st.Get("business_analysis") != "second" {
		t.Errorf("got %q", st.Get("business_analysis"))
	}
	if st.Get("technical_spec") != "spec" {
		t.Errorf("got %q", st.Get("technical_spec"))
	}
}

func TestProjectState_HasSection(t *testing.T) {
	st := NewProjectState("s1", "idea")
	st.Set("project_plan", "plan")
	st.Set("resource_plan", "")

	if !st.HasSection("project_plan") {
		t.Error("project_plan should be present")
	}
	if st.HasSection("resource_plan") {
		t.Error("empty sections do not count")
	}
	if st.HasSection("business_analysis") {
		t.Error("missing sections do not count")
	}
}
