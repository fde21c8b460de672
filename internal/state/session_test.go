package state

import (
	"testing"

	"github.com/draftgen/draftgen/pkg/models"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(setupTestDB(t))
}

func TestCreateAndGetSession(t *testing.T) {
	store := setupStore(t)

	sess, err := store.CreateSession("a crm for dog walkers")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if sess.ID == "" {
		t.Fatal("session ID is empty")
	}

	got, err := store.GetSession(sess.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.InitialIdea != "a crm for dog walkers" {
		t.Errorf("InitialIdea = %q", got.InitialIdea)
	}
	if got.Stage != models.StagePending {
		t.Errorf("Stage = %q, want pending", got.Stage)
	}
	if got.Generated {
		t.Error("new session must not be generated")
	}
}

func TestGetSession_NotFound(t *testing.T) {
	store := setupStore(t)
	if _, err := store.GetSession("nope"); err == nil {
		t.Fatal("expected error for missing session")
	}
}

func TestSaveTitleAndStage(t *testing.T) {
	store := setupStore(t)
	sess, _ := store.CreateSession("idea")

	if err := store.SaveTitle(sess.ID, "PawTrack"); err != nil {
		t.Fatalf("SaveTitle: %v", err)
	}
	if err := store.SetStage(sess.ID, string(models.StageFailed), "missing resource plan"); err != nil {
		t.Fatalf("SetStage: %v", err)
	}
	if err := store.SetGenerated(sess.ID, true); err != nil {
		t.Fatalf("SetGenerated: %v", err)
	}

	got, err := store.GetSession(sess.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.Title != "PawTrack" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.Stage != models.StageFailed || got.StageMessage != "missing resource plan" {
		t.Errorf("stage = %q message = %q", got.Stage, got.StageMessage)
	}
	if !got.Generated {
		t.Error("Generated not persisted")
	}
}

func TestSaveConstraints_RoundTrip(t *testing.T) {
	store := setupStore(t)
	sess, _ := store.CreateSession("idea")

	c := models.Constraints{
		Rates: map[string]models.Rate{
			"senior_engineer": {Amount: 100, Unit: "week"},
		},
		Budget:       "$50,000",
		BudgetAmount: 50000,
		Timeline:     models.Timeline{Display: "2 months", Hours: 320},
	}
	if err := store.SaveConstraints(sess.ID, c); err != nil {
		t.Fatalf("SaveConstraints: %v", err)
	}

	got, err := store.GetSession(sess.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.Constraints.Budget != "$50,000" || got.Constraints.BudgetAmount != 50000 {
		t.Errorf("budget = %+v", got.Constraints)
	}
	if got.Constraints.Timeline.Hours != 320 {
		t.Errorf("timeline hours = %d", got.Constraints.Timeline.Hours)
	}
	rate := got.Constraints.Rates["senior_engineer"]
	if rate.Amount != 100 || rate.Unit != "week" {
		t.Errorf("rate = %+v", rate)
	}
}

func TestMessages_ChronologicalOrder(t *testing.T) {
	store := setupStore(t)
	sess, _ := store.CreateSession("idea")

	store.AppendMessage(sess.ID, "user", "hello")
	store.AppendMessage(sess.ID, "assistant", "hi, tell me about your project")
	store.AppendMessage(sess.ID, "user", "a crm")

	msgs, err := store.ListMessages(sess.ID)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if msgs[0].Content != "hello" || msgs[2].Content != "a crm" {
		t.Errorf("wrong order: %+v", msgs)
	}
}

func TestSaveOutput_Upsert(t *testing.T) {
	store := setupStore(t)
	sess, _ := store.CreateSession("idea")

	store.SaveOutput(sess.ID, "scope_refinement", "refined_scope", "v1", "")
	store.SaveOutput(sess.ID, "scope_refinement", "refined_scope", "v2", "user narrowed scope")

	outputs, err := store.ListOutputs(sess.ID)
	if err != nil {
		t.Fatalf("ListOutputs: %v", err)
	}
	if len(outputs) != 1 {
		t.Fatalf("expected 1 output after upsert, got %d", len(outputs))
	}
	if outputs[0].Content != "v2" || outputs[0].Reason != "user narrowed scope" {
		t.Errorf("output = %+v", outputs[0])
	}
}

func TestLoadProjectState(t *testing.T) {
	store := setupStore(t)
	sess, _ := store.CreateSession("a crm")

	store.SaveTitle(sess.ID, "CRM Pro")
	store.SetGenerated(sess.ID, true)
	store.SaveOutput(sess.ID, "scope_refinement", "refined_scope", "scope text", "")
	store.AppendMessage(sess.ID, "user", "generate")

	st, err := store.LoadProjectState(sess.ID)
	if err != nil {
		t.Fatalf("LoadProjectState: %v", err)
	}
	if st.Title != "CRM Pro" || !st.Generated {
		t.Errorf("state = %+v", st)
	}
	if st.Get("refined_scope") != "scope text" {
		t.Errorf("sections = %v", st.Sections)
	}
	if len(st.Conversation) != 1 {
		t.Errorf("conversation = %v", st.Conversation)
	}
}

func TestDeleteSession_Cascades(t *testing.T) {
	store := setupStore(t)
	sess, _ := store.CreateSession("idea")
	store.AppendMessage(sess.ID, "user", "hello")
	store.SaveOutput(sess.ID, "title", "proposal_title", "T", "")

	if err := store.DeleteSession(sess.ID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}

	msgs, _ := store.ListMessages(sess.ID)
	if len(msgs) != 0 {
		t.Errorf("messages not cascaded: %v", msgs)
	}
	outputs, _ := store.ListOutputs(sess.ID)
	if len(outputs) != 0 {
		t.Errorf("outputs not cascaded: %v", outputs)
	}
}
