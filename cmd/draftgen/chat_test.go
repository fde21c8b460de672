package main

import (
	"testing"

	"github.com/draftgen/draftgen/internal/state"
)

type fakeIdeaStore struct {
	sessions map[string]*state.Session
	seeded   []string
}

func (f *fakeIdeaStore) GetSession(id string) (*state.Session, error) {
	return f.sessions[id], nil
}

func (f *fakeIdeaStore) SetInitialIdea(sessionID, idea string) error {
	f.sessions[sessionID].InitialIdea = idea
	f.seeded = append(f.seeded, idea)
	return nil
}

func TestEnsureIdea_SeedsFirstSubstantiveMessage(t *testing.T) {
	store := &fakeIdeaStore{sessions: map[string]*state.Session{
		"s1": {ID: "s1"},
	}}

	if err := ensureIdea(store, "s1", "an inventory tracker for bakeries"); err != nil {
		t.Fatalf("ensureIdea: %v", err)
	}
	if got := store.sessions["s1"].InitialIdea; got != "an inventory tracker for bakeries" {
		t.Errorf("idea = %q", got)
	}
}

func TestEnsureIdea_GreetingAndTriggerNeverSeed(t *testing.T) {
	store := &fakeIdeaStore{sessions: map[string]*state.Session{
		"s1": {ID: "s1"},
	}}

	for _, line := range []string{"hello", "Hi", "generate", "Generate Proposal"} {
		if err := ensureIdea(store, "s1", line); err != nil {
			t.Fatalf("ensureIdea(%q): %v", line, err)
		}
	}
	if len(store.seeded) != 0 {
		t.Fatalf("control phrases became the project idea: %v", store.seeded)
	}

	// The session still accepts a real idea afterwards.
	if err := ensureIdea(store, "s1", "a dog-walking marketplace"); err != nil {
		t.Fatalf("ensureIdea: %v", err)
	}
	if got := store.sessions["s1"].InitialIdea; got != "a dog-walking marketplace" {
		t.Errorf("idea = %q", got)
	}
}

func TestEnsureIdea_ExistingIdeaUntouched(t *testing.T) {
	store := &fakeIdeaStore{sessions: map[string]*state.Session{
		"s1": {ID: "s1", InitialIdea: "original idea"},
	}}

	if err := ensureIdea(store, "s1", "a completely different idea"); err != nil {
		t.Fatalf("ensureIdea: %v", err)
	}
	if got := store.sessions["s1"].InitialIdea; got != "original idea" {
		t.Errorf("idea overwritten: %q", got)
	}
}
