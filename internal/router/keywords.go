// Package router classifies user turns into conversation, edit, or
// generate decisions and extracts rate, budget, and timeline settings.
package router

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"

	"github.com/draftgen/draftgen/internal/registry"
	"github.com/draftgen/draftgen/pkg/models"
)

// generateTriggers are inputs that start a full generation outright,
// bypassing the structured router.
var generateTriggers = map[string]bool{
	"generate":          true,
	"generate proposal": true,
	"go ahead":          true,
	"proceed":           true,
	"create proposal":   true,
	"make proposal":     true,
	"let's go":          true,
	"lets go":           true,
	"start proposal":    true,
	"build proposal":    true,
}

// greetings are bare salutations answered conversationally without a
// router call.
var greetings = map[string]bool{
	"hello":          true,
	"hi":             true,
	"hey":            true,
	"greetings":      true,
	"good morning":   true,
	"good afternoon": true,
	"good evening":   true,
}

// IsGenerateTrigger reports whether the input is a generation trigger.
func IsGenerateTrigger(input string) bool {
	return generateTriggers[normalize(input)]
}

// IsGreeting reports whether the input is a bare greeting.
func IsGreeting(input string) bool {
	return greetings[normalize(input)]
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// KeywordTable maps utterance keywords to tasks for the routing
// fallback. Matching walks tasks in registry order, so earlier tasks
// win ties.
type KeywordTable struct {
	mu      sync.RWMutex
	entries []keywordEntry
}

type keywordEntry struct {
	task     models.TaskID
	keywords []string
}

// DefaultKeywords builds the table from the registry's keyword lists.
func DefaultKeywords() *KeywordTable {
	t := &KeywordTable{}
	for _, s := range registry.All() {
		if len(s.Keywords) == 0 {
			continue
		}
		t.entries = append(t.entries, keywordEntry{
			task:     s.ID,
			keywords: append([]string{}, s.Keywords...),
		})
	}
	return t
}

// routingConfig is the .draftgen.yaml structure for keyword overrides.
type routingConfig struct {
	Routing struct {
		Keywords map[string][]string `yaml:"keywords"`
	} `yaml:"routing"`
}

// LoadOverrides replaces keyword lists for tasks named in the YAML file
// at path. Tasks not named keep their defaults. Unknown task names are
// an error so typos don't silently disable routing.
func (t *KeywordTable) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read keyword overrides: %w", err)
	}

	var cfg routingConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse keyword overrides: %w", err)
	}

	if len(cfg.Routing.Keywords) == 0 {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for name, kws := range cfg.Routing.Keywords {
		id, err := registry.Parse(name)
		if err != nil {
			return fmt.Errorf("keyword override: %w", err)
		}
		replaced := false
		for i := range t.entries {
			if t.entries[i].task == id {
				t.entries[i].keywords = append([]string{}, kws...)
				replaced = true
				break
			}
		}
		if !replaced {
			t.entries = append(t.entries, keywordEntry{task: id, keywords: append([]string{}, kws...)})
		}
	}
	return nil
}

// Match returns the first task whose keyword appears in the text.
func (t *KeywordTable) Match(text string) (models.TaskID, string, bool) {
	lower := strings.ToLower(text)

	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, e := range t.entries {
		for _, kw := range e.keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return e.task, kw, true
			}
		}
	}
	return "", "", false
}
