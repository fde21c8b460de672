package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/draftgen/draftgen/internal/config"
	"github.com/draftgen/draftgen/internal/ingest"
	"github.com/draftgen/draftgen/internal/router"
	"github.com/draftgen/draftgen/internal/state"
)

var (
	chatSessionID string
	chatBriefPath string
	chatBriefPgs  string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive proposal session",
	Long: `Start or resume an interactive session. Describe your project,
answer follow-up questions, then say "generate" to build the full
proposal. After generation, ask for changes in plain language to rework
individual sections.

A PDF brief can seed the session instead of a typed idea:
  draftgen chat --brief requirements.pdf --pages 1-3`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatSessionID, "session", "s", "", "Resume an existing session by ID")
	chatCmd.Flags().StringVar(&chatBriefPath, "brief", "", "Seed the idea from a PDF brief")
	chatCmd.Flags().StringVar(&chatBriefPgs, "pages", "", "Page selection for the brief, e.g. \"1-3,7\"")
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	prompt := color.New(color.FgGreen, color.Bold)
	info := color.New(color.FgYellow)

	// Project config edits take effect on the next turn.
	if path := config.FindProjectConfig(); path != "" {
		werr := config.Watch(path, func(cfg *config.Config) {
			a.cfg = cfg
			info.Println("configuration reloaded")
		}, func(err error) {
			fmt.Fprintf(os.Stderr, "config watch: %v\n", err)
		})
		if werr != nil {
			fmt.Fprintf(os.Stderr, "config watch: %v\n", werr)
		}
	}

	sessionID := chatSessionID
	if sessionID == "" {
		idea := ""
		if chatBriefPath != "" {
			idea, err = ingest.ExtractPDF(chatBriefPath, ingest.PDFOptions{Pages: chatBriefPgs})
			if err != nil {
				return fmt.Errorf("read brief: %w", err)
			}
			info.Printf("Seeded the project idea from %s\n", chatBriefPath)
		}
		sess, err := a.store.CreateSession(idea)
		if err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		sessionID = sess.ID
		info.Printf("Session %s started. Type \"exit\" to quit.\n", sessionID)
		if idea == "" {
			fmt.Println("Describe your project idea to get started.")
		}
	} else {
		if _, err := a.store.GetSession(sessionID); err != nil {
			return fmt.Errorf("resume session %s: %w", sessionID, err)
		}
		info.Printf("Resumed session %s.\n", sessionID)
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		prompt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		if err := ensureIdea(a.store, sessionID, line); err != nil {
			return err
		}

		result, err := a.orc.HandleTurn(ctx, sessionID, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			if result == nil {
				continue
			}
		}
		if result != nil && result.Reply != "" {
			fmt.Printf("draftgen> %s\n", result.Reply)
		}
	}
	return scanner.Err()
}

// ideaStore is the slice of the session store ensureIdea touches.
type ideaStore interface {
	GetSession(id string) (*state.Session, error)
	SetInitialIdea(sessionID, idea string) error
}

// ensureIdea seeds the session's initial idea from the first
// substantive message. Greetings and bare generation triggers are
// conversation control, not project ideas, and never seed it.
func ensureIdea(store ideaStore, sessionID, line string) error {
	if router.IsGreeting(line) || router.IsGenerateTrigger(line) {
		return nil
	}
	sess, err := store.GetSession(sessionID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(sess.InitialIdea) != "" {
		return nil
	}
	return store.SetInitialIdea(sessionID, line)
}
