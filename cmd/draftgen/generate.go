package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	generateSessionID string
	generateOutPath   string
)

var generateCmd = &cobra.Command{
	Use:   "generate [idea]",
	Short: "Generate a full proposal in one shot",
	Long: `Generate a complete proposal without an interactive session.
Pass the project idea as an argument, or --session to run against an
existing session's idea.

  draftgen generate "an inventory tracker for small bakeries"
  draftgen generate --session ab12cd34 -o proposal.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		sessionID := generateSessionID
		if sessionID == "" {
			if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
				return fmt.Errorf("provide a project idea or --session")
			}
			sess, err := a.store.CreateSession(args[0])
			if err != nil {
				return fmt.Errorf("create session: %w", err)
			}
			sessionID = sess.ID
		}

		result, err := a.orc.Generate(ctx, sessionID)
		if err != nil {
			return err
		}

		doc := result.State.Get("final_proposal")
		if doc == "" {
			// Completeness failure: the reply carries the reason.
			return fmt.Errorf("%s", result.Reply)
		}

		if generateOutPath != "" {
			if err := os.WriteFile(generateOutPath, []byte(doc), 0o644); err != nil {
				return fmt.Errorf("write proposal: %w", err)
			}
			fmt.Printf("Wrote proposal to %s (session %s)\n", generateOutPath, sessionID)
			return nil
		}
		fmt.Println(doc)
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateSessionID, "session", "s", "", "Generate against an existing session")
	generateCmd.Flags().StringVarP(&generateOutPath, "out", "o", "", "Write the proposal to a file instead of stdout")
}
