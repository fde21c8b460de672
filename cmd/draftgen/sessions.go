package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List and manage sessions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		sessions, err := a.store.ListSessions()
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions yet. Start one with: draftgen chat")
			return nil
		}

		bold := color.New(color.Bold)
		for _, s := range sessions {
			title := s.Title
			if title == "" {
				title = "(untitled)"
			}
			marker := " "
			if s.Generated {
				marker = "*"
			}
			bold.Printf("%s %s", marker, s.ID)
			fmt.Printf("  %-40s  %s  %s\n", title, s.Stage, s.UpdatedAt.Format(time.DateOnly))
		}
		fmt.Println("\n* = proposal generated")
		return nil
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session and its outputs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.store.DeleteSession(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted session %s\n", args[0])
		return nil
	},
}

var sessionsPurgeDays int

var sessionsPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete sessions older than a cutoff",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.db.PurgeOldSessions(time.Duration(sessionsPurgeDays) * 24 * time.Hour)
		if err != nil {
			return err
		}
		fmt.Printf("Purged %d session(s)\n", n)
		return nil
	},
}

func init() {
	sessionsPurgeCmd.Flags().IntVar(&sessionsPurgeDays, "older-than", 30, "Age cutoff in days")
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsPurgeCmd)
}
