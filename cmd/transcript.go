package main

import (
	"errors"
	"fmt"

	"github.com/gennadis/petassistant/internal/chat"
	"github.com/spf13/cobra"
)

func newTranscriptCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "transcript",
		Short: "Print every conversation recorded in the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.JournalPath == "" {
				return errors.New("journal disabled: set PETASSISTANT_JOURNAL_PATH")
			}
			if err := a.openJournal(); err != nil {
				return err
			}

			conversations, err := a.journal.Transcript()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, c := range conversations {
				fmt.Fprintf(out, "== %s (%s)\n", c.ID, c.StartedAt.Local().Format("2006-01-02 15:04"))
				for _, m := range c.Messages {
					fmt.Fprintf(out, "[%s] %s: %s\n", chat.FormatTime(m.CreatedAt), m.Origin, chat.PlainText(m.Text))
				}
			}
			return nil
		},
	}
}
