package main

import (
	"github.com/gennadis/petassistant/internal/console"
	"github.com/spf13/cobra"
)

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with the assistant in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.openJournal(); err != nil {
				return err
			}
			a.warnIfUnreachable(cmd.Context())

			return console.New(a.newSession(), cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
		},
	}
}
