package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gennadis/petassistant/internal/session"
	"github.com/gennadis/petassistant/internal/web"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat widget over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.ListenAddr = addr
			}
			if err := a.openJournal(); err != nil {
				return err
			}
			a.warnIfUnreachable(cmd.Context())

			if os.Getenv(gin.EnvGinMode) == "" {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			sessions := session.NewManager(a.cfg.SessionTTL, a.newSession)
			sweeper := sessions.Run(ctx)
			defer sweeper.Wait()
			defer cancel()

			if err := web.NewServer(a.cfg, sessions).Run(ctx); err != nil {
				slog.Error("Web widget stopped", "error", err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides PETASSISTANT_LISTEN_ADDR)")
	return cmd
}
