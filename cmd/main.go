package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gennadis/petassistant/internal/chat"
	"github.com/gennadis/petassistant/internal/client"
	"github.com/gennadis/petassistant/internal/config"
	"github.com/gennadis/petassistant/internal/session"
	"github.com/gennadis/petassistant/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const healthCheckTimeout = 3 * time.Second

// app carries what every command needs once the config is loaded.
type app struct {
	cfg     *config.Config
	client  *client.Client
	journal *storage.Journal
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "petassistant:", err)
		os.Exit(1)
	}
}

// execute runs the command line and closes the journal whatever the outcome.
func execute(ctx context.Context, args []string) error {
	a := &app{}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "petassistant",
		Short:         "Assistente Pet: ask the pet-care Q&A service from a terminal or a web widget",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	chatCmd := newChatCmd(a)
	root.AddCommand(chatCmd, newServeCmd(a), newTranscriptCmd(a), newPingCmd(a))
	root.RunE = chatCmd.RunE
	return root
}

func (a *app) load() error {
	// a missing .env is fine
	_ = godotenv.Load(".env")

	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	slog.SetDefault(cfg.NewLogger(os.Stderr))

	a.cfg = cfg
	a.client = client.NewClient(cfg)
	return nil
}

func (a *app) openJournal() error {
	if a.cfg.JournalPath == "" || a.journal != nil {
		return nil
	}
	journal, err := storage.OpenJournal(a.cfg.JournalPath)
	if err != nil {
		slog.Error("Failed to open journal", "error", err)
		return err
	}
	a.journal = journal
	return nil
}

func (a *app) close() {
	if a.journal == nil {
		return
	}
	if err := a.journal.Close(); err != nil {
		slog.Error("Failed to close journal", "error", err)
	}
}

// newSession builds a Session wired to the Q&A client and the journal, if any.
func (a *app) newSession() *session.Session {
	opts := []session.Option{session.WithErrorText(chat.ErrorText(a.cfg.BaseURL))}
	if a.journal != nil {
		opts = append(opts, session.WithRecorder(a.journal))
	}
	return session.New(a.client, opts...)
}

// warnIfUnreachable checks the Q&A service once; failures are only logged.
func (a *app) warnIfUnreachable(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	status, err := a.client.Health(ctx)
	if err != nil {
		slog.Warn("Q&A service is not reachable", "error", err, slog.String("base_url", a.cfg.BaseURL))
		return
	}
	slog.Debug("Q&A service is up", slog.String("status", status))
}
