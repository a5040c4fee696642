// Package console drives a Session from a line-oriented terminal.
//
// Lines are read on their own goroutine so the prompt keeps accepting input
// while a question is awaiting its answer; such input is dropped.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gennadis/petassistant/internal/chat"
	"github.com/gennadis/petassistant/internal/session"
)

const (
	commandReset = "/limpar"
	commandQuit  = "/sair"

	userLabel      = "\u001b[94mVocê\u001b[0m"
	assistantLabel = "\u001b[93mAssistente Pet\u001b[0m"
)

type Console struct {
	sess *session.Session
	in   io.Reader
	out  io.Writer

	shownConversation string
	shown             int
}

func New(sess *session.Session, in io.Reader, out io.Writer) *Console {
	return &Console{sess: sess, in: in, out: out}
}

// Run reads commands and questions until input ends, /sair is typed or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
		close(lines)
	}()

	fmt.Fprintf(c.out, "Assistente Pet (%s para recomeçar, %s para sair)\n", commandReset, commandQuit)
	c.render()

	var inFlight <-chan struct{}
	for {
		select {
		case <-ctx.Done():
			return nil

		case <-inFlight:
			inFlight = nil
			c.render()

		case line, ok := <-lines:
			if !ok {
				if inFlight != nil {
					<-inFlight
					c.render()
				}
				return <-readErr
			}
			done, quit := c.handle(ctx, line)
			if quit {
				return nil
			}
			if done != nil {
				inFlight = done
			}
		}
	}
}

func (c *Console) handle(ctx context.Context, line string) (<-chan struct{}, bool) {
	cmd := strings.TrimSpace(line)
	switch {
	case cmd == commandQuit:
		return nil, true

	case cmd == commandReset:
		c.sess.Reset()
		c.render()
		return nil, false

	case strings.HasPrefix(cmd, "/"):
		n, err := strconv.Atoi(strings.TrimPrefix(cmd, "/"))
		if err != nil {
			fmt.Fprintf(c.out, "comando desconhecido: %s\n", cmd)
			return nil, false
		}
		done, err := c.sess.SelectSuggestion(ctx, n-1)
		if err != nil {
			return nil, false
		}
		c.render()
		return done, false
	}

	done, err := c.sess.Send(ctx, line)
	if err != nil {
		// blank input and input while awaiting are ignored
		if !errors.Is(err, session.ErrEmptyInput) && !errors.Is(err, session.ErrRequestInFlight) {
			fmt.Fprintf(c.out, "erro: %v\n", err)
		}
		return nil, false
	}
	c.render()
	return done, false
}

// render prints the messages not shown yet, or the whole conversation after a reset.
func (c *Console) render() {
	snap := c.sess.Snapshot()
	if snap.ConversationID != c.shownConversation {
		if c.shownConversation != "" {
			fmt.Fprintln(c.out, "--- nova conversa ---")
		}
		c.shownConversation = snap.ConversationID
		c.shown = 0
	}

	for _, m := range snap.Messages[c.shown:] {
		label := assistantLabel
		if m.IsUser() {
			label = userLabel
		}
		fmt.Fprintf(c.out, "[%s] %s: %s\n", chat.FormatTime(m.CreatedAt), label, chat.PlainText(m.Text))
	}
	c.shown = len(snap.Messages)

	if snap.Pending {
		fmt.Fprintf(c.out, "%s: %s\n", assistantLabel, chat.ThinkingText)
		return
	}
	if snap.SuggestionsVisible {
		fmt.Fprintln(c.out, "💡 Perguntas sugeridas para começar:")
		for i, s := range chat.Suggestions {
			fmt.Fprintf(c.out, "  /%d %s\n", i+1, s)
		}
	}
}
