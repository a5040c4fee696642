package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gennadis/petassistant/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&config.Config{BaseURL: srv.URL, RequestTimeout: 2 * time.Second})
}

func TestAskSendsQuestion(t *testing.T) {
	var gotMethod, gotPath, gotContentType string
	var gotBody map[string]any

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response": " Ração X é ideal. ", "sources": ["a"]}`))
	})

	answer, err := c.Ask(context.Background(), "Melhor ração para filhotes?")
	require.NoError(t, err)

	assert.Equal(t, " Ração X é ideal. ", answer)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/question-and-answer", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, map[string]any{"question": "Melhor ração para filhotes?"}, gotBody)
}

func TestAskNon2xxIsTransportFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"response": "never read"}`))
	})

	_, err := c.Ask(context.Background(), "oi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.Contains(t, err.Error(), "500")
}

func TestAskMalformedResponses(t *testing.T) {
	cases := map[string]string{
		"not json":         `<html>oops</html>`,
		"missing response": `{"answer": "x"}`,
		"null response":    `{"response": null}`,
		"wrong type":       `{"response": 42}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			_, err := c.Ask(context.Background(), "oi")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedResponse), "got %v", err)
		})
	}
}

func TestAskUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(&config.Config{BaseURL: url, RequestTimeout: time.Second})
	_, err := c.Ask(context.Background(), "oi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestAskTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c := NewClient(&config.Config{BaseURL: srv.URL, RequestTimeout: 50 * time.Millisecond})
	_, err := c.Ask(context.Background(), "oi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestHealth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		_, _ = w.Write([]byte(`{"status": "API rodando"}`))
	})

	status, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "API rodando", status)
}
