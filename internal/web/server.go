package web

import (
	"context"
	_ "embed"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gennadis/petassistant/internal/chat"
	"github.com/gennadis/petassistant/internal/config"
	"github.com/gennadis/petassistant/internal/session"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookie   = "petassistant_session"
	shutdownTimeout = 5 * time.Second
	sessionKey      = "session"
)

//go:embed static/index.html
var indexHTML []byte

type Server struct {
	cfg      *config.Config
	sessions *session.Manager
	engine   *gin.Engine
}

type textRequest struct {
	Text string `json:"text"`
}

func NewServer(cfg *config.Config, sessions *session.Manager) *Server {
	s := &Server{cfg: cfg, sessions: sessions}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger())

	r.GET("/", s.handleIndex)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api", RateLimit(cfg.RateLimitQPS, cfg.RateLimitBurst), s.withSession)
	api.GET("/conversation", s.handleConversation)
	api.POST("/messages", s.handleSubmit)
	api.POST("/suggestions/:index", s.handleSuggestion)
	api.POST("/reset", s.handleReset)
	api.PUT("/draft", s.handleDraft)

	s.engine = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("web widget listening", slog.String("addr", s.cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Failed to shut down web widget", "error", err)
		return err
	}
	return nil
}

// withSession resolves the caller's Session from its cookie, creating one when needed.
func (s *Server) withSession(c *gin.Context) {
	if token, err := c.Cookie(sessionCookie); err == nil {
		if sess, ok := s.sessions.Get(token); ok {
			c.Set(sessionKey, sess)
			c.Next()
			return
		}
	}

	token, sess := s.sessions.Create()
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(sessionCookie, token, int(s.cfg.SessionTTL.Seconds()), "/", "", false, true)
	c.Set(sessionKey, sess)
	c.Next()
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

func (s *Server) handleConversation(c *gin.Context) {
	c.JSON(http.StatusOK, newConversationView(currentSession(c).Snapshot()))
}

func (s *Server) handleSubmit(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	sess := currentSession(c)
	if err := sess.Submit(c.Request.Context(), req.Text); err != nil {
		slog.Debug("submission ignored", "error", err)
	}
	c.JSON(http.StatusOK, newConversationView(sess.Snapshot()))
}

func (s *Server) handleSuggestion(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 || index >= len(chat.Suggestions) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid suggestion index"})
		return
	}

	sess := currentSession(c)
	done, err := sess.SelectSuggestion(c.Request.Context(), index)
	if err != nil {
		slog.Debug("suggestion ignored", "error", err)
	} else {
		<-done
	}
	c.JSON(http.StatusOK, newConversationView(sess.Snapshot()))
}

func (s *Server) handleReset(c *gin.Context) {
	sess := currentSession(c)
	sess.Reset()
	c.JSON(http.StatusOK, newConversationView(sess.Snapshot()))
}

func (s *Server) handleDraft(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	sess := currentSession(c)
	sess.SetDraft(req.Text)
	c.JSON(http.StatusOK, newConversationView(sess.Snapshot()))
}
