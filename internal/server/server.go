package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gpt-interface/gpt-interface-go/internal/chat"
	"github.com/gpt-interface/gpt-interface-go/internal/config"
	"github.com/gpt-interface/gpt-interface-go/internal/guardrails"
	"github.com/gpt-interface/gpt-interface-go/internal/metrics"
	"github.com/gpt-interface/gpt-interface-go/internal/routing"
	"github.com/gpt-interface/gpt-interface-go/internal/session"
)

// SessionHeader carries the id of the page's session on every API call.
const SessionHeader = "X-Session-ID"

const sessionKey = "session"

//go:embed assets
var assets embed.FS

type Server struct {
	cfg       *config.Config
	engine    *gin.Engine
	router    *routing.Router
	store     *session.Store
	presenter *chat.Presenter
	usage     *metrics.Usage
}

func New(cfg *config.Config, rt *routing.Router) (*Server, error) {
	r := gin.Default()

	tmpl, err := template.ParseFS(assets, "assets/templates/*.html")
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)
	static, err := fs.Sub(assets, "assets/static")
	if err != nil {
		return nil, err
	}
	r.StaticFS("/static", http.FS(static))

	defaults := session.Settings{
		Model:       rt.Default().Name,
		Temperature: cfg.DefaultTemperature,
		ShowModel:   cfg.ShowModel,
	}
	usage := metrics.New()
	srv := &Server{
		cfg:       cfg,
		engine:    r,
		router:    rt,
		store:     session.NewStore(cfg.SessionTTL, defaults),
		presenter: chat.New(rt, guardrails.New(cfg.MaxInputLength, cfg.BannedTerms), usage),
		usage:     usage,
	}
	srv.registerRoutes()
	return srv, nil
}

func (s *Server) registerRoutes() {
	s.engine.GET("/", s.index)
	s.engine.GET("/healthz", s.health)

	api := s.engine.Group("/api", s.requireSession)
	api.POST("/settings", s.updateSettings)
	api.GET("/history", s.history)
	api.POST("/chat", s.chat)

	s.engine.GET("/api/stats", s.stats)
	s.engine.GET("/v1/models", s.listModels)
}

// Handler exposes the gin engine, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go s.store.Run(ctx, sweepInterval(s.cfg.SessionTTL))
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	slog.Info("listening", "address", s.cfg.Address, "models", len(s.router.Models()))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func sweepInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	if i := ttl / 4; i > time.Second {
		return i
	}
	return time.Second
}

// index starts a fresh session on every page load, so a reload resets the
// conversation.
func (s *Server) index(c *gin.Context) {
	sess := s.store.Create()
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Page":           s.presenter.Render(sess),
		"MinTemperature": session.MinTemperature,
		"MaxTemperature": session.MaxTemperature,
	})
}

func (s *Server) requireSession(c *gin.Context) {
	sess, err := s.store.Get(c.GetHeader(SessionHeader))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusGone, gin.H{"error": "session expired, reload the page"})
		return
	}
	c.Set(sessionKey, sess)
	c.Next()
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

func (s *Server) updateSettings(c *gin.Context) {
	sess := currentSession(c)
	settings := sess.Settings()
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := s.presenter.ValidateSettings(settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess.SetSettings(settings)
	c.JSON(http.StatusOK, s.presenter.Render(sess))
}

func (s *Server) history(c *gin.Context) {
	c.JSON(http.StatusOK, s.presenter.Render(currentSession(c)))
}

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if guardrails.Blank(req.Message) {
		c.Status(http.StatusNoContent)
		return
	}

	sess := currentSession(c)
	view := newSSEView(c)
	turn, _, err := s.presenter.Submit(c.Request.Context(), sess, req.Message, view)
	if err != nil {
		if !view.started {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		view.event("error", gin.H{"error": err.Error()})
		return
	}
	view.event("done", gin.H{"model": turn.ModelID, "turns": sess.Len()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, chat.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, guardrails.ErrTooLong), errors.Is(err, guardrails.ErrBanned):
		return http.StatusBadRequest
	case errors.Is(err, routing.ErrUnknownModel):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"usage": s.usage.Snapshot(), "sessions": s.store.Len()})
}

func (s *Server) listModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": s.router.Models()})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
