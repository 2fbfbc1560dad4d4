package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maximbilan/promptrelay/internal/workspace"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

// Relayer is the prompt relay the HTTP routes delegate to.
type Relayer interface {
	ScreenTestCases(ctx context.Context, description string) (string, error)
	ReactCode(ctx context.Context, requirement string) (string, error)
	EvaluateImage(ctx context.Context, prompt, imagePath string) (string, error)
}

// Config describes the server's dependencies.
type Config struct {
	Addr string
	// RequestTimeout bounds each provider call; zero leaves it to the client.
	RequestTimeout time.Duration
	// Workspace enables the /api file routes when set.
	Workspace *workspace.Workspace
	// MaxBodyBytes caps /api request bodies; zero means workspace.MaxBodyBytes.
	MaxBodyBytes int64
}

type Server struct {
	addr           string
	router         *gin.Engine
	relay          Relayer
	workspace      *workspace.Workspace
	requestTimeout time.Duration
	maxBodyBytes   int64
}

func New(cfg Config, relay Relayer) (*Server, error) {
	if relay == nil {
		return nil, errors.New("server requires a relay")
	}
	if cfg.Addr == "" {
		cfg.Addr = "0.0.0.0:8000"
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = workspace.MaxBodyBytes
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(), corsMiddleware())

	s := &Server{
		addr:           cfg.Addr,
		router:         router,
		relay:          relay,
		workspace:      cfg.Workspace,
		requestTimeout: cfg.RequestTimeout,
		maxBodyBytes:   cfg.MaxBodyBytes,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router.GET("/", s.handleRoot)
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/get_screen_test_cases", s.handleScreenTestCases)
	s.router.GET("/get_react_code", s.handleReactCode)
	s.router.GET("/evaluate_image_with_prompt", s.handleEvaluateImage)

	if s.workspace != nil {
		api := s.router.Group("/api")
		api.GET("/test", s.handleWorkspaceTest)
		api.POST("/save-screenshot", s.handleSaveScreenshot)
		api.POST("/write-file", s.handleWriteFile)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// Start serves HTTP until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		log.Info().Msg("server stopped")
		return nil
	case err := <-errCh:
		return err
	}
}

// requestContext derives the context for a provider call from the incoming request.
func (s *Server) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if s.requestTimeout > 0 {
		return context.WithTimeout(c.Request.Context(), s.requestTimeout)
	}
	return context.WithCancel(c.Request.Context())
}
