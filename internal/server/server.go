package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/victornm/flagquiz/internal/api"
	"github.com/victornm/flagquiz/internal/country"
	"github.com/victornm/flagquiz/internal/domain"
	"github.com/victornm/flagquiz/internal/event"
	"github.com/victornm/flagquiz/internal/session"
	"github.com/victornm/flagquiz/internal/telemetry"
)

type Config struct {
	HTTP struct {
		Port int32
	}

	Quiz struct {
		// AdvanceDelay between answering a round and the next round starting.
		AdvanceDelay time.Duration
		// DefaultDifficulty for games created without one.
		DefaultDifficulty string
	}

	Session struct {
		// IdleTTL after which an untouched game is dropped.
		IdleTTL time.Duration
		// SweepInterval between idle-game sweeps.
		SweepInterval time.Duration
	}
}

func (c *Config) applyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.Quiz.AdvanceDelay == 0 {
		c.Quiz.AdvanceDelay = 2 * time.Second
	}
	if c.Quiz.DefaultDifficulty == "" {
		c.Quiz.DefaultDifficulty = string(domain.DifficultyEasy)
	}
	if c.Session.IdleTTL == 0 {
		c.Session.IdleTTL = 30 * time.Minute
	}
	if c.Session.SweepInterval == 0 {
		c.Session.SweepInterval = time.Minute
	}
}

type Server struct {
	c Config

	eb *event.Bus

	service struct {
		session *session.Service
	}

	http *http.Server
	stop chan struct{}
}

func Init(c Config) (*Server, error) {
	c.applyDefaults()

	if !domain.Difficulty(c.Quiz.DefaultDifficulty).Valid() {
		return nil, fmt.Errorf("server: unknown default difficulty: %q", c.Quiz.DefaultDifficulty)
	}

	catalog := country.Default()
	if err := country.Validate(catalog); err != nil {
		return nil, fmt.Errorf("server: validate catalog: %w", err)
	}

	s := &Server{
		c:    c,
		eb:   event.NewBus(),
		stop: make(chan struct{}),
	}

	s.service.session = session.NewService(session.Config{
		EventBus:          s.eb,
		Catalog:           catalog,
		DefaultDifficulty: domain.Difficulty(c.Quiz.DefaultDifficulty),
		AdvanceDelay:      c.Quiz.AdvanceDelay,
	})

	telemetry.MonitorQuiz(s.eb, prometheus.DefaultRegisterer)
	telemetry.MonitorGames(prometheus.DefaultRegisterer, s.service.session.Len)

	s.initAPI()
	return s, nil
}

func (s *Server) initAPI() {
	e := gin.New()
	e.GET("/metrics", gin.WrapH(promhttp.Handler()))
	pprof.Register(e, "/debug/pprof")
	e.Use(gin.Recovery())
	e.Use(telemetry.RequestLogger(slog.Default()))

	api.New(api.Config{
		Router:   e,
		EventBus: s.eb,
		Session:  s.service.session,
	})

	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.c.HTTP.Port),
		Handler:           e,
		ReadHeaderTimeout: 60 * time.Second,
	}
}

func (s *Server) Start() {
	ctx := context.TODO()

	var eg errgroup.Group
	eg.Go(func() error {
		slog.InfoContext(ctx, fmt.Sprintf("server: HTTP listening on port %d", s.c.HTTP.Port))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		t := time.NewTicker(s.c.Session.SweepInterval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				if n := s.service.session.PruneIdle(s.c.Session.IdleTTL); n > 0 {
					slog.InfoContext(ctx, fmt.Sprintf("server: dropped %d idle games", n))
				}
			case <-s.stop:
				return nil
			}
		}
	})

	if err := eg.Wait(); err != nil {
		slog.ErrorContext(ctx, "server: shutdown with error", "error", err)
	}
}

func (s *Server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	close(s.stop)
	if err := s.http.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "server: shutdown HTTP failed", "error", err)
	}

	s.eb.Stop()

	slog.InfoContext(ctx, "server: shutdown completed")
}
