package session

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/victornm/flagquiz/internal/domain"
	"github.com/victornm/flagquiz/internal/errors"
	"github.com/victornm/flagquiz/internal/event"
	"github.com/victornm/flagquiz/internal/quiz"
)

type Config struct {
	EventBus *event.Bus
	// Catalog is shared read-only by every game.
	Catalog []domain.Country
	// DefaultDifficulty applies when a game is created without one.
	DefaultDifficulty domain.Difficulty
	// AdvanceDelay is passed through to each game's engine.
	AdvanceDelay time.Duration
	// NewRand builds the random source for a new game. Defaults to a
	// time-seeded source; tests inject seeded ones.
	NewRand func() *rand.Rand
}

// Service owns the live game sessions. Each session wraps one engine;
// the session is created when a player starts a game and discarded when
// they end it or go idle.
type Service struct {
	c Config

	mu    sync.RWMutex
	games map[string]*Game
}

func NewService(c Config) *Service {
	if c.DefaultDifficulty == "" {
		c.DefaultDifficulty = domain.DifficultyEasy
	}
	if c.NewRand == nil {
		c.NewRand = func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	}
	return &Service{
		c:     c,
		games: make(map[string]*Game),
	}
}

// Game is one player's session: an id, an engine, and an idle clock.
type Game struct {
	ID     string
	Engine *quiz.Engine

	mu         sync.Mutex
	lastActive time.Time
}

func (g *Game) touch() {
	g.mu.Lock()
	g.lastActive = time.Now()
	g.mu.Unlock()
}

// LastActive reports when the game was last operated on.
func (g *Game) LastActive() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastActive
}

// Create starts a new game session at the given difficulty (or the
// configured default when empty) and generates its first round.
func (s *Service) Create(difficulty domain.Difficulty) (*Game, error) {
	if difficulty == "" {
		difficulty = s.c.DefaultDifficulty
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate game ID: %w", err)
	}

	engine, err := quiz.NewEngine(quiz.Config{
		GameID:       id.String(),
		EventBus:     s.c.EventBus,
		Catalog:      s.c.Catalog,
		Difficulty:   difficulty,
		Rand:         s.c.NewRand(),
		AdvanceDelay: s.c.AdvanceDelay,
	})
	if err != nil {
		return nil, err
	}

	g := &Game{
		ID:         id.String(),
		Engine:     engine,
		lastActive: time.Now(),
	}

	s.mu.Lock()
	s.games[g.ID] = g
	s.mu.Unlock()

	return g, nil
}

// Get returns the live game with the given id.
func (s *Service) Get(id string) (*Game, error) {
	s.mu.RLock()
	g, ok := s.games[id]
	s.mu.RUnlock()

	if !ok {
		return nil, errors.New(errors.CodeNotFound,
			errors.WithMessagef("game not found: %s", id))
	}

	g.touch()
	return g, nil
}

// End discards the game and stops its pending auto-advance. Ending an
// unknown game is a no-op.
func (s *Service) End(id string) {
	s.mu.Lock()
	g, ok := s.games[id]
	delete(s.games, id)
	s.mu.Unlock()

	if ok {
		g.Engine.Close()
	}
}

// PruneIdle drops games that have not been touched for maxIdle and
// returns how many were dropped.
func (s *Service) PruneIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	s.mu.Lock()
	var stale []*Game
	for id, g := range s.games {
		if g.LastActive().Before(cutoff) {
			stale = append(stale, g)
			delete(s.games, id)
		}
	}
	s.mu.Unlock()

	for _, g := range stale {
		g.Engine.Close()
	}
	return len(stale)
}

// Len reports how many games are live.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}
