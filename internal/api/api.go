package api

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/victornm/flagquiz/internal/domain"
	"github.com/victornm/flagquiz/internal/errors"
	"github.com/victornm/flagquiz/internal/event"
	"github.com/victornm/flagquiz/internal/session"
)

type Config struct {
	Router   gin.IRouter
	EventBus *event.Bus
	Session  *session.Service
}

type API struct {
	ss       *session.Service
	notifier *notifier
}

func New(c Config) *API {
	a := &API{
		ss:       c.Session,
		notifier: newNotifier(),
	}

	// HTTP APIs
	v1 := c.Router.Group("/v1")
	v1.POST("/games", a.CreateGame)
	v1.GET("/games/:id", a.GetGame)
	v1.POST("/games/:id/guess", a.SubmitGuess)
	v1.PUT("/games/:id/difficulty", a.SetDifficulty)
	v1.POST("/games/:id/reset", a.ResetGame)
	v1.DELETE("/games/:id", a.EndGame)
	v1.GET("/games/:id/events", a.StreamEvents)

	// Register event handlers
	c.EventBus.Subscribe(domain.EventNameRoundStarted, func(ctx context.Context, e event.Event) error {
		return a.publishRoundStarted(ctx, e.(domain.EventRoundStarted))
	})
	c.EventBus.Subscribe(domain.EventNameGuessSubmitted, func(ctx context.Context, e event.Event) error {
		return a.publishGuessSubmitted(ctx, e.(domain.EventGuessSubmitted))
	})
	c.EventBus.Subscribe(domain.EventNameScoreReset, func(ctx context.Context, e event.Event) error {
		return a.publishScoreReset(ctx, e.(domain.EventScoreReset))
	})

	return a
}

type (
	// GameView is the render-ready snapshot for the UI. Option names are
	// listed without marking which one is the target.
	GameView struct {
		GameID     string        `json:"game_id"`
		Score      int           `json:"score"`
		Difficulty string        `json:"difficulty"`
		Flag       string        `json:"flag"`
		Options    []string      `json:"options"`
		Answered   bool          `json:"answered"`
		LastGuess  string        `json:"last_guess,omitempty"`
		Feedback   *FeedbackView `json:"feedback,omitempty"`
	}

	FeedbackView struct {
		Message string `json:"message"`
		Kind    string `json:"kind"`
	}

	GuessView struct {
		Outcome       string       `json:"outcome"`
		CorrectAnswer string       `json:"correct_answer"`
		Score         int          `json:"score"`
		Feedback      FeedbackView `json:"feedback"`
	}
)

type CreateGameRequest struct {
	Difficulty string `json:"difficulty"`
}

func (a *API) CreateGame(c *gin.Context) {
	// An absent body means defaults; a present one must parse. Chunked
	// requests carry ContentLength -1, so EOF is the only reliable
	// empty-body signal.
	var req CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil && !stderrors.Is(err, io.EOF) {
		abortError(c, errors.New(errors.CodeInvalidArgument, errors.WithCause(err)))
		return
	}

	d := domain.Difficulty(req.Difficulty)
	if req.Difficulty != "" && !d.Valid() {
		abortError(c, errors.New(errors.CodeInvalidArgument,
			errors.WithMessagef("unknown difficulty: %q", req.Difficulty)))
		return
	}

	g, err := a.ss.Create(d)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gameView(g))
}

func (a *API) GetGame(c *gin.Context) {
	g, err := a.ss.Get(c.Param("id"))
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gameView(g))
}

type SubmitGuessRequest struct {
	Country string `json:"country" binding:"required"`
}

func (a *API) SubmitGuess(c *gin.Context) {
	var req SubmitGuessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, errors.New(errors.CodeInvalidArgument, errors.WithCause(err)))
		return
	}

	g, err := a.ss.Get(c.Param("id"))
	if err != nil {
		abortError(c, err)
		return
	}

	result := g.Engine.SubmitGuess(req.Country)

	c.JSON(http.StatusOK, GuessView{
		Outcome:       string(result.Outcome),
		CorrectAnswer: result.Target,
		Score:         result.Score,
		Feedback: FeedbackView{
			Message: result.Feedback.Message,
			Kind:    string(result.Feedback.Kind),
		},
	})
}

type SetDifficultyRequest struct {
	Difficulty string `json:"difficulty" binding:"required"`
}

func (a *API) SetDifficulty(c *gin.Context) {
	var req SetDifficultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, errors.New(errors.CodeInvalidArgument, errors.WithCause(err)))
		return
	}

	g, err := a.ss.Get(c.Param("id"))
	if err != nil {
		abortError(c, err)
		return
	}

	if err := g.Engine.SetDifficulty(domain.Difficulty(req.Difficulty)); err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gameView(g))
}

func (a *API) ResetGame(c *gin.Context) {
	g, err := a.ss.Get(c.Param("id"))
	if err != nil {
		abortError(c, err)
		return
	}

	if err := g.Engine.Reset(); err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gameView(g))
}

func (a *API) EndGame(c *gin.Context) {
	a.ss.End(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func gameView(g *session.Game) GameView {
	s := g.Engine.Snapshot()

	options := make([]string, 0, len(s.Round.Options))
	for _, o := range s.Round.Options {
		options = append(options, o.Name)
	}

	v := GameView{
		GameID:     g.ID,
		Score:      s.Score,
		Difficulty: string(s.Difficulty),
		Flag:       s.Round.Target.Flag,
		Options:    options,
		Answered:   s.Answered,
		LastGuess:  s.LastGuess,
	}

	if s.LastResult != nil {
		v.Feedback = &FeedbackView{
			Message: s.LastResult.Feedback.Message,
			Kind:    string(s.LastResult.Feedback.Kind),
		}
	}

	return v
}

func abortError(c *gin.Context, err error) {
	e := errors.Convert(err)
	c.AbortWithStatusJSON(e.HTTPStatusCode(), e)
}
