package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/futurework-1/NestEgg-Journal/internal/errors"
	"github.com/futurework-1/NestEgg-Journal/internal/game"
)

// CardView is a card as the player sees it. Face-down cards carry no
// symbol.
type CardView struct {
	ID      string      `json:"id"`
	Symbol  game.Symbol `json:"symbol,omitempty"`
	Flipped bool        `json:"flipped"`
	Matched bool        `json:"matched"`
}

// GameResponse is the visible state of the current round
type GameResponse struct {
	Round          int        `json:"round"`
	Phase          game.Phase `json:"phase"`
	Cards          []CardView `json:"cards"`
	Moves          int        `json:"moves"`
	Pairs          int        `json:"pairs"`
	Clock          string     `json:"clock"`
	Score          int        `json:"score"`
	ResultsVisible bool       `json:"results_visible"`
}

// BestResponse is the persisted best record
type BestResponse struct {
	game.Record
	Exists bool `json:"exists"`
}

// TapResponse reports whether a tap changed the board
type TapResponse struct {
	Accepted bool         `json:"accepted"`
	Game     GameResponse `json:"game"`
}

func (s *Server) initGameRoutes() {
	s.group.GET("/game", s.getGame)
	s.group.POST("/game", s.newGame)
	s.group.POST("/game/start", s.startGame)
	s.group.POST("/game/tap/:id", s.tapCard)
	s.group.POST("/game/retry", s.retryGame)
	s.group.GET("/game/best", s.getBest)
}

func gameResponse(e *game.Engine) GameResponse {
	st := e.Snapshot()
	cards := make([]CardView, len(st.Cards))
	for i, card := range st.Cards {
		cards[i] = CardView{ID: card.ID, Flipped: card.Flipped, Matched: card.Matched}
		if card.Flipped || card.Matched {
			cards[i].Symbol = card.Symbol
		}
	}
	return GameResponse{
		Round:          st.Round,
		Phase:          st.Phase,
		Cards:          cards,
		Moves:          st.Moves,
		Pairs:          st.Pairs,
		Clock:          e.Clock(),
		Score:          st.Score,
		ResultsVisible: st.ResultsVisible,
	}
}

// currentGame returns the running engine, creating one on first use
func (s *Server) currentGame() *game.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game == nil {
		s.game = s.app.NewGame()
	}
	return s.game
}

func (s *Server) getGame(c echo.Context) error {
	return c.JSON(http.StatusOK, gameResponse(s.currentGame()))
}

// newGame replaces the current engine with a freshly dealt one
func (s *Server) newGame(c echo.Context) error {
	next := s.app.NewGame()
	s.mu.Lock()
	prev := s.game
	s.game = next
	s.mu.Unlock()
	if prev != nil {
		prev.Close()
	}
	return c.JSON(http.StatusCreated, gameResponse(next))
}

func (s *Server) startGame(c echo.Context) error {
	g := s.currentGame()
	if err := g.Start(); err != nil {
		return s.HandleError(c, err, "game already started")
	}
	return c.JSON(http.StatusOK, gameResponse(g))
}

func (s *Server) tapCard(c echo.Context) error {
	g := s.currentGame()
	id := c.Param("id")
	found := false
	for _, card := range g.Snapshot().Cards {
		if card.ID == id {
			found = true
			break
		}
	}
	if !found {
		return s.HandleError(c, errors.NotFound("game", "card", id), "card not found")
	}
	accepted := g.Tap(id)
	return c.JSON(http.StatusOK, TapResponse{Accepted: accepted, Game: gameResponse(g)})
}

func (s *Server) retryGame(c echo.Context) error {
	g := s.currentGame()
	g.Retry()
	return c.JSON(http.StatusOK, gameResponse(g))
}

func (s *Server) getBest(c echo.Context) error {
	rec, ok := s.app.Best.Load()
	return c.JSON(http.StatusOK, BestResponse{Record: rec, Exists: ok})
}
