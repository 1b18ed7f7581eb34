package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/futurework-1/NestEgg-Journal/internal/errors"
	"github.com/futurework-1/NestEgg-Journal/internal/journal"
)

// Journal mark route values
const (
	MarkSawBird     = "saw-bird"
	MarkFoundEgg    = "found-egg"
	MarkWatchedNest = "watched-nest"
)

// ObservationResponse is a journal entry with its marks
type ObservationResponse struct {
	journal.Observation
	Key         string `json:"key"`
	User        bool   `json:"user"`
	SawBird     bool   `json:"saw_bird"`
	FoundEgg    bool   `json:"found_egg"`
	WatchedNest bool   `json:"watched_nest"`
}

// ObservationRequest is the body of POST /observations. Date uses the
// journal layout and defaults to today.
type ObservationRequest struct {
	Title       string `json:"title"`
	Location    string `json:"location"`
	Coordinates string `json:"coordinates"`
	Date        string `json:"date"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

func (s *Server) initObservationRoutes() {
	s.group.GET("/observations", s.listObservations)
	s.group.POST("/observations", s.addObservation)
	s.group.POST("/observations/:title/:date/:mark", s.toggleMark)
	s.group.DELETE("/observations/states", s.clearStates)
	s.group.DELETE("/observations/history", s.clearHistory)
}

func (s *Server) observationResponse(o journal.Observation) ObservationResponse {
	return ObservationResponse{
		Observation: o,
		Key:         o.Key(),
		User:        !o.Seed,
		SawBird:     s.app.Journal.DidSawBird(o),
		FoundEgg:    s.app.Journal.DidFindEgg(o),
		WatchedNest: s.app.Journal.DidWatchNest(o),
	}
}

func (s *Server) listObservations(c echo.Context) error {
	list := s.app.Journal.Observations()
	if c.QueryParam("user") == "true" {
		list = s.app.Journal.UserObservations()
	}
	out := make([]ObservationResponse, 0, len(list))
	for _, o := range list {
		out = append(out, s.observationResponse(o))
	}
	return c.JSON(http.StatusOK, out)
}

func (req ObservationRequest) draft(now time.Time) (journal.Draft, error) {
	d := journal.NewDraft(now)
	d.Title = req.Title
	d.Location = req.Location
	d.Coordinates = req.Coordinates
	d.Description = req.Description
	if req.Image != "" {
		d.Image = req.Image
	}
	if req.Date != "" {
		t, err := time.Parse(journal.DateLayout, req.Date)
		if err != nil {
			return d, errors.New(fmt.Errorf("date must use %s: %w", journal.DateLayout, err)).
				Component("api").
				Category(errors.CategoryValidation).
				Context("date", req.Date).
				Build()
		}
		d.Date = t
	}
	return d, nil
}

func (s *Server) addObservation(c echo.Context) error {
	var req ObservationRequest
	if err := c.Bind(&req); err != nil {
		return s.HandleError(c, errors.ValidationError("malformed observation body"), "invalid request body")
	}
	d, err := req.draft(time.Now())
	if err != nil {
		return s.HandleError(c, err, "invalid observation date")
	}
	o, err := d.Observation()
	if err != nil {
		return s.HandleError(c, err, "title and location are required")
	}
	if err := s.app.Journal.Add(o); err != nil {
		return s.HandleError(c, err, "failed to save observation")
	}
	return c.JSON(http.StatusCreated, s.observationResponse(o))
}

func (s *Server) toggleMark(c echo.Context) error {
	title, err := pathParam(c, "title")
	if err != nil {
		return s.HandleError(c, err, "invalid title")
	}
	date, err := pathParam(c, "date")
	if err != nil {
		return s.HandleError(c, err, "invalid date")
	}
	o, ok := s.app.Journal.Find(title, date)
	if !ok {
		return s.HandleError(c, errors.NotFound("journal", "observation", title+"_"+date), "observation not found")
	}

	var active bool
	switch mark := c.Param("mark"); mark {
	case MarkSawBird:
		active, err = s.app.Journal.ToggleSawBird(o)
	case MarkFoundEgg:
		active, err = s.app.Journal.ToggleFoundEgg(o)
	case MarkWatchedNest:
		active, err = s.app.Journal.ToggleWatchedNest(o)
	default:
		return s.HandleError(c, errors.NotFound("api", "mark", mark), "unknown mark")
	}
	if err != nil {
		return s.HandleError(c, err, "failed to update observation mark")
	}
	return c.JSON(http.StatusOK, ToggleResponse{Key: o.Key(), Active: active})
}

func (s *Server) clearStates(c echo.Context) error {
	if err := s.app.Journal.ClearAllObservationStates(); err != nil {
		return s.HandleError(c, err, "failed to clear observation marks")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) clearHistory(c echo.Context) error {
	if err := s.app.ClearHistory(); err != nil {
		return s.HandleError(c, err, "failed to clear history")
	}
	return c.NoContent(http.StatusNoContent)
}
