package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/futurework-1/NestEgg-Journal/internal/errors"
	"github.com/futurework-1/NestEgg-Journal/internal/units"
)

// UnitsPayload carries the selected units. Empty fields are left unchanged
// on PUT.
type UnitsPayload struct {
	Temperature units.TemperatureUnit `json:"temperature,omitempty"`
	Distance    units.DistanceUnit    `json:"distance,omitempty"`
}

// NoticeResponse is the transient confirmation banner
type NoticeResponse struct {
	Text    string `json:"text"`
	Visible bool   `json:"visible"`
}

func (s *Server) initSettingsRoutes() {
	s.group.GET("/settings/units", s.getUnits)
	s.group.PUT("/settings/units", s.putUnits)
	s.group.GET("/notice", s.getNotice)
}

func (s *Server) unitsPayload() UnitsPayload {
	return UnitsPayload{
		Temperature: s.app.Units.Temperature(),
		Distance:    s.app.Units.Distance(),
	}
}

func (s *Server) getUnits(c echo.Context) error {
	return c.JSON(http.StatusOK, s.unitsPayload())
}

func (s *Server) putUnits(c echo.Context) error {
	var req UnitsPayload
	if err := c.Bind(&req); err != nil {
		return s.HandleError(c, errors.ValidationError("malformed units body"), "invalid request body")
	}

	// validate both before writing either
	var temp units.TemperatureUnit
	var dist units.DistanceUnit
	var err error
	if req.Temperature != "" {
		if temp, err = units.ParseTemperature(string(req.Temperature)); err != nil {
			return s.HandleError(c, err, "unknown temperature unit")
		}
	}
	if req.Distance != "" {
		if dist, err = units.ParseDistance(string(req.Distance)); err != nil {
			return s.HandleError(c, err, "unknown distance unit")
		}
	}

	if temp != "" {
		if err := s.app.Units.SetTemperature(temp); err != nil {
			return s.HandleError(c, err, "failed to save temperature unit")
		}
	}
	if dist != "" {
		if err := s.app.Units.SetDistance(dist); err != nil {
			return s.HandleError(c, err, "failed to save distance unit")
		}
	}
	return c.JSON(http.StatusOK, s.unitsPayload())
}

func (s *Server) getNotice(c echo.Context) error {
	text, ok := s.app.Banner.Current()
	return c.JSON(http.StatusOK, NoticeResponse{Text: text, Visible: ok})
}
