package api

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/futurework-1/NestEgg-Journal/internal/catalog"
	"github.com/futurework-1/NestEgg-Journal/internal/errors"
)

// BirdResponse is a catalog entry with the caller's progress flags
type BirdResponse struct {
	catalog.Bird
	Size      string `json:"size"`
	Places    string `json:"places"`
	Studied   bool   `json:"studied"`
	Favourite bool   `json:"favourite"`
}

// ToggleResponse reports the membership after a toggle
type ToggleResponse struct {
	Key    string `json:"key"`
	Active bool   `json:"active"`
}

func (s *Server) initBirdRoutes() {
	s.group.GET("/birds", s.listBirds)
	s.group.GET("/birds/:name", s.getBird)
	s.group.POST("/birds/:name/studied", s.toggleStudied)
	s.group.POST("/birds/:name/favourite", s.toggleFavourite)

	s.group.DELETE("/progress", s.clearProgress)
	s.group.DELETE("/progress/favourites", s.clearFavourites)
	s.group.DELETE("/progress/studied", s.clearStudied)
}

func (s *Server) birdResponse(b *catalog.Bird) BirdResponse {
	return BirdResponse{
		Bird:      *b,
		Size:      catalog.Size(b),
		Places:    catalog.Places(b),
		Studied:   s.app.Catalog.IsStudied(*b),
		Favourite: s.app.Catalog.IsFavourite(*b),
	}
}

func (s *Server) listBirds(c echo.Context) error {
	f := catalog.Filter{
		Area:  c.QueryParam("area"),
		Size:  c.QueryParam("size"),
		Place: c.QueryParam("place"),
	}
	birds := s.app.Catalog.Search(f)
	out := make([]BirdResponse, 0, len(birds))
	for i := range birds {
		out = append(out, s.birdResponse(&birds[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// pathParam returns the unescaped value of a route parameter
func pathParam(c echo.Context, name string) (string, error) {
	v, err := url.PathUnescape(c.Param(name))
	if err != nil {
		return "", errors.New(err).
			Component("api").
			Category(errors.CategoryValidation).
			Context("param", name).
			Build()
	}
	return v, nil
}

func (s *Server) lookupBird(c echo.Context) (catalog.Bird, error) {
	name, err := pathParam(c, "name")
	if err != nil {
		return catalog.Bird{}, err
	}
	return s.app.Catalog.Lookup(name)
}

func (s *Server) getBird(c echo.Context) error {
	b, err := s.lookupBird(c)
	if err != nil {
		return s.HandleError(c, err, "bird not found")
	}
	return c.JSON(http.StatusOK, s.birdResponse(&b))
}

func (s *Server) toggleStudied(c echo.Context) error {
	b, err := s.lookupBird(c)
	if err != nil {
		return s.HandleError(c, err, "bird not found")
	}
	active, err := s.app.Catalog.ToggleStudied(b)
	if err != nil {
		return s.HandleError(c, err, "failed to update studied birds")
	}
	return c.JSON(http.StatusOK, ToggleResponse{Key: b.Name, Active: active})
}

func (s *Server) toggleFavourite(c echo.Context) error {
	b, err := s.lookupBird(c)
	if err != nil {
		return s.HandleError(c, err, "bird not found")
	}
	active, err := s.app.Catalog.ToggleFavourite(b)
	if err != nil {
		return s.HandleError(c, err, "failed to update favourite birds")
	}
	return c.JSON(http.StatusOK, ToggleResponse{Key: b.Name, Active: active})
}

func (s *Server) clearProgress(c echo.Context) error {
	if err := s.app.ResetProgress(); err != nil {
		return s.HandleError(c, err, "failed to reset progress")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) clearFavourites(c echo.Context) error {
	if err := s.app.Catalog.ClearFavourites(); err != nil {
		return s.HandleError(c, err, "failed to clear favourites")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) clearStudied(c echo.Context) error {
	if err := s.app.Catalog.ClearStudiedBirds(); err != nil {
		return s.HandleError(c, err, "failed to clear studied birds")
	}
	return c.NoContent(http.StatusNoContent)
}
