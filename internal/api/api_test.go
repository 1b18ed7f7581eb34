package api

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/futurework-1/NestEgg-Journal/internal/app"
	"github.com/futurework-1/NestEgg-Journal/internal/conf"
	"github.com/futurework-1/NestEgg-Journal/internal/notice"
	"github.com/futurework-1/NestEgg-Journal/internal/observability"
	"github.com/futurework-1/NestEgg-Journal/internal/schedule"
	"github.com/futurework-1/NestEgg-Journal/internal/units"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"))
}

type fixture struct {
	srv   *Server
	app   *app.App
	clock *schedule.Virtual
}

func newFixture(t *testing.T, configure ...func(*conf.Settings)) *fixture {
	t.Helper()
	settings, err := conf.Defaults()
	require.NoError(t, err)
	settings.Storage.Type = conf.StorageMemory
	for _, fn := range configure {
		fn(settings)
	}

	m, err := observability.NewMetrics()
	require.NoError(t, err)
	clock := schedule.NewVirtual(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))
	a, err := app.New(settings, nil,
		app.WithScheduler(clock),
		app.WithRand(rand.New(rand.NewPCG(1, 2))),
		app.WithMetrics(m))
	require.NoError(t, err)

	srv := New(a)
	t.Cleanup(func() {
		require.NoError(t, srv.Shutdown(context.Background()))
		_ = a.Close()
	})
	return &fixture{srv: srv, app: a, clock: clock}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, Prefix+"/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 12, body["birds"])
}

func TestBirds(t *testing.T) {
	f := newFixture(t)

	t.Run("list all", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, Prefix+"/birds", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]BirdResponse](t, rec), 12)
	})

	t.Run("filter by area", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, Prefix+"/birds?area=Asia", "")
		require.Equal(t, http.StatusOK, rec.Code)
		birds := decode[[]BirdResponse](t, rec)
		require.Len(t, birds, 2)
		for _, b := range birds {
			assert.Contains(t, b.Region, "Asia")
		}
	})

	t.Run("show escaped name", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, Prefix+"/birds/"+url.PathEscape("Great Tit"), "")
		require.Equal(t, http.StatusOK, rec.Code)
		b := decode[BirdResponse](t, rec)
		assert.Equal(t, "Great Tit", b.Name)
		assert.False(t, b.Studied)
	})

	t.Run("unknown bird", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, Prefix+"/birds/Dodo", "")
		require.Equal(t, http.StatusNotFound, rec.Code)
		resp := decode[ErrorResponse](t, rec)
		assert.Equal(t, http.StatusNotFound, resp.Code)
		assert.Len(t, resp.CorrelationID, 8)
	})
}

func TestToggleAndResetProgress(t *testing.T) {
	f := newFixture(t)
	path := Prefix + "/birds/Mallard"

	rec := f.do(t, http.MethodPost, path+"/studied", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[ToggleResponse](t, rec).Active)

	rec = f.do(t, http.MethodPost, path+"/favourite", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[ToggleResponse](t, rec).Active)

	b := decode[BirdResponse](t, f.do(t, http.MethodGet, path, ""))
	assert.True(t, b.Studied)
	assert.True(t, b.Favourite)

	rec = f.do(t, http.MethodDelete, Prefix+"/progress/favourites", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, f.app.Catalog.Favourites())
	assert.Len(t, f.app.Catalog.Studied(), 1)

	rec = f.do(t, http.MethodDelete, Prefix+"/progress", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, f.app.Catalog.Studied())

	n := decode[NoticeResponse](t, f.do(t, http.MethodGet, Prefix+"/notice", ""))
	assert.True(t, n.Visible)
	assert.Equal(t, notice.ProgressReset, n.Text)

	f.clock.Advance(notice.DefaultDuration)
	n = decode[NoticeResponse](t, f.do(t, http.MethodGet, Prefix+"/notice", ""))
	assert.False(t, n.Visible)
}

func TestObservations(t *testing.T) {
	f := newFixture(t)
	seeds := f.app.Journal.Len()

	t.Run("missing title is rejected", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, Prefix+"/observations", `{"location":"Pond"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, seeds, f.app.Journal.Len())
	})

	t.Run("bad date is rejected", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, Prefix+"/observations",
			`{"title":"Coot","location":"Pond","date":"03/04/2024"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("add with defaults", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, Prefix+"/observations",
			`{"title":"Coot","location":"Pond","date":"2024-06-01"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		o := decode[ObservationResponse](t, rec)
		assert.Equal(t, "Coot_2024-06-01", o.Key)
		assert.True(t, o.User)
		assert.NotEmpty(t, o.Coordinates)
		assert.Equal(t, seeds+1, f.app.Journal.Len())

		user := decode[[]ObservationResponse](t, f.do(t, http.MethodGet, Prefix+"/observations?user=true", ""))
		require.Len(t, user, 1)
		assert.Equal(t, "Coot", user[0].Title)
	})

	t.Run("toggle mark", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, Prefix+"/observations/Coot/2024-06-01/found-egg", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, decode[ToggleResponse](t, rec).Active)

		all := decode[[]ObservationResponse](t, f.do(t, http.MethodGet, Prefix+"/observations", ""))
		require.Len(t, all, seeds+1)
		last := all[len(all)-1]
		assert.True(t, last.FoundEgg)
		assert.False(t, last.SawBird)
	})

	t.Run("unknown mark and entry", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound,
			f.do(t, http.MethodPost, Prefix+"/observations/Coot/2024-06-01/heard-song", "").Code)
		assert.Equal(t, http.StatusNotFound,
			f.do(t, http.MethodPost, Prefix+"/observations/Coot/1999-01-01/saw-bird", "").Code)
	})

	t.Run("clear states", func(t *testing.T) {
		require.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, Prefix+"/observations/states", "").Code)
		o, ok := f.app.Journal.Find("Coot", "2024-06-01")
		require.True(t, ok)
		assert.False(t, f.app.Journal.DidFindEgg(o))
	})

	t.Run("clear history", func(t *testing.T) {
		require.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, Prefix+"/observations/history", "").Code)
		assert.Equal(t, seeds, f.app.Journal.Len())
		text, ok := f.app.Banner.Current()
		require.True(t, ok)
		assert.Equal(t, notice.HistoryCleared, text)
	})
}

func TestGameRound(t *testing.T) {
	f := newFixture(t)

	g := decode[GameResponse](t, f.do(t, http.MethodPost, Prefix+"/game", ""))
	require.Len(t, g.Cards, 12)
	assert.Equal(t, "idle", g.Phase.String())
	for _, c := range g.Cards {
		assert.Empty(t, c.Symbol, "face-down cards hide their symbol")
	}

	// taps before start are ignored
	tap := decode[TapResponse](t, f.do(t, http.MethodPost, Prefix+"/game/tap/"+g.Cards[0].ID, ""))
	assert.False(t, tap.Accepted)

	rec := f.do(t, http.MethodPost, Prefix+"/game/start", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "running", decode[GameResponse](t, rec).Phase.String())

	rec = f.do(t, http.MethodPost, Prefix+"/game/start", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	tap = decode[TapResponse](t, f.do(t, http.MethodPost, Prefix+"/game/tap/"+g.Cards[0].ID, ""))
	require.True(t, tap.Accepted)
	assert.NotEmpty(t, tap.Game.Cards[0].Symbol)

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPost, Prefix+"/game/tap/nope", "").Code)

	f.clock.Advance(f.app.Rules().TimeLimit + f.app.Rules().RevealDelay)
	g = decode[GameResponse](t, f.do(t, http.MethodGet, Prefix+"/game", ""))
	assert.Equal(t, "ended", g.Phase.String())
	assert.True(t, g.ResultsVisible)
	assert.Equal(t, "1:00", g.Clock)

	best := decode[BestResponse](t, f.do(t, http.MethodGet, Prefix+"/game/best", ""))
	assert.True(t, best.Exists)
	assert.Zero(t, best.Score)

	g = decode[GameResponse](t, f.do(t, http.MethodPost, Prefix+"/game/retry", ""))
	assert.Equal(t, "idle", g.Phase.String())
	assert.Zero(t, g.Moves)
}

func TestUnits(t *testing.T) {
	f := newFixture(t)

	got := decode[UnitsPayload](t, f.do(t, http.MethodGet, Prefix+"/settings/units", ""))
	assert.Equal(t, units.Celsius, got.Temperature)
	assert.Equal(t, units.Kilometers, got.Distance)

	rec := f.do(t, http.MethodPut, Prefix+"/settings/units", `{"distance":"miles"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	got = decode[UnitsPayload](t, rec)
	assert.Equal(t, units.Celsius, got.Temperature)
	assert.Equal(t, units.Miles, got.Distance)

	rec = f.do(t, http.MethodPut, Prefix+"/settings/units", `{"temperature":"fahrenheit","distance":"leagues"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, units.Celsius, f.app.Units.Temperature(), "nothing is written when one value is invalid")
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodGet, Prefix+"/birds", "")

	rec := f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestUnknownRouteUsesErrorShape(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, Prefix+"/nothing-here", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusNotFound, decode[ErrorResponse](t, rec).Code)
}

func TestRateLimit(t *testing.T) {
	f := newFixture(t, func(s *conf.Settings) {
		s.WebServer.RateLimit.Enabled = true
		s.WebServer.RateLimit.RequestsPerSecond = 0.001
		s.WebServer.RateLimit.Burst = 2
	})

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, Prefix+"/health", "").Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, Prefix+"/health", "").Code)
	rec := f.do(t, http.MethodGet, Prefix+"/health", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}
