package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifequest/internal/clock"
	"lifequest/internal/metrics"
	"lifequest/internal/world"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

type env struct {
	srv   *httptest.Server
	clock *clock.FakeClock
	eng   *world.Engine
}

func newEnv(t *testing.T) env {
	t.Helper()
	settings := world.DefaultSettings()
	settings.Calendar = clock.NewCalendar(epoch, time.UTC)
	settings.EventChance = 0
	settings.GemDropChance = 0

	n := 0
	fc := clock.NewFakeClock(epoch.AddDate(0, 0, 2).Add(8 * time.Hour))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New()
	eng := world.New(nil, nil, settings,
		world.WithClock(fc),
		world.WithIDs(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
		world.WithRand(rand.New(rand.NewSource(1))),
		world.WithRecorder(m),
		world.WithLogger(logger),
	)
	s := New(eng, WithMetrics(m.Handler()), WithLogger(logger))
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return env{srv: srv, clock: fc, eng: eng}
}

type envelope struct {
	OK      bool            `json:"ok"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
}

func (e env) call(t *testing.T, method, path, body string) (int, envelope) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestAPI_TaskLifecycle(t *testing.T) {
	e := newEnv(t)

	code, res := e.call(t, http.MethodPost, "/api/tasks",
		`{"title":"Laundry","category":"life","difficulty":2,"minutes":20,"isRepeatable":true}`)
	require.Equal(t, http.StatusOK, code, res.Message)
	task := decodeData[struct {
		ID          string `json:"id"`
		CoinsReward int    `json:"coinsReward"`
	}](t, res)
	assert.Equal(t, 40, task.CoinsReward)

	code, res = e.call(t, http.MethodPost, "/api/tasks/"+task.ID+"/complete", "")
	require.Equal(t, http.StatusOK, code)
	done := decodeData[world.Completion](t, res)
	assert.Equal(t, 40, done.RewardCoins)
	assert.Equal(t, 20, done.RewardExp)

	code, res = e.call(t, http.MethodGet, "/api/summary", "")
	require.Equal(t, http.StatusOK, code)
	sum := decodeData[world.Summary](t, res)
	assert.Equal(t, 40, sum.Coins)
	assert.Equal(t, 1, sum.CompletedToday)

	code, res = e.call(t, http.MethodGet, "/api/history?limit=1", "")
	require.Equal(t, http.StatusOK, code)
	hist := decodeData[[]struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}](t, res)
	require.Len(t, hist, 1)
	assert.Equal(t, "task_complete", hist[0].Type)

	code, res = e.call(t, http.MethodPost, "/api/history/undo-last", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, e.eng.State().Currency.Coins)

	code, res = e.call(t, http.MethodPost, "/api/history/"+hist[0].ID+"/undo", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, res.OK)
	assert.Equal(t, "already_undone", res.Code)

	code, _ = e.call(t, http.MethodDelete, "/api/tasks/"+task.ID, "")
	assert.Equal(t, http.StatusOK, code)
	code, res = e.call(t, http.MethodPost, "/api/tasks/"+task.ID+"/complete", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not_found", res.Code)
}

func TestAPI_FailureStatuses(t *testing.T) {
	e := newEnv(t)
	cases := []struct {
		method, path, body string
		status             int
		code               string
	}{
		{http.MethodPost, "/api/tasks", `{"title":""}`, http.StatusBadRequest, "invalid_input"},
		{http.MethodPost, "/api/tasks", `{"title":`, http.StatusBadRequest, "invalid_input"},
		{http.MethodPost, "/api/tasks", `{"nope":1}`, http.StatusBadRequest, "invalid_input"},
		{http.MethodPost, "/api/coins/spend", `{"amount":10}`, http.StatusUnprocessableEntity, "insufficient_balance"},
		{http.MethodPost, "/api/tickets/use", "", http.StatusUnprocessableEntity, "insufficient_balance"},
		{http.MethodPost, "/api/gems/quartz/fuse", "", http.StatusUnprocessableEntity, "insufficient_balance"},
		{http.MethodPost, "/api/gems/ruby/fuse", "", http.StatusBadRequest, "invalid_input"},
		{http.MethodPost, "/api/maps/missing/complete", "", http.StatusNotFound, "not_found"},
		{http.MethodPost, "/api/claims/missing/use", "", http.StatusNotFound, "not_found"},
		{http.MethodPost, "/api/history/undo-last", "", http.StatusNotFound, "not_found"},
		{http.MethodGet, "/api/history?limit=x", "", http.StatusBadRequest, "invalid_input"},
		{http.MethodGet, "/api/nowhere", "", http.StatusNotFound, "not_found"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			code, res := e.call(t, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, code)
			assert.False(t, res.OK)
			assert.Equal(t, tc.code, res.Code)
			assert.NotEmpty(t, res.Message)
		})
	}
}

func TestAPI_LedgerTicketsGemsMaps(t *testing.T) {
	e := newEnv(t)

	code, res := e.call(t, http.MethodPost, "/api/coins/add", `{"amount":150,"reason":"gift"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 150, decodeData[world.Balance](t, res).Coins)

	code, res = e.call(t, http.MethodPost, "/api/tickets/exchange", `{"cost":100}`)
	require.Equal(t, http.StatusOK, code)
	bal := decodeData[world.Balance](t, res)
	assert.Equal(t, 50, bal.Coins)
	assert.Equal(t, 1, bal.Tickets)

	code, _ = e.call(t, http.MethodPost, "/api/exp/grant", `{"amount":30}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 30, e.eng.State().Exp)

	code, _ = e.call(t, http.MethodPost, "/api/gems/add", `{"gem":"quartz","count":3}`)
	require.Equal(t, http.StatusOK, code)
	code, res = e.call(t, http.MethodPost, "/api/gems/quartz/fuse", "")
	require.Equal(t, http.StatusOK, code)
	fused := decodeData[world.FuseResult](t, res)
	assert.Equal(t, 0, fused.Remaining)
	require.NotEmpty(t, fused.Claim.ID)

	code, _ = e.call(t, http.MethodPost, "/api/claims/"+fused.Claim.ID+"/use", "")
	assert.Equal(t, http.StatusOK, code)
	code, res = e.call(t, http.MethodPost, "/api/claims/"+fused.Claim.ID+"/use", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "already_completed", res.Code)

	code, res = e.call(t, http.MethodPost, "/api/maps", `{"name":"Summer Map","tier":"B"}`)
	require.Equal(t, http.StatusOK, code)
	m := decodeData[struct {
		ID string `json:"id"`
	}](t, res)
	code, res = e.call(t, http.MethodPost, "/api/maps/"+m.ID+"/complete", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "progress_insufficient", res.Code)
}

func TestAPI_Stats(t *testing.T) {
	e := newEnv(t)

	code, res := e.call(t, http.MethodPost, "/api/tasks", `{"title":"Stretch","category":"exercise","minutes":10}`)
	require.Equal(t, http.StatusOK, code, res.Message)
	id := decodeData[struct {
		ID string `json:"id"`
	}](t, res).ID
	code, _ = e.call(t, http.MethodPost, "/api/tasks/"+id+"/complete", "")
	require.Equal(t, http.StatusOK, code)

	code, res = e.call(t, http.MethodGet, "/api/stats?days=3", "")
	require.Equal(t, http.StatusOK, code)
	st := decodeData[struct {
		TaskCompletions int            `json:"task_completions"`
		ByCategory      map[string]int `json:"by_category"`
	}](t, res)
	assert.Equal(t, 1, st.TaskCompletions)
	assert.Equal(t, map[string]int{"exercise": 1}, st.ByCategory)

	code, res = e.call(t, http.MethodGet, "/api/stats?days=0", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_input", res.Code)
}

func TestAPI_RefreshAndRoutes(t *testing.T) {
	e := newEnv(t)

	code, res := e.call(t, http.MethodPost, "/api/refresh", "")
	require.Equal(t, http.StatusOK, code)
	got := decodeData[world.RefreshResult](t, res)
	assert.True(t, got.Changed)
	assert.Equal(t, 2, got.Day)

	code, res = e.call(t, http.MethodGet, "/api/routes", "")
	require.Equal(t, http.StatusOK, code)
	routes := decodeData[[]RouteDoc](t, res)
	assert.Contains(t, routes, RouteDoc{Method: http.MethodPost, Pattern: "/api/tasks/{id}/complete", Summary: "Complete a task"})
}

func TestHealthAndMetrics(t *testing.T) {
	e := newEnv(t)

	resp, err := http.Get(e.srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	_, _ = e.call(t, http.MethodPost, "/api/coins/add", `{"amount":5}`)
	mresp, err := http.Get(e.srv.URL + "/metrics")
	require.NoError(t, err)
	defer mresp.Body.Close()
	body, _ := io.ReadAll(mresp.Body)
	assert.Contains(t, string(body), `lifequest_world_operations_total{code="ok",op="add_coins"} 1`)
	assert.Contains(t, string(body), "lifequest_player_coins 5")
}

func TestRunRefreshLoop_RollsOverAndStops(t *testing.T) {
	settings := world.DefaultSettings()
	settings.Calendar = clock.NewCalendar(epoch, time.UTC)
	settings.EventChance = 0
	fc := clock.NewFakeClock(epoch.Add(time.Hour))
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	eng := world.New(nil, nil, settings, world.WithClock(fc), world.WithLogger(logger))
	s := New(eng, WithLogger(logger))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.RunRefreshLoop(ctx, 5*time.Millisecond)
		close(done)
	}()

	fc.AdvanceDays(3)
	require.Eventually(t, func() bool { return eng.State().World.Day == 3 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresh loop did not stop")
	}
}
