package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func passing(context.Context) error { return nil }

func failing(msg string) CheckFunc {
	return func(context.Context) error { return errors.New(msg) }
}

func probe(t *testing.T, h *Health, p Probe) (int, statusBody) {
	t.Helper()

	w := httptest.NewRecorder()
	h.Handler(p)(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body statusBody
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return w.Code, body
}

func runN(h *Health, p Probe, idx, n int) {
	c := h.snapshot(p)[idx]
	for range n {
		c.run(context.Background())
	}
}

func TestLiveness(t *testing.T) {
	tests := []struct {
		name       string
		check      CheckFunc
		runs       int
		wantStatus int
		wantChecks map[string]string
	}{
		{name: "passing", check: passing, runs: 1, wantStatus: http.StatusOK},
		{name: "healthy before first run", check: failing("down"), runs: 0, wantStatus: http.StatusOK},
		{name: "below failure threshold", check: failing("down"), runs: 2, wantStatus: http.StatusOK},
		{
			name:       "past failure threshold",
			check:      failing("connection refused"),
			runs:       3,
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{"db": "connection refused"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New()
			h.Register(Liveness, "db", tt.check)
			runN(h, Liveness, 0, tt.runs)

			code, body := probe(t, h, Liveness)
			assert.Equal(t, tt.wantStatus, code)
			assert.Equal(t, tt.wantChecks, body.Checks)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "ok", body.Status)
			} else {
				assert.Equal(t, "unhealthy", body.Status)
			}
		})
	}
}

func TestLiveness_IgnoresReadiness(t *testing.T) {
	h := New()
	h.Register(Readiness, "db", failing("down"))
	runN(h, Readiness, 0, 3)

	code, _ := probe(t, h, Liveness)
	assert.Equal(t, http.StatusOK, code)
}

func TestReadiness(t *testing.T) {
	h := New()
	h.Register(Readiness, "catalog", passing)
	h.Register(Readiness, "postgres", failing("timeout"))

	code, body := probe(t, h, Readiness)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, map[string]string{"_readiness": "service is not ready"}, body.Checks)
	assert.False(t, h.IsReady())

	h.SetReady(true)
	code, _ = probe(t, h, Readiness)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, h.IsReady())

	runN(h, Readiness, 1, 3)
	code, body = probe(t, h, Readiness)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, map[string]string{"postgres": "timeout"}, body.Checks)
	assert.False(t, h.IsReady())

	h.SetReady(false)
	assert.False(t, h.IsReady())
}

func TestCheck_Recovers(t *testing.T) {
	down := true
	h := New()
	h.Register(Liveness, "flaky", func(context.Context) error {
		if down {
			return errors.New("down")
		}
		return nil
	}, WithThresholds(2, 2))
	c := h.snapshot(Liveness)[0]

	c.run(context.Background())
	c.run(context.Background())
	require.False(t, c.healthy.Load())

	down = false
	c.run(context.Background())
	assert.False(t, c.healthy.Load(), "one success is below the success threshold")
	c.run(context.Background())
	assert.True(t, c.healthy.Load())
}

func TestCheck_Timeout(t *testing.T) {
	h := New()
	h.Register(Liveness, "slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, WithTimeout(10*time.Millisecond), WithThresholds(1, 1))

	runN(h, Liveness, 0, 1)

	code, body := probe(t, h, Liveness)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, context.DeadlineExceeded.Error(), body.Checks["slow"])
}

func TestStartStop(t *testing.T) {
	ran := make(chan struct{}, 1)
	h := New()
	h.Register(Liveness, "tick", func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	h.Start(context.Background(), time.Hour)
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("check did not run on start")
	}

	h.Stop()
	h.Stop()
}

func TestConcurrentAccess(t *testing.T) {
	h := New()
	h.Register(Liveness, "liveness", failing("err"))
	h.Register(Readiness, "readiness", passing)
	h.SetReady(true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.Start(ctx, time.Millisecond)
	defer h.Stop()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				h.IsReady()
				h.Handler(Liveness)(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/livez", nil))
				h.Handler(Readiness)(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/readyz", nil))
			}
		}()
	}
	wg.Wait()
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestCheckers(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, GoroutineCountCheck(100000)(ctx))
	assert.ErrorContains(t, GoroutineCountCheck(0)(ctx), "exceeds threshold")

	assert.NoError(t, PingCheck(fakePinger{})(ctx))
	assert.ErrorContains(t, PingCheck(fakePinger{err: errors.New("refused")})(ctx), "refused")

	assert.NoError(t, NonEmptyCheck("catalog", func() int { return 4 })(ctx))
	assert.EqualError(t, NonEmptyCheck("catalog", func() int { return 0 })(ctx), "catalog is empty")
}
