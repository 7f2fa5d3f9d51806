package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"goal-roadmap/internal/domain"
)

// blockingServer deja colgadas las metas "slow" hasta que el cliente cancele.
func blockingServer(t *testing.T) *httptest.Server {
	t.Helper()
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req domain.GoalRequest
		_ = json.Unmarshal(body, &req)
		if req.Goal == "slow" {
			select {
			case <-r.Context().Done():
				return
			case <-release:
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"goal":"` + req.Goal + `"}`))
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })
	return srv
}

func TestDispatcher_SupersedesInFlightSubmission(t *testing.T) {
	srv := blockingServer(t)
	obs := &recordingObserver{}
	s := NewSubmitter(zap.NewNop(), Options{BaseURL: srv.URL, Timeout: 5 * time.Second}, nil, obs)
	d := NewDispatcher(zap.NewNop(), s, true)

	d.Dispatch(context.Background(), "slow")
	require.Eventually(t, func() bool { return d.InFlight() == 1 }, time.Second, 5*time.Millisecond)
	d.Dispatch(context.Background(), "fast")
	d.Wait()

	obs.mu.Lock()
	defer obs.mu.Unlock()
	require.Len(t, obs.successes, 1)
	assert.JSONEq(t, `{"goal":"fast"}`, string(obs.successes[0].Body))
	require.Len(t, obs.failures, 1)

	var rcf *RemoteCallFailure
	require.ErrorAs(t, obs.failures[0], &rcf)
	assert.Equal(t, "slow", rcf.Goal)
	assert.True(t, rcf.Superseded)
	assert.Equal(t, 0, d.InFlight())
}

type countingSubmitter struct {
	calls atomic.Int32
	goals sync.Map
	delay time.Duration
}

func (c *countingSubmitter) Submit(ctx context.Context, goal string) (domain.GoalResponse, error) {
	c.calls.Add(1)
	c.goals.Store(goal, true)
	select {
	case <-time.After(c.delay):
		return domain.GoalResponse{StatusCode: http.StatusOK}, nil
	case <-ctx.Done():
		return domain.GoalResponse{}, context.Cause(ctx)
	}
}

func TestDispatcher_WithoutSupersedeAllComplete(t *testing.T) {
	sub := &countingSubmitter{delay: 20 * time.Millisecond}
	d := NewDispatcher(nil, sub, false)

	for _, g := range []string{"a", "b", "c"} {
		d.Dispatch(context.Background(), g)
	}
	d.Wait()

	assert.Equal(t, int32(3), sub.calls.Load())
	for _, g := range []string{"a", "b", "c"} {
		_, ok := sub.goals.Load(g)
		assert.True(t, ok, "goal %q not submitted", g)
	}
	assert.Equal(t, 0, d.InFlight())
}

func TestDispatcher_CloseCancelsInFlight(t *testing.T) {
	sub := &countingSubmitter{delay: time.Minute}
	d := NewDispatcher(nil, sub, false)
	d.Dispatch(context.Background(), "forever")

	done := make(chan struct{})
	go func() {
		d.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not cancel in-flight submission")
	}
}

type panickySubmitter struct{}

func (panickySubmitter) Submit(context.Context, string) (domain.GoalResponse, error) {
	panic("broken transport")
}

func TestDispatcher_RecoversSubmitterPanic(t *testing.T) {
	d := NewDispatcher(nil, panickySubmitter{}, true)
	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), "x")
		d.Wait()
	})
}

func TestBootstrapper_RunsOnce(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	s := NewSubmitter(zap.NewNop(), Options{BaseURL: srv.URL}, nil, &recordingObserver{})
	b := NewBootstrapper(zap.NewNop(), s, BootstrapModeEndpoint, "Learn Python")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = b.Run(context.Background())
		}()
	}
	wg.Wait()
	require.NoError(t, b.Run(context.Background()))

	assert.Equal(t, int32(1), hits.Load())
}

func TestBootstrapper_Modes(t *testing.T) {
	tests := []struct {
		name       string
		mode       string
		wantMethod string
		wantPath   string
		wantBody   string
	}{
		{name: "endpoint", mode: "endpoint", wantMethod: http.MethodPost, wantPath: "/generate-roadmap", wantBody: `{"goal":"Learn Python","user_id":"user123"}`},
		{name: "unknown falls back to endpoint", mode: "bogus", wantMethod: http.MethodPost, wantPath: "/generate-roadmap", wantBody: `{"goal":"Learn Python","user_id":"user123"}`},
		{name: "root", mode: " ROOT ", wantMethod: http.MethodGet, wantPath: "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, requests := newGoalServer(t, http.StatusOK, `{"status":"ok"}`)
			s := newTestSubmitter(srv.URL, &recordingObserver{}, ResponseModeJSON)
			b := NewBootstrapper(nil, s, tt.mode, "Learn Python")

			require.NoError(t, b.Run(context.Background()))
			require.Len(t, *requests, 1)
			assert.Equal(t, tt.wantMethod, (*requests)[0].Method)
			assert.Equal(t, tt.wantPath, (*requests)[0].Path)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, (*requests)[0].Body)
			}
		})
	}
}

func TestBootstrapper_FailureIsRemembered(t *testing.T) {
	srv, requests := newGoalServer(t, http.StatusBadGateway, `{"error":"down"}`)
	s := newTestSubmitter(srv.URL, &recordingObserver{}, ResponseModeJSON)
	b := NewBootstrapper(nil, s, BootstrapModeEndpoint, "Learn Python")

	first := b.Run(context.Background())
	second := b.Run(context.Background())
	require.Error(t, first)
	assert.True(t, errors.Is(second, first))
	assert.Len(t, *requests, 1)
}
