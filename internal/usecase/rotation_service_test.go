package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-dashboard/internal/platform/logging"
)

type snapshotStub struct {
	mu   sync.Mutex
	errs map[string]error
}

func (s *snapshotStub) setErr(leagueID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.errs == nil {
		s.errs = make(map[string]error)
	}
	s.errs[leagueID] = err
}

func (s *snapshotStub) Snapshot(_ context.Context, leagueID string) (Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errs[leagueID]; err != nil {
		return Dashboard{}, err
	}
	return Dashboard{Week: 2}, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	states []TVState
}

func (p *recordingPublisher) Publish(state TVState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.states = append(p.states, state)
}

func (p *recordingPublisher) last() TVState {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.states) == 0 {
		return TVState{}
	}
	return p.states[len(p.states)-1]
}

type warmerStub struct {
	calls int
}

func (w *warmerStub) Warm(context.Context) (WarmResult, error) {
	w.calls++
	return WarmResult{}, nil
}

func TestRotationService_RefreshAndAdvance(t *testing.T) {
	t.Parallel()

	publisher := &recordingPublisher{}
	warmer := &warmerStub{}
	service := NewRotationService(&snapshotStub{}, warmer, testRegistry(), publisher, RotationConfig{}, logging.NewNop())

	if err := service.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if warmer.calls != 1 {
		t.Fatalf("expected cache warm before snapshots, got %d calls", warmer.calls)
	}

	state := service.Current()
	if state.Status != TVStatusReady || state.LeagueID != "1180" || state.LeagueCount != 3 || state.Dashboard == nil {
		t.Fatalf("unexpected first screen: %+v", state)
	}

	service.Advance()
	service.Advance()
	if got := service.Current().LeagueID; got != "3300" {
		t.Fatalf("expected third league, got %s", got)
	}
	service.Advance()
	if got := service.Current().LeagueID; got != "1180" {
		t.Fatalf("expected rotation to wrap, got %s", got)
	}
	if publisher.last().LeagueID != "1180" {
		t.Fatalf("expected every move to be published")
	}
}

func TestRotationService_FailureCountsRetries(t *testing.T) {
	t.Parallel()

	snapshots := &snapshotStub{}
	upstreamErr := &UpstreamError{Status: 502, Endpoint: "/league/1180"}
	for _, id := range []string{"1180", "2210", "3300"} {
		snapshots.setErr(id, upstreamErr)
	}
	publisher := &recordingPublisher{}
	service := NewRotationService(snapshots, nil, testRegistry(), publisher, RotationConfig{RetryDelay: 3 * time.Second}, logging.NewNop())

	for i := 1; i <= 2; i++ {
		if err := service.Refresh(context.Background()); !errors.Is(err, ErrUpstream) {
			t.Fatalf("attempt %d: expected ErrUpstream, got %v", i, err)
		}
		state := service.Current()
		if state.Status != TVStatusError || state.RetryCount != i {
			t.Fatalf("attempt %d: unexpected state %+v", i, state)
		}
		if state.Message != ConnectionIssueMessage || state.RetryDelay != 3*time.Second {
			t.Fatalf("expected generic message, got %q", state.Message)
		}
	}

	snapshots.setErr("2210", nil)
	if err := service.Refresh(context.Background()); err != nil {
		t.Fatalf("expected partial refresh to succeed, got %v", err)
	}
	state := service.Current()
	if state.Status != TVStatusLoading || state.RetryCount != 0 {
		t.Fatalf("expected current league still loading and retry reset, got %+v", state)
	}
	service.Advance()
	if state := service.Current(); state.Status != TVStatusReady || state.LeagueID != "2210" {
		t.Fatalf("expected league with data to be ready, got %+v", state)
	}
}

func TestRotationService_RunStopsWithContext(t *testing.T) {
	t.Parallel()

	publisher := &recordingPublisher{}
	service := NewRotationService(&snapshotStub{}, nil, testRegistry(), publisher, RotationConfig{
		RotateInterval:  10 * time.Millisecond,
		RefreshInterval: time.Hour,
	}, logging.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- service.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not stop after context cancellation")
	}

	publisher.mu.Lock()
	published := len(publisher.states)
	first := publisher.states[0]
	publisher.mu.Unlock()
	if first.Status != TVStatusLoading {
		t.Fatalf("expected loading state first, got %s", first.Status)
	}
	if published < 3 {
		t.Fatalf("expected initial load and rotations to publish, got %d states", published)
	}
}
