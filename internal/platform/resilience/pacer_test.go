package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPacer_SpacesCallsByInterval(t *testing.T) {
	p := NewPacer(30 * time.Millisecond)
	ctx := context.Background()

	started := time.Now()
	for i := 0; i < 4; i++ {
		if err := p.Wait(ctx); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}

	// first slot is immediate, the next three are 30ms apart
	if elapsed := time.Since(started); elapsed < 90*time.Millisecond {
		t.Fatalf("expected at least 90ms of pacing, got %s", elapsed)
	}
}

func TestPacer_CancelledContext(t *testing.T) {
	p := NewPacer(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	if err := p.Wait(ctx); err != nil {
		t.Fatalf("first slot should be immediate: %v", err)
	}

	cancel()
	if err := p.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPacer_CancelledWaitStillConsumesSlot(t *testing.T) {
	p := NewPacer(40 * time.Millisecond)

	started := time.Now()
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("first slot should be immediate: %v", err)
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Wait(cancelled); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	// the cancelled caller held the 40ms slot, so this one lands at 80ms
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("third wait: %v", err)
	}
	if elapsed := time.Since(started); elapsed < 75*time.Millisecond {
		t.Fatalf("expected the cancelled slot to stay reserved, third wait returned after %s", elapsed)
	}
}

func TestPacer_ZeroIntervalNeverBlocks(t *testing.T) {
	p := NewPacer(0)
	for i := 0; i < 100; i++ {
		if err := p.Wait(context.Background()); err != nil {
			t.Fatalf("wait: %v", err)
		}
	}
}

func TestBackoff_Delay(t *testing.T) {
	b := Backoff{Base: 100 * time.Millisecond, Max: time.Second, Factor: 2}

	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{attempt: 0, want: 100 * time.Millisecond},
		{attempt: 1, want: 200 * time.Millisecond},
		{attempt: 2, want: 400 * time.Millisecond},
		{attempt: 3, want: 800 * time.Millisecond},
		{attempt: 4, want: time.Second},
		{attempt: 10, want: time.Second},
	}
	for _, tc := range cases {
		if got := b.Delay(tc.attempt); got != tc.want {
			t.Fatalf("attempt %d: got %s want %s", tc.attempt, got, tc.want)
		}
	}
}
