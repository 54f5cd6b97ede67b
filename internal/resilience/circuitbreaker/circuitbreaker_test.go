package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

var errFetch = errors.New("feed unreachable")

func testConfig() Config {
	return Config{
		Name:             "test-feed",
		MaxRequests:      1,
		Interval:         10 * time.Second,
		Timeout:          100 * time.Millisecond,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

func run(cb *CircuitBreaker, fail bool) error {
	_, err := cb.Execute(func() (interface{}, error) {
		if fail {
			return nil, errFetch
		}
		return "ok", nil
	})
	return err
}

func TestCircuitBreaker_Trip(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []bool // true = 失敗
		wantOpen bool
	}{
		{name: "below min requests", outcomes: []bool{true, true, true, true}, wantOpen: false},
		{name: "ratio below threshold", outcomes: []bool{true, false, true, false, false}, wantOpen: false},
		{name: "ratio reaches threshold", outcomes: []bool{true, false, true, false, true}, wantOpen: true},
		{name: "all failures", outcomes: []bool{true, true, true, true, true}, wantOpen: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := New(testConfig())
			for i, fail := range tt.outcomes {
				err := run(cb, fail)
				if fail && !errors.Is(err, errFetch) {
					t.Fatalf("call %d: err = %v", i, err)
				}
			}
			if cb.IsOpen() != tt.wantOpen {
				t.Errorf("IsOpen() = %v, want %v (state %v)", cb.IsOpen(), tt.wantOpen, cb.State())
			}
		})
	}
}

func TestCircuitBreaker_OpenRejectsAndRecovers(t *testing.T) {
	cb := New(testConfig())
	for i := 0; i < 5; i++ {
		_ = run(cb, true)
	}
	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("state = %v, want open", cb.State())
	}

	called := false
	_, err := cb.Execute(func() (interface{}, error) {
		called = true
		return nil, nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) || called {
		t.Fatalf("open breaker err=%v called=%v", err, called)
	}

	time.Sleep(150 * time.Millisecond)
	if err := run(cb, false); err != nil {
		t.Fatalf("half-open probe failed: %v", err)
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("state = %v, want closed after successful probe", cb.State())
	}
}

func TestPresets(t *testing.T) {
	tests := []struct {
		cfg       Config
		wantName  string
		threshold float64
	}{
		{DefaultConfig("x"), "x", 0.6},
		{FeedFetchConfig(), "feed-fetch", 0.7},
		{ContentFetchConfig(), "content-fetch", 0.6},
	}
	for _, tt := range tests {
		if tt.cfg.Name != tt.wantName || tt.cfg.FailureThreshold != tt.threshold {
			t.Errorf("preset %q: got name %q threshold %v", tt.wantName, tt.cfg.Name, tt.cfg.FailureThreshold)
		}
		if cb := New(tt.cfg); cb.Name() != tt.wantName {
			t.Errorf("Name() = %q", cb.Name())
		}
	}
}
