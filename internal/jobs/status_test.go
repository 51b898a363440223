package jobs

import "testing"

func TestValidTransitionMatrix(t *testing.T) {
	legal := []struct{ from, to Status }{
		{StatusIdle, StatusStarting},
		{StatusStarting, StatusRunning},
		{StatusRunning, StatusStopping},
		{StatusRunning, StatusVerifying}, // bounded jobs skip the stop phase
		{StatusStopping, StatusVerifying},
		{StatusVerifying, StatusCompleted},
		{StatusStarting, StatusFailed},
		{StatusRunning, StatusFailed},
		{StatusStopping, StatusFailed},
		{StatusVerifying, StatusFailed},
	}
	for _, tc := range legal {
		if !ValidTransition(tc.from, tc.to) {
			t.Errorf("%s -> %s should be legal", tc.from, tc.to)
		}
	}

	illegal := []struct{ from, to Status }{
		{StatusIdle, StatusRunning},
		{StatusStarting, StatusStopping},
		{StatusStopping, StatusRunning},
		{StatusVerifying, StatusRunning},
		{StatusCompleted, StatusRunning},
		{StatusCompleted, StatusFailed},
		{StatusFailed, StatusVerifying},
		{StatusRunning, StatusCompleted},
	}
	for _, tc := range illegal {
		if ValidTransition(tc.from, tc.to) {
			t.Errorf("%s -> %s should be illegal", tc.from, tc.to)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusFailed} {
		if !s.Terminal() {
			t.Errorf("%s must be terminal", s)
		}
		if s.Active() {
			t.Errorf("%s must not be active", s)
		}
	}
	for _, s := range []Status{StatusIdle, StatusStarting, StatusRunning, StatusStopping, StatusVerifying} {
		if s.Terminal() {
			t.Errorf("%s must not be terminal", s)
		}
	}
	if StatusIdle.Active() {
		t.Error("idle does not occupy the session")
	}
}

func TestBoundedParams(t *testing.T) {
	cases := []struct {
		params Params
		want   bool
	}{
		{Params{Kind: KindRecord, DurationSeconds: 5}, true},
		{Params{Kind: KindRecord, DurationSeconds: 0}, false},
		{Params{Kind: KindTest}, true},
		{Params{Kind: KindConvert}, false},
	}
	for _, tc := range cases {
		if got := tc.params.Bounded(); got != tc.want {
			t.Errorf("Bounded(%s, %d) = %v, want %v", tc.params.Kind, tc.params.DurationSeconds, got, tc.want)
		}
	}
}

func TestChainSuggestion(t *testing.T) {
	s := chainSuggestion("/tmp/recordings/demo.mp4")
	if s.ConvertInput != "/tmp/recordings/demo.mp4" {
		t.Fatalf("input = %q", s.ConvertInput)
	}
	if s.ConvertOutput != "/tmp/recordings/demo.gif" {
		t.Fatalf("output = %q", s.ConvertOutput)
	}

	s = chainSuggestion("/tmp/no.ext/bare")
	if s.ConvertOutput != "/tmp/no.ext/bare.gif" {
		t.Fatalf("extensionless output = %q", s.ConvertOutput)
	}
}
