package msg

import (
	"context"
	"testing"
	"time"
)

type recordingRefresher struct {
	all, clock int
}

func (r *recordingRefresher) RefreshAll(context.Context)   { r.all++ }
func (r *recordingRefresher) RefreshClock(context.Context) { r.clock++ }

func TestTick(t *testing.T) {
	cmd := Tick(time.Millisecond)
	if cmd == nil {
		t.Fatal("Tick() returned nil command")
	}
	if _, ok := cmd().(TickMsg); !ok {
		t.Error("Tick() command should produce a TickMsg")
	}
}

func TestRefresh(t *testing.T) {
	tests := []struct {
		name      string
		full      bool
		wantAll   int
		wantClock int
	}{
		{"full refresh", true, 1, 0},
		{"clock only", false, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recordingRefresher{}
			got := Refresh(context.Background(), r, tt.full)()

			refreshed, ok := got.(RefreshedMsg)
			if !ok {
				t.Fatalf("Refresh() produced %T, want RefreshedMsg", got)
			}
			if refreshed.Full != tt.full {
				t.Errorf("RefreshedMsg.Full = %v, want %v", refreshed.Full, tt.full)
			}
			if r.all != tt.wantAll || r.clock != tt.wantClock {
				t.Errorf("RefreshAll/RefreshClock calls = %d/%d, want %d/%d", r.all, r.clock, tt.wantAll, tt.wantClock)
			}
		})
	}
}

func TestRefresh_IsLazy(t *testing.T) {
	r := &recordingRefresher{}
	_ = Refresh(context.Background(), r, true)
	if r.all != 0 {
		t.Error("Refresh() must not refresh until the command runs")
	}
}
