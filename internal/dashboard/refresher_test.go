package dashboard

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Iron-Ham/moyu/internal/content"
	"github.com/Iron-Ham/moyu/internal/errors"
	"github.com/Iron-Ham/moyu/internal/event"
	"github.com/Iron-Ham/moyu/internal/testutil"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// monday is 2024-12-30 00:00 UTC, two days before 元旦.
var monday = time.Date(2024, time.December, 30, 0, 0, 0, 0, time.UTC)

type fixture struct {
	board     *Board
	clock     *testutil.Clock
	provider  *testutil.Provider
	refresher *Refresher
}

func newFixture(t *testing.T, now time.Time, provider *testutil.Provider) *fixture {
	t.Helper()

	pack := content.Default()
	f := &fixture{
		board:    NewBoard(pack.Targets(), nil),
		clock:    testutil.NewClock(now),
		provider: provider,
	}
	r, err := NewRefresher(Options{
		Board:    f.board,
		Pack:     pack,
		Sampler:  testutil.Sampler(),
		Provider: provider,
		Clock:    f.clock,
	})
	if err != nil {
		t.Fatalf("NewRefresher() error = %v", err)
	}
	f.refresher = r
	t.Cleanup(r.Wait)
	return f
}

func (f *fixture) text(t *testing.T, name string) string {
	t.Helper()
	slot, ok := f.board.Get(name)
	if !ok {
		t.Fatalf("slot %q was never written", name)
	}
	return slot.Text
}

func TestNewRefresher_RequiresBoardAndPack(t *testing.T) {
	if _, err := NewRefresher(Options{Pack: content.Default()}); err == nil {
		t.Error("NewRefresher() without a board should fail")
	}
	if _, err := NewRefresher(Options{Board: NewBoard(nil, nil)}); err == nil {
		t.Error("NewRefresher() without a pack should fail")
	}
}

func TestRefreshAll_ClockSlots(t *testing.T) {
	f := newFixture(t, monday, testutil.NewProvider())
	f.refresher.RefreshAll(context.Background())

	tests := map[string]string{
		SlotDate:           "2024年12月30日星期一",
		SlotWeekend:        "5 天",
		TargetSlot("元旦"): "2 天",
		TargetSlot("除夕"): "30 天",
		TargetSlot("国庆"): "-90 天",
	}
	for name, want := range tests {
		if got := f.text(t, name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}

	workout, _ := f.board.Get(SlotWorkout)
	if workout.Visible {
		t.Error("workout should be hidden at midnight")
	}
}

func TestRefreshAll_WorkoutCountdown(t *testing.T) {
	f := newFixture(t, time.Date(2024, time.December, 31, 17, 59, 30, 0, time.UTC), testutil.NewProvider())
	f.refresher.RefreshAll(context.Background())

	slot, _ := f.board.Get(SlotWorkout)
	if !slot.Visible {
		t.Fatal("workout should be visible on Tuesday 17:59:30")
	}
	if slot.Text != "还有 0 小时 0 分钟 30 秒 下班" {
		t.Errorf("workout = %q", slot.Text)
	}

	f.clock.Set(time.Date(2024, time.December, 28, 10, 0, 0, 0, time.UTC))
	f.refresher.RefreshClock(context.Background())
	slot, _ = f.board.Get(SlotWorkout)
	if slot.Visible || slot.Text != "" {
		t.Errorf("workout on Saturday = %+v, want hidden", slot)
	}
	if got := f.text(t, SlotWeekend); got != "0 天" {
		t.Errorf("weekend on Saturday = %q, want 0 天", got)
	}
}

func TestRefreshAll_ContentSlots(t *testing.T) {
	f := newFixture(t, monday, testutil.NewProvider())
	pack := content.Default()

	for i := 0; i < 1000; i++ {
		f.refresher.RefreshAll(context.Background())

		fact, _ := f.board.Get(SlotFact)
		if !pack.Facts().Contains(fact.Text) {
			t.Fatalf("fact %q is not in the pool", fact.Text)
		}
		tip, _ := f.board.Get(SlotTip)
		if !pack.Tips().Contains(tip.Text) {
			t.Fatalf("tip %q is not in the pool", tip.Text)
		}

		for _, name := range []string{SlotRecommended, SlotDiscouraged} {
			slot, _ := f.board.Get(name)
			pool := pack.Recommended()
			if name == SlotDiscouraged {
				pool = pack.Discouraged()
			}
			if len(slot.Items) != content.ActivityDraw {
				t.Fatalf("%s has %d items", name, len(slot.Items))
			}
			seen := make(map[string]bool)
			for _, item := range slot.Items {
				if !pool.Contains(item) || seen[item] {
					t.Fatalf("%s = %v: want distinct pool members", name, slot.Items)
				}
				seen[item] = true
			}
		}
	}
}

func TestRefreshAll_IdempotentForClockSlots(t *testing.T) {
	f := newFixture(t, monday, testutil.NewProvider())

	f.refresher.RefreshAll(context.Background())
	first := f.board.Snapshot()
	f.refresher.RefreshAll(context.Background())
	second := f.board.Snapshot()

	for _, name := range []string{SlotDate, SlotWeekend, TargetSlot("元旦"), SlotWorkout} {
		a, _ := first.Slot(name)
		b, _ := second.Slot(name)
		if a.Text != b.Text || a.Visible != b.Visible {
			t.Errorf("%s changed between refreshes at the same instant: %+v vs %+v", name, a, b)
		}
	}
}

func TestRefreshClock_LeavesContentAlone(t *testing.T) {
	f := newFixture(t, monday, testutil.NewProvider())
	f.refresher.RefreshAll(context.Background())
	f.refresher.Wait()
	before := f.board.Snapshot()

	f.clock.Advance(24 * time.Hour)
	f.refresher.RefreshClock(context.Background())

	for _, name := range []string{SlotFact, SlotTip, SlotRecommended, SlotDiscouraged, SlotJoke} {
		a, _ := before.Slot(name)
		b, _ := f.board.Get(name)
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			t.Errorf("%s was rewritten by RefreshClock", name)
		}
	}
	if got := f.text(t, TargetSlot("元旦")); got != "1 天" {
		t.Errorf("元旦 after a day = %q, want 1 天", got)
	}
	if f.provider.Calls() != 1 {
		t.Errorf("provider called %d times, want 1", f.provider.Calls())
	}
}

func TestRefreshAll_JokeSuccess(t *testing.T) {
	f := newFixture(t, monday, testutil.NewProvider(testutil.Response{Text: "程序员的笑话"}))

	f.refresher.RefreshAll(context.Background())
	f.refresher.Wait()

	if got := f.text(t, SlotJoke); got != "程序员的笑话" {
		t.Errorf("joke = %q", got)
	}
}

func TestRefreshAll_JokeFailurePublishesFallback(t *testing.T) {
	cause := errors.NewFetchError(errors.NetworkFailure, "http://joke.test", errors.New("connection refused"))
	f := newFixture(t, monday, testutil.NewProvider(testutil.Response{Err: cause}))

	var failures []event.FetchFailedEvent
	var mu sync.Mutex
	f.board.Bus().Subscribe(event.TypeFetchFailed, func(e event.Event) {
		mu.Lock()
		defer mu.Unlock()
		failures = append(failures, e.(event.FetchFailedEvent))
	})

	f.refresher.RefreshAll(context.Background())
	f.refresher.Wait()

	if got := f.text(t, SlotJoke); got != "获取笑话失败，请稍后再试。" {
		t.Errorf("joke = %q, want fallback", got)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(failures) != 1 {
		t.Fatalf("got %d fetch failure events, want 1", len(failures))
	}
	if failures[0].Kind != "network" || failures[0].Endpoint != "http://joke.test" {
		t.Errorf("event = %+v", failures[0])
	}
	if !errors.Is(failures[0].Err, errors.ErrNetworkFailure) {
		t.Errorf("event error = %v", failures[0].Err)
	}
}

func TestRefreshAll_DoesNotWaitForJoke(t *testing.T) {
	provider := testutil.NewProvider(testutil.Response{Text: "late joke"}).Gated()
	f := newFixture(t, monday, provider)

	done := make(chan struct{})
	go func() {
		f.refresher.RefreshAll(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RefreshAll blocked on the joke fetch")
	}

	if got := f.text(t, SlotJoke); got != "加载中..." {
		t.Errorf("joke before the fetch lands = %q, want loading text", got)
	}

	provider.Release()
	f.refresher.Wait()
	if got := f.text(t, SlotJoke); got != "late joke" {
		t.Errorf("joke = %q", got)
	}
}

func TestRefreshAll_CancelledFetchIsDropped(t *testing.T) {
	provider := testutil.NewProvider(testutil.Response{Text: "never shown"}).Gated()
	f := newFixture(t, monday, provider)

	ctx, cancel := context.WithCancel(context.Background())
	f.refresher.RefreshAll(ctx)
	cancel()
	f.refresher.Wait()

	if got := f.text(t, SlotJoke); got != "加载中..." {
		t.Errorf("joke = %q, want the cancelled fetch to be dropped", got)
	}
}

func TestRun_TicksUntilCancelled(t *testing.T) {
	f := newFixture(t, monday, testutil.NewProvider())

	var full, clockOnly atomic.Int32
	reached := make(chan struct{})
	var once sync.Once
	f.board.Bus().Subscribe(event.TypeRefreshCompleted, func(e event.Event) {
		if e.(event.RefreshCompletedEvent).Full {
			full.Add(1)
		} else {
			clockOnly.Add(1)
		}
		if full.Load()+clockOnly.Load() >= 7 {
			once.Do(func() { close(reached) })
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		f.refresher.Run(ctx, 5*time.Millisecond, 3)
		close(stopped)
	}()

	select {
	case <-reached:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not tick")
	}
	cancel()

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	f.refresher.Wait()

	if full.Load() < 3 {
		t.Errorf("full refreshes = %d, want at least 3 (immediate, tick 3, tick 6)", full.Load())
	}
	if clockOnly.Load() < 4 {
		t.Errorf("clock-only refreshes = %d, want at least 4", clockOnly.Load())
	}
}

func TestRun_ConcurrentManualRefresh(t *testing.T) {
	f := newFixture(t, monday, testutil.NewProvider())

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		f.refresher.Run(ctx, time.Millisecond, 1)
		close(stopped)
	}()

	var wg sync.WaitGroup
	for range 4 {
		wg.Go(func() {
			for range 50 {
				f.refresher.RefreshAll(ctx)
				_ = f.board.Snapshot()
			}
		})
	}
	wg.Wait()
	cancel()
	<-stopped
	f.refresher.Wait()

	if n := len(f.board.Snapshot().Slots); n != len(f.board.Names()) {
		t.Errorf("snapshot has %d slots, want all %d written", n, len(f.board.Names()))
	}
}

func TestNewRefresher_Defaults(t *testing.T) {
	board := NewBoard(content.Default().Targets(), nil)
	r, err := NewRefresher(Options{Board: board, Pack: content.Default()})
	if err != nil {
		t.Fatalf("NewRefresher() error = %v", err)
	}

	r.RefreshAll(context.Background())
	r.Wait()

	slot, _ := board.Get(SlotJoke)
	if slot.Text != "获取笑话失败，请稍后再试。" {
		t.Errorf("default provider joke = %q, want fallback text", slot.Text)
	}
}
