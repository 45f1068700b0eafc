// Package internal contains integration tests that verify the dashboard
// packages work together: the refresher writes the board, the board
// announces writes on the event bus and the HTTP surface serves them.
package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Iron-Ham/moyu/internal/content"
	"github.com/Iron-Ham/moyu/internal/dashboard"
	"github.com/Iron-Ham/moyu/internal/event"
	"github.com/Iron-Ham/moyu/internal/joke"
	"github.com/Iron-Ham/moyu/internal/locale"
	"github.com/Iron-Ham/moyu/internal/server"
	"github.com/Iron-Ham/moyu/internal/testutil"
	"go.uber.org/goleak"
)

// recorder collects every event published on a bus.
type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recorder) handle(e event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) ofType(eventType string) []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []event.Event
	for _, e := range r.events {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

func newDashboard(t *testing.T, provider joke.Provider) (*dashboard.Board, *dashboard.Refresher, *recorder) {
	t.Helper()
	rec := &recorder{}
	bus := event.NewBus(nil)
	bus.SubscribeAll(rec.handle)

	pack := content.Default()
	board := dashboard.NewBoard(pack.Targets(), bus)
	r, err := dashboard.NewRefresher(dashboard.Options{
		Board:    board,
		Pack:     pack,
		Sampler:  testutil.Sampler(),
		Provider: provider,
		Clock:    testutil.NewClock(time.Date(2024, time.December, 30, 10, 0, 0, 0, time.UTC)),
	})
	if err != nil {
		t.Fatalf("NewRefresher() error = %v", err)
	}
	return board, r, rec
}

func getSlot(t *testing.T, h http.Handler, name string) dashboard.Slot {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/slots/"+name, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s status = %d", name, rec.Code)
	}
	var slot dashboard.Slot
	if err := json.Unmarshal(rec.Body.Bytes(), &slot); err != nil {
		t.Fatalf("decode slot: %v", err)
	}
	return slot
}

// TestRefreshThroughServer follows one refresh from the refresher to the
// HTTP surface, including the joke that lands after the response.
func TestRefreshThroughServer(t *testing.T) {
	defer goleak.VerifyNone(t)

	provider := testutil.NewProvider(testutil.Response{Text: "程序员的笑话"}).Gated()
	board, r, events := newDashboard(t, provider)
	h := server.New(server.Options{Board: board, Refresher: r}).Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	if resp.Code != http.StatusAccepted {
		t.Fatalf("POST /api/refresh status = %d, want 202", resp.Code)
	}

	if got := getSlot(t, h, dashboard.SlotJoke).Text; got != "加载中..." {
		t.Errorf("joke before the fetch = %q, want the loading text", got)
	}
	if got := getSlot(t, h, dashboard.SlotWeekend).Text; got != "5 天" {
		t.Errorf("weekend = %q, want 5 天", got)
	}

	provider.Release()
	r.Wait()

	if got := getSlot(t, h, dashboard.SlotJoke).Text; got != "程序员的笑话" {
		t.Errorf("joke after the fetch = %q", got)
	}

	completed := events.ofType(event.TypeRefreshCompleted)
	if len(completed) != 1 || !completed[0].(event.RefreshCompletedEvent).Full {
		t.Errorf("refresh.completed events = %v, want one full refresh", completed)
	}

	var jokeWrites int
	for _, e := range events.ofType(event.TypeSlotUpdated) {
		if e.(event.SlotUpdatedEvent).Slot == dashboard.SlotJoke {
			jokeWrites++
		}
	}
	if jokeWrites != 2 {
		t.Errorf("joke slot writes = %d, want loading text then joke", jokeWrites)
	}
}

// TestFetchFailureReachesBus checks that an HTTP provider failure shows
// the fallback text and is announced with its kind.
func TestFetchFailureReachesBus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer upstream.Close()

	provider := joke.NewHTTPProvider(joke.Options{Endpoint: upstream.URL, Timeout: time.Second, Client: upstream.Client()})
	board, r, events := newDashboard(t, provider)

	r.RefreshAll(context.Background())
	r.Wait()

	slot, ok := board.Get(dashboard.SlotJoke)
	if !ok || slot.Text != locale.Default().JokeFallback() {
		t.Errorf("joke slot = %+v, want the fallback", slot)
	}

	failed := events.ofType(event.TypeFetchFailed)
	if len(failed) != 1 {
		t.Fatalf("fetch.failed events = %d, want 1", len(failed))
	}
	e := failed[0].(event.FetchFailedEvent)
	if e.Kind != "response" || e.Endpoint != upstream.URL {
		t.Errorf("fetch.failed = kind %q endpoint %q, want response from %s", e.Kind, e.Endpoint, upstream.URL)
	}
}

// TestRunLoopStopsCleanly runs the refresh loop briefly and verifies it
// leaves no goroutines behind after cancellation.
func TestRunLoopStopsCleanly(t *testing.T) {
	defer goleak.VerifyNone(t)

	board, r, events := newDashboard(t, testutil.NewProvider())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Run(ctx, 5*time.Millisecond, 2)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for len(events.ofType(event.TypeRefreshCompleted)) < 4 {
		if time.Now().After(deadline) {
			cancel()
			t.Fatal("the refresh loop did not tick")
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
	<-done
	r.Wait()

	if len(board.Snapshot().Slots) == 0 {
		t.Error("the board should hold slots after the loop ran")
	}
	var full, clock int
	for _, e := range events.ofType(event.TypeRefreshCompleted) {
		if e.(event.RefreshCompletedEvent).Full {
			full++
		} else {
			clock++
		}
	}
	if full == 0 || clock == 0 {
		t.Errorf("full/clock refreshes = %d/%d, want both kinds with content_every 2", full, clock)
	}
}
