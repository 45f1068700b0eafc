package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Iron-Ham/moyu/internal/calendar"
	"github.com/Iron-Ham/moyu/internal/content"
	"github.com/Iron-Ham/moyu/internal/errors"
	"github.com/Iron-Ham/moyu/internal/event"
	"github.com/Iron-Ham/moyu/internal/joke"
	"github.com/Iron-Ham/moyu/internal/locale"
	"github.com/Iron-Ham/moyu/internal/logging"
	"github.com/Iron-Ham/moyu/internal/workout"
)

// DefaultInterval is the period of the refresh loop.
const DefaultInterval = time.Second

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// Options configures a Refresher. Board and Pack are required; the other
// fields have defaults.
type Options struct {
	Board     *Board
	Pack      *content.Pack
	Sampler   *content.Sampler  // defaults to the process-wide generator
	Provider  joke.Provider     // defaults to a provider that always returns the fallback text
	Formatter *locale.Formatter // defaults to locale.Default()
	Schedule  workout.Schedule  // zero value means workout.DefaultSchedule()
	Clock     Clock             // defaults to SystemClock
	Logger    *logging.Logger   // defaults to a discarding logger
}

// Refresher recomputes every slot of a Board from the content pack, the
// clock and the joke provider.
type Refresher struct {
	board    *Board
	pack     *content.Pack
	sampler  *content.Sampler
	provider joke.Provider
	format   *locale.Formatter
	schedule workout.Schedule
	clock    Clock
	logger   *logging.Logger

	fetches sync.WaitGroup
}

// NewRefresher creates a Refresher.
func NewRefresher(opts Options) (*Refresher, error) {
	if opts.Board == nil {
		return nil, fmt.Errorf("refresher: board is required")
	}
	if opts.Pack == nil {
		return nil, fmt.Errorf("refresher: content pack is required")
	}

	r := &Refresher{
		board:    opts.Board,
		pack:     opts.Pack,
		sampler:  opts.Sampler,
		provider: opts.Provider,
		format:   opts.Formatter,
		schedule: opts.Schedule,
		clock:    opts.Clock,
		logger:   opts.Logger,
	}
	if r.format == nil {
		r.format = locale.Default()
	}
	if r.sampler == nil {
		r.sampler = content.NewSampler(nil)
	}
	if r.provider == nil {
		r.provider = joke.Static(r.format.JokeFallback())
	}
	if r.schedule == (workout.Schedule{}) {
		r.schedule = workout.DefaultSchedule()
	}
	if r.clock == nil {
		r.clock = SystemClock
	}
	if r.logger == nil {
		r.logger = logging.NopLogger()
	}
	r.logger = r.logger.WithComponent("refresher")
	return r, nil
}

// RefreshAll overwrites every slot. The joke slot is written later by a
// background fetch; RefreshAll never waits for it. Safe to call
// concurrently with Run.
func (r *Refresher) RefreshAll(ctx context.Context) {
	r.refresh(ctx, 0, true)
}

// RefreshClock overwrites only the slots driven by the clock: date,
// weekend, targets and workout.
func (r *Refresher) RefreshClock(ctx context.Context) {
	r.refresh(ctx, 0, false)
}

func (r *Refresher) refresh(ctx context.Context, tick int, full bool) {
	now := r.clock.Now()
	r.publishClock(now)
	if full {
		r.publishContent(now)
		r.startFetch(ctx)
	}
	r.board.Bus().Publish(event.NewRefreshCompletedEvent(tick, full))
}

// Run refreshes everything immediately and then on every tick of interval
// until ctx is cancelled. Content slots rotate every contentEvery-th tick;
// other ticks only refresh the clock slots. Run returns after ctx is
// cancelled; pending fetches are cancelled with it and their results are
// dropped. Call Wait to block until they have returned.
func (r *Refresher) Run(ctx context.Context, interval time.Duration, contentEvery int) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if contentEvery < 1 {
		contentEvery = 1
	}

	r.logger.Info("refresh loop started", "interval", interval.String(), "content_every", contentEvery)
	r.refresh(ctx, 0, true)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for tick := 1; ; tick++ {
		select {
		case <-ctx.Done():
			r.logger.Info("refresh loop stopped", "ticks", tick-1)
			return
		case <-ticker.C:
			r.refresh(ctx, tick, tick%contentEvery == 0)
		}
	}
}

// Wait blocks until every joke fetch started so far has returned.
func (r *Refresher) Wait() {
	r.fetches.Wait()
}

func (r *Refresher) publishClock(now time.Time) {
	r.board.Publish(Slot{Name: SlotDate, Text: r.format.LongDate(now), Visible: true, UpdatedAt: now})
	r.board.Publish(Slot{Name: SlotWeekend, Text: r.format.Days(calendar.WeekendCountdown(now)), Visible: true, UpdatedAt: now})

	for _, target := range r.pack.Targets() {
		r.board.Publish(Slot{
			Name:      TargetSlot(target.Label),
			Text:      r.format.Days(calendar.DaysUntil(target.Date, now)),
			Visible:   true,
			UpdatedAt: now,
		})
	}

	status := r.schedule.Evaluate(now)
	slot := Slot{Name: SlotWorkout, Visible: status.State == workout.Visible, UpdatedAt: now}
	if slot.Visible {
		slot.Text = r.format.Countdown(status.Hours, status.Minutes, status.Seconds)
	}
	r.board.Publish(slot)
}

func (r *Refresher) publishContent(now time.Time) {
	r.board.Publish(Slot{Name: SlotFact, Text: r.sampler.One(r.pack.Facts()), Visible: true, UpdatedAt: now})
	r.board.Publish(Slot{Name: SlotTip, Text: r.sampler.One(r.pack.Tips()), Visible: true, UpdatedAt: now})
	r.board.Publish(Slot{
		Name:      SlotRecommended,
		Items:     r.sampler.Take(r.pack.Recommended(), content.ActivityDraw),
		Visible:   true,
		UpdatedAt: now,
	})
	r.board.Publish(Slot{
		Name:      SlotDiscouraged,
		Items:     r.sampler.Take(r.pack.Discouraged(), content.ActivityDraw),
		Visible:   true,
		UpdatedAt: now,
	})
}

// startFetch requests a joke in the background. Until the first fetch
// lands the slot shows a loading text; afterwards it keeps its previous
// joke until the next one replaces it.
func (r *Refresher) startFetch(ctx context.Context) {
	if _, ok := r.board.Get(SlotJoke); !ok {
		r.board.Publish(Slot{Name: SlotJoke, Text: r.format.Text(locale.KeyLoading), Visible: true, UpdatedAt: r.clock.Now()})
	}

	r.fetches.Add(1)
	go func() {
		defer r.fetches.Done()

		text, err := r.provider.Fetch(ctx)
		if ctx.Err() != nil {
			r.logger.Debug("dropping joke fetch after shutdown")
			return
		}
		if err != nil {
			r.reportFetchError(err)
			text = r.format.JokeFallback()
		}
		r.board.Publish(Slot{Name: SlotJoke, Text: text, Visible: true, UpdatedAt: r.clock.Now()})
	}()
}

func (r *Refresher) reportFetchError(err error) {
	var endpoint string
	var fetchErr *errors.FetchError
	if errors.As(err, &fetchErr) {
		endpoint = fetchErr.Endpoint
	}
	kind := "unknown"
	if k, ok := errors.KindOf(err); ok {
		kind = k.String()
	}

	r.logger.WithSlot(SlotJoke).Warn("joke fetch failed",
		"error", err.Error(),
		"kind", kind,
		"endpoint", endpoint,
		"retryable", errors.IsRetryable(err),
		"severity", errors.GetSeverity(err).String())
	r.board.Bus().Publish(event.NewFetchFailedEvent(endpoint, kind, err))
}
