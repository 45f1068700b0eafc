package tui

import (
	"bytes"
	"context"
	"io"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/Iron-Ham/moyu/internal/config"
	"github.com/Iron-Ham/moyu/internal/event"
	"github.com/Iron-Ham/moyu/internal/testutil"
	"github.com/Iron-Ham/moyu/internal/tui/msg"
	"github.com/Iron-Ham/moyu/internal/tui/styles"
	"github.com/spf13/viper"
)

func TestThemesMatchConfig(t *testing.T) {
	if !slices.Equal(config.ValidThemes(), styles.BuiltinThemes()) {
		t.Errorf("config.ValidThemes() = %v, styles.BuiltinThemes() = %v", config.ValidThemes(), styles.BuiltinThemes())
	}
}

func watchedViper(t *testing.T, yaml string) *viper.Viper {
	t.Helper()
	path := testutil.WriteFile(t, "config.yaml", yaml)

	v := viper.New()
	config.SetDefaultsOn(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig() error = %v", err)
	}
	return v
}

func TestApp_ReloadConfig(t *testing.T) {
	board, r := newTestRefresher(t)

	var mu sync.Mutex
	var reloaded []string
	board.Bus().Subscribe(event.TypeConfigReloaded, func(e event.Event) {
		mu.Lock()
		defer mu.Unlock()
		reloaded = append(reloaded, e.(event.ConfigReloadedEvent).Path)
	})

	v := watchedViper(t, "tui:\n  theme: dracula\n  show_help: false\n")
	app := New(Options{Board: board, Refresher: r, Watch: v})

	got := app.reloadConfig("config.yaml")
	want := msg.ConfigReloadedMsg{Theme: "dracula", ShowHelp: false}
	if got != want {
		t.Errorf("reloadConfig() = %#v, want %#v", got, want)
	}

	mu.Lock()
	defer mu.Unlock()
	if !slices.Equal(reloaded, []string{"config.yaml"}) {
		t.Errorf("ConfigReloadedEvent paths = %v, want [config.yaml]", reloaded)
	}
}

func TestApp_ReloadConfigInvalid(t *testing.T) {
	board, r := newTestRefresher(t)

	v := watchedViper(t, "tui:\n  theme: neon\n")
	app := New(Options{Board: board, Refresher: r, Watch: v})

	got := app.reloadConfig("config.yaml")
	errMsg, ok := got.(msg.ErrMsg)
	if !ok {
		t.Fatalf("reloadConfig() = %#v, want msg.ErrMsg", got)
	}
	if errMsg.Err == nil {
		t.Error("ErrMsg.Err should describe the invalid theme")
	}
}

func TestApp_RunQuitsOnKey(t *testing.T) {
	t.Cleanup(func() { styles.SetActiveTheme(styles.ThemeDefault) })
	board, r := newTestRefresher(t)

	in, keys := io.Pipe()
	var out bytes.Buffer
	app := New(Options{
		Board:     board,
		Refresher: r,
		Interval:  10 * time.Millisecond,
		Theme:     "nord",
		Input:     in,
		Output:    &out,
	})

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	go func() {
		time.Sleep(50 * time.Millisecond)
		_, _ = keys.Write([]byte("q"))
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after 'q'")
	}
	_ = keys.Close()

	if styles.ActiveTheme() != styles.ThemeNord {
		t.Errorf("ActiveTheme() = %q, want nord", styles.ActiveTheme())
	}
	if _, ok := board.Get("date"); !ok {
		t.Error("Run() should have refreshed the board")
	}
}

func TestApp_RunStopsOnContextCancel(t *testing.T) {
	board, r := newTestRefresher(t)

	in, keys := io.Pipe()
	defer keys.Close()
	app := New(Options{
		Board:     board,
		Refresher: r,
		Interval:  10 * time.Millisecond,
		Input:     in,
		Output:    io.Discard,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v, want nil after cancellation", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancellation")
	}
}
