// Package testutil provides testing utilities for moyu tests.
package testutil

import (
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Iron-Ham/moyu/internal/content"
)

// Clock is a settable clock for tests. It is safe for concurrent use.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a Clock stopped at now.
func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

// Now returns the clock's current instant.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to now.
func (c *Clock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Response is one scripted reply of a Provider.
type Response struct {
	Text string
	Err  error
}

// Provider is a scripted joke provider. Each Fetch returns the next
// scripted response; the last one repeats. When gated, Fetch blocks until
// Release is called or the context is cancelled.
type Provider struct {
	mu        sync.Mutex
	responses []Response
	calls     int
	gate      chan struct{}
}

// NewProvider returns a Provider replying with responses in order.
func NewProvider(responses ...Response) *Provider {
	if len(responses) == 0 {
		responses = []Response{{Text: "stub joke"}}
	}
	return &Provider{responses: responses}
}

// Gated makes every Fetch wait for Release.
func (p *Provider) Gated() *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gate = make(chan struct{})
	return p
}

// Release unblocks every waiting and future Fetch.
func (p *Provider) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gate != nil {
		close(p.gate)
		p.gate = nil
	}
}

// Fetch returns the next scripted response.
func (p *Provider) Fetch(ctx context.Context) (string, error) {
	p.mu.Lock()
	i := min(p.calls, len(p.responses)-1)
	p.calls++
	resp := p.responses[i]
	gate := p.gate
	p.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return resp.Text, resp.Err
}

// Calls returns how many times Fetch was called.
func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// Sampler returns a deterministic sampler.
func Sampler() *content.Sampler {
	return content.NewSampler(rand.New(rand.NewPCG(1, 2)))
}

// WriteFile writes data to name inside a fresh temporary directory and
// returns the full path.
func WriteFile(t *testing.T, name, data string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
