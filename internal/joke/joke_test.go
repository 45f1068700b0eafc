package joke

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Iron-Ham/moyu/internal/errors"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func serve(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPProvider_Fetch(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        string
	}{
		{"plain utf-8", "text/plain; charset=utf-8", "  有一天小明去上班。\n", "有一天小明去上班。"},
		{"no content type", "", "a joke", "a joke"},
		{"html is text", "text/html", "<b>joke</b>", "<b>joke</b>"},
		{"no charset", "text/plain", "摸鱼", "摸鱼"},
		{"byte order mark", "text/plain; charset=utf-8", "\ufeff摸鱼\n", "摸鱼"},
		{"charset label is case insensitive", "text/plain; charset=UTF-8", "摸鱼", "摸鱼"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("method = %s, want GET", r.Method)
				}
				w.Header()["Content-Type"] = []string{tt.contentType}
				_, _ = w.Write([]byte(tt.body))
			})

			got, err := NewHTTPProvider(Options{Endpoint: srv.URL}).Fetch(context.Background())
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Fetch() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHTTPProvider_FetchTranscodesGBK(t *testing.T) {
	encoded, err := simplifiedchinese.GBK.NewEncoder().String("今天也要快乐摸鱼")
	if err != nil {
		t.Fatal(err)
	}
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=gbk")
		_, _ = w.Write([]byte(encoded))
	})

	got, err := NewHTTPProvider(Options{Endpoint: srv.URL}).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got != "今天也要快乐摸鱼" {
		t.Errorf("Fetch() = %q", got)
	}
}

func TestHTTPProvider_FetchResponseFailures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		cause       error
	}{
		{"server error", http.StatusBadGateway, "text/plain", "oops", errors.ErrUnexpectedStatus},
		{"not found", http.StatusNotFound, "text/plain", "", errors.ErrUnexpectedStatus},
		{"json", http.StatusOK, "application/json", `{"joke":"x"}`, errors.ErrNotText},
		{"malformed content type", http.StatusOK, "text/plain; charset", "x", errors.ErrNotText},
		{"blank body", http.StatusOK, "text/plain", " \n\t ", errors.ErrEmptyBody},
		{"unknown charset", http.StatusOK, "text/plain; charset=x-bogus-9", "\xff\xfeA", errors.ErrUnknownCharset},
		{"only a byte order mark", http.StatusOK, "text/plain; charset=utf-8", "\ufeff \n", errors.ErrEmptyBody},
		{"too large", http.StatusOK, "text/plain", strings.Repeat("哈", 100), errors.ErrBodyTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header()["Content-Type"] = []string{tt.contentType}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			p := NewHTTPProvider(Options{Endpoint: srv.URL, MaxBytes: 64})
			_, err := p.Fetch(context.Background())
			if err == nil {
				t.Fatal("Fetch() should fail")
			}
			if !errors.Is(err, errors.ErrResponseFailure) {
				t.Errorf("error = %v, want ErrResponseFailure", err)
			}
			if errors.Is(err, errors.ErrNetworkFailure) {
				t.Errorf("error = %v, should not be ErrNetworkFailure", err)
			}
			if !errors.Is(err, tt.cause) {
				t.Errorf("error = %v, want cause %v", err, tt.cause)
			}

			var fetchErr *errors.FetchError
			if !errors.As(err, &fetchErr) {
				t.Fatalf("error should be *FetchError, got %T", err)
			}
			if fetchErr.Status != tt.status {
				t.Errorf("Status = %d, want %d", fetchErr.Status, tt.status)
			}
			if fetchErr.Endpoint != srv.URL {
				t.Errorf("Endpoint = %q, want %q", fetchErr.Endpoint, srv.URL)
			}
		})
	}
}

func TestHTTPProvider_FetchBodyAtLimit(t *testing.T) {
	body := strings.Repeat("a", 64)
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(body))
	})

	got, err := NewHTTPProvider(Options{Endpoint: srv.URL, MaxBytes: 64}).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got != body {
		t.Errorf("Fetch() returned %d bytes, want 64", len(got))
	}
}

func TestHTTPProvider_FetchTimeout(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})

	p := NewHTTPProvider(Options{Endpoint: srv.URL, Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := p.Fetch(context.Background())
	if err == nil {
		t.Fatal("Fetch() should time out")
	}
	if !errors.Is(err, errors.ErrNetworkFailure) {
		t.Errorf("error = %v, want ErrNetworkFailure", err)
	}
	if !errors.IsRetryable(err) {
		t.Error("a timeout should be retryable")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Fetch() took %v, want it bounded by the timeout", elapsed)
	}
}

func TestHTTPProvider_FetchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPProvider(Options{Endpoint: url}).Fetch(context.Background())
	if !errors.Is(err, errors.ErrNetworkFailure) {
		t.Errorf("error = %v, want ErrNetworkFailure", err)
	}
}

func TestHTTPProvider_FetchCancelled(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("late"))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPProvider(Options{Endpoint: srv.URL}).Fetch(ctx)
	if !errors.Is(err, errors.ErrNetworkFailure) {
		t.Errorf("error = %v, want ErrNetworkFailure", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want it to wrap context.Canceled", err)
	}
}

func TestNewHTTPProvider_Defaults(t *testing.T) {
	p := NewHTTPProvider(Options{})
	if p.Endpoint() != DefaultEndpoint {
		t.Errorf("Endpoint() = %q, want %q", p.Endpoint(), DefaultEndpoint)
	}
	if p.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", p.timeout, DefaultTimeout)
	}
	if p.maxBytes != DefaultMaxBytes {
		t.Errorf("maxBytes = %d, want %d", p.maxBytes, DefaultMaxBytes)
	}
	if p.client != http.DefaultClient {
		t.Error("client should default to http.DefaultClient")
	}
}

func TestStatic_Fetch(t *testing.T) {
	got, err := Static("获取笑话失败，请稍后再试。").Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got != "获取笑话失败，请稍后再试。" {
		t.Errorf("Fetch() = %q", got)
	}
}
