package fetcher_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"newsfeed-hub/internal/infra/fetcher"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Testartikel</title></head>
<body>
	<nav><a href="/">Start</a></nav>
	<article>
		<h1>Die Überschrift des Artikels</h1>
		<p>Dies ist der erste Absatz des Artikels mit einigen Informationen über das Thema.</p>
		<p>Der zweite Absatz enthält weitere wichtige Informationen und Hintergründe.</p>
		<p>Im dritten Absatz gibt es genug Text, damit die Extraktion zuverlässig funktioniert.</p>
	</article>
</body>
</html>`

func localConfig() fetcher.Config {
	cfg := fetcher.DefaultConfig()
	cfg.DenyPrivateIPs = false // httptest listens on loopback
	return cfg
}

func TestFetchContent_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "NewsfeedHubBot/1.0" {
			t.Errorf("User-Agent = %q", got)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer server.Close()

	content, err := fetcher.NewReadabilityFetcher(localConfig()).FetchContent(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchContent() error = %v", err)
	}
	if !strings.Contains(content, "erste Absatz") {
		t.Errorf("content missing first paragraph: %q", content)
	}
	if !strings.Contains(content, "<p>") {
		t.Errorf("content should be HTML, got %q", content)
	}
}

func TestFetchContent_InvalidURL(t *testing.T) {
	f := fetcher.NewReadabilityFetcher(fetcher.DefaultConfig())

	tests := []string{
		"ftp://example.com/file",
		"file:///etc/passwd",
		"javascript:alert(1)",
		"http://",
		"://broken",
	}
	for _, u := range tests {
		t.Run(u, func(t *testing.T) {
			_, err := f.FetchContent(context.Background(), u)
			if !errors.Is(err, fetcher.ErrInvalidURL) {
				t.Errorf("FetchContent(%q) error = %v, want ErrInvalidURL", u, err)
			}
		})
	}
}

func TestFetchContent_PrivateIP(t *testing.T) {
	f := fetcher.NewReadabilityFetcher(fetcher.DefaultConfig())

	for _, u := range []string{
		"http://127.0.0.1/",
		"http://10.0.0.1/",
		"http://192.168.1.10/",
		"http://172.16.0.5/",
		"http://169.254.169.254/latest/meta-data",
		"http://[::1]/",
	} {
		t.Run(u, func(t *testing.T) {
			_, err := f.FetchContent(context.Background(), u)
			if !errors.Is(err, fetcher.ErrPrivateIP) {
				t.Errorf("FetchContent(%q) error = %v, want ErrPrivateIP", u, err)
			}
		})
	}
}

func TestFetchContent_HTTPError(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusForbidden, http.StatusBadGateway} {
		t.Run(fmt.Sprint(status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))
			defer server.Close()

			_, err := fetcher.NewReadabilityFetcher(localConfig()).FetchContent(context.Background(), server.URL)
			if err == nil || !strings.Contains(err.Error(), fmt.Sprintf("HTTP %d", status)) {
				t.Errorf("error = %v, want HTTP %d", err, status)
			}
		})
	}
}

func TestFetchContent_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	cfg := localConfig()
	cfg.Timeout = 50 * time.Millisecond

	_, err := fetcher.NewReadabilityFetcher(cfg).FetchContent(context.Background(), server.URL)
	if !errors.Is(err, fetcher.ErrTimeout) {
		t.Errorf("error = %v, want ErrTimeout", err)
	}
}

func TestFetchContent_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fetcher.NewReadabilityFetcher(localConfig()).FetchContent(ctx, server.URL)
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if errors.Is(err, fetcher.ErrTimeout) {
		t.Errorf("cancellation must not be reported as timeout: %v", err)
	}
}

func TestFetchContent_BodyTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>" + strings.Repeat("a", 4096) + "</p></body></html>"))
	}))
	defer server.Close()

	cfg := localConfig()
	cfg.MaxBodySize = 1024

	_, err := fetcher.NewReadabilityFetcher(cfg).FetchContent(context.Background(), server.URL)
	if !errors.Is(err, fetcher.ErrBodyTooLarge) {
		t.Errorf("error = %v, want ErrBodyTooLarge", err)
	}
}

func TestFetchContent_TooManyRedirects(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, server.URL+r.URL.Path+"x", http.StatusFound)
	}))
	defer server.Close()

	cfg := localConfig()
	cfg.MaxRedirects = 2

	_, err := fetcher.NewReadabilityFetcher(cfg).FetchContent(context.Background(), server.URL+"/")
	if !errors.Is(err, fetcher.ErrTooManyRedirects) {
		t.Errorf("error = %v, want ErrTooManyRedirects", err)
	}
}

func TestFetchContent_SuccessfulRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/alt", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/neu", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/neu", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(articleHTML))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	content, err := fetcher.NewReadabilityFetcher(localConfig()).FetchContent(context.Background(), server.URL+"/alt")
	if err != nil {
		t.Fatalf("FetchContent() error = %v", err)
	}
	if !strings.Contains(content, "dritten Absatz") {
		t.Errorf("content from redirect target missing: %q", content)
	}
}

func TestFetchContent_CircuitBreakerOpens(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	f := fetcher.NewReadabilityFetcher(localConfig())
	for i := 0; i < 20; i++ {
		_, _ = f.FetchContent(context.Background(), server.URL)
	}

	// 回路が開いた後はリクエストが送られない
	if n := calls.Load(); n >= 20 {
		t.Errorf("server saw %d requests, circuit breaker never opened", n)
	}
}
