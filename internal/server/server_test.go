package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"
)

func TestNormalizeAddr(t *testing.T) {
	cases := map[string]string{
		"":               "",
		"8080":           ":8080",
		":9090":          ":9090",
		" 7070 ":         ":7070",
		"127.0.0.1:8080": "127.0.0.1:8080",
	}
	for in, want := range cases {
		if got := normalizeAddr(in); got != want {
			t.Errorf("normalizeAddr(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewHTTPServer_Timeouts(t *testing.T) {
	srv := newHTTPServer(":0", http.NotFoundHandler(), 0)
	if srv.WriteTimeout != defaultWriteTimeout || srv.ReadHeaderTimeout != readHeaderTimeout {
		t.Fatalf("unexpected timeouts: write=%s readHeader=%s", srv.WriteTimeout, srv.ReadHeaderTimeout)
	}
	srv = newHTTPServer(":0", http.NotFoundHandler(), 45*time.Second)
	if srv.WriteTimeout != 45*time.Second {
		t.Fatalf("override ignored: %s", srv.WriteTimeout)
	}
}

func TestServer_ServeAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	s := &Server{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "pong")
	})

	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ln, handler) }()

	url := "http://" + ln.Addr().String() + "/"
	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get(url)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if string(body) != "pong" {
		t.Fatalf("body = %q", body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Serve returned %v after graceful shutdown", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Serve did not return")
	}
}

func TestServer_ShutdownBeforeRun(t *testing.T) {
	if err := (&Server{}).Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown on idle server: %v", err)
	}
}
