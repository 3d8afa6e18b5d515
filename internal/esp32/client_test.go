package esp32

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"search-and-destroy/internal/config"
	"search-and-destroy/internal/domain/device"
)

func testTimeouts() config.RelayConfig {
	return config.RelayConfig{
		PowerOnTimeout:  200 * time.Millisecond,
		PowerOffTimeout: 200 * time.Millisecond,
		WipeTimeout:     400 * time.Millisecond,
		StatusTimeout:   200 * time.Millisecond,
	}
}

func TestSendCommandHitsFirmwareRoutes(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	addr := strings.TrimPrefix(srv.URL, "http://")
	client := NewClient(testTimeouts())

	cases := []struct {
		cmd  device.Command
		path string
	}{
		{device.CommandPowerOn, "/on"},
		{device.CommandPowerOff, "/off"},
		{device.CommandWipe, "/descarga"},
	}

	for _, tc := range cases {
		if err := client.SendCommand(context.Background(), addr, tc.cmd); err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.cmd, err)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	for i, tc := range cases {
		if paths[i] != tc.path {
			t.Errorf("%s: expected path %s, got %s", tc.cmd, tc.path, paths[i])
		}
	}
}

func TestSendCommandRejectsUnknownCommand(t *testing.T) {
	client := NewClient(testTimeouts())
	err := client.SendCommand(context.Background(), "127.0.0.1:1", device.Command("reboot"))
	if !errors.Is(err, device.ErrInvalidCommand) {
		t.Fatalf("expected ErrInvalidCommand, got %v", err)
	}
}

func TestSendCommandNon2xxIsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(testTimeouts())
	err := client.SendCommand(context.Background(), strings.TrimPrefix(srv.URL, "http://"), device.CommandPowerOn)
	if !errors.Is(err, device.ErrDeviceUnreachable) {
		t.Fatalf("expected ErrDeviceUnreachable, got %v", err)
	}
}

func TestSendCommandTimesOutWithinCeiling(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	client := NewClient(testTimeouts())

	start := time.Now()
	err := client.SendCommand(context.Background(), strings.TrimPrefix(srv.URL, "http://"), device.CommandPowerOn)
	elapsed := time.Since(start)

	if !errors.Is(err, device.ErrDeviceUnreachable) {
		t.Fatalf("expected ErrDeviceUnreachable, got %v", err)
	}
	// Ceiling is 200ms; allow a generous scheduling margin.
	if elapsed > 1*time.Second {
		t.Fatalf("timeout took too long: %v", elapsed)
	}
}

func TestSendCommandConnectionRefused(t *testing.T) {
	client := NewClient(testTimeouts())
	// Port 1 is essentially guaranteed to refuse.
	err := client.SendCommand(context.Background(), "127.0.0.1:1", device.CommandPowerOff)
	if !errors.Is(err, device.ErrDeviceUnreachable) {
		t.Fatalf("expected ErrDeviceUnreachable, got %v", err)
	}
}

func TestQueryStatusReturnsRawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/status" {
			t.Errorf("expected /status, got %s", r.URL.Path)
		}
		_, _ = w.Write([]byte("Status: ON"))
	}))
	defer srv.Close()

	client := NewClient(testTimeouts())
	body, err := client.QueryStatus(context.Background(), strings.TrimPrefix(srv.URL, "http://"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != "Status: ON" {
		t.Fatalf("expected raw body, got %q", body)
	}
}
