// Package esp32 talks to the physical units. The firmware exposes plain
// HTTP GET routes (/on, /off, /descarga, /status) and answers with
// free-text bodies.
package esp32

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"search-and-destroy/internal/config"
	"search-and-destroy/internal/domain/device"
)

const maxStatusBody = 4 << 10

type Client struct {
	httpClient *http.Client
	timeouts   config.RelayConfig
}

func NewClient(cfg config.RelayConfig) *Client {
	return &Client{
		// Per-request deadlines come from the command ceilings; the
		// client itself carries no timeout so the longest one is not
		// capped by the shortest.
		httpClient: &http.Client{},
		timeouts:   cfg,
	}
}

// route maps a command to the firmware's GET route.
func route(cmd device.Command) (string, error) {
	switch cmd {
	case device.CommandPowerOn:
		return "on", nil
	case device.CommandPowerOff:
		return "off", nil
	case device.CommandWipe:
		return "descarga", nil
	default:
		return "", device.ErrInvalidCommand
	}
}

func (c *Client) timeoutFor(cmd device.Command) time.Duration {
	switch cmd {
	case device.CommandWipe:
		return c.timeouts.WipeTimeout
	case device.CommandPowerOff:
		return c.timeouts.PowerOffTimeout
	default:
		return c.timeouts.PowerOnTimeout
	}
}

// SendCommand issues a single outbound request to the unit. One attempt,
// no retries; a timeout, connection error or non-2xx answer is terminal.
func (c *Client) SendCommand(ctx context.Context, address string, cmd device.Command) error {
	r, err := route(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeoutFor(cmd))
	defer cancel()

	url := fmt.Sprintf("http://%s/%s", address, r)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build device request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", device.ErrDeviceUnreachable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: device answered %d", device.ErrDeviceUnreachable, resp.StatusCode)
	}

	return nil
}

// QueryStatus fetches the unit's raw /status body as a string.
func (c *Client) QueryStatus(ctx context.Context, address string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.StatusTimeout)
	defer cancel()

	url := fmt.Sprintf("http://%s/status", address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build device request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", device.ErrDeviceUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: device answered %d", device.ErrDeviceUnreachable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxStatusBody))
	if err != nil {
		return "", fmt.Errorf("%w: %v", device.ErrDeviceUnreachable, err)
	}

	return string(body), nil
}
