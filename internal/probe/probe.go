// Package probe is a socket.io client for a running pipecanvas server. It is
// used by the CLI to check that a server is up and to print its state.
package probe

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/vk/pipecanvas/internal/ctxlog"
	"github.com/vk/pipecanvas/internal/graph"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultTimeout bounds connecting and each request.
const DefaultTimeout = 15 * time.Second

// Options configures a connection.
type Options struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	Timeout            time.Duration
}

// Client is a connected probe.
type Client struct {
	io      *socket.Socket
	timeout time.Duration
}

// GraphSummary is the part of the graph event the probe reads.
type GraphSummary struct {
	Status graph.Status `json:"status"`
	Text   string       `json:"text"`
	Nodes  []struct {
		ID       string `json:"id"`
		ModuleID string `json:"module_id"`
		Label    string `json:"label"`
	} `json:"nodes"`
	Edges []graph.Edge `json:"edges"`
}

// Dial connects to the server at opts.URL.
func Dial(ctx context.Context, opts Options) (*Client, error) {
	logger := ctxlog.FromContext(ctx).With("url", opts.URL)
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Namespace == "" {
		opts.Namespace = "/"
	}

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("URL %q needs a scheme and a host", opts.URL)
	}
	path := parsedURL.Path
	if path == "" || path == "/" {
		path = "/socket.io/"
	}

	sopts := socket.DefaultOptions()
	sopts.SetPath(path)
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sopts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sopts.SetTransports(types.NewSet(transports.WebSocket))

	connected := make(chan error, 1)
	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sopts)
	io := manager.Socket(opts.Namespace, sopts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Probe connected.", "sid", io.Id())
		connected <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connected <- err
	})

	io.Connect()

	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &Client{io: io, timeout: opts.Timeout}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(opts.Timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %v waiting for socket.io connection", opts.Timeout)
	}
}

// Close disconnects.
func (c *Client) Close() {
	c.io.Disconnect()
}

// Send emits one event without waiting for a reply.
func (c *Client) Send(event string, payload any) {
	if payload == nil {
		c.io.Emit(event)
		return
	}
	c.io.Emit(event, payload)
}

// Request emits one event and waits for the first reply event named on.
func (c *Client) Request(ctx context.Context, emit string, payload any, on string) (any, error) {
	done := make(chan any, 1)
	c.io.Once(types.EventName(on), func(data ...any) {
		var v any
		if len(data) > 0 {
			v = data[0]
		}
		done <- v
	})

	c.Send(emit, payload)

	opCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	select {
	case v := <-done:
		return v, nil
	case <-opCtx.Done():
		return nil, fmt.Errorf("timed out after %v waiting for event '%s'", c.timeout, on)
	}
}

// Graph fetches the server's current graph.
func (c *Client) Graph(ctx context.Context) (*GraphSummary, error) {
	v, err := c.Request(ctx, "graph:get", nil, "graph")
	if err != nil {
		return nil, err
	}
	return DecodeGraph(v)
}

// DecodeGraph converts a decoded graph event payload.
func DecodeGraph(v any) (*GraphSummary, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode graph payload: %w", err)
	}
	var g GraphSummary
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("malformed graph payload: %w", err)
	}
	return &g, nil
}
