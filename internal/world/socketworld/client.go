// Package socketworld mirrors voxel writes to a remote host over socket.io.
package socketworld

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/vk/iwgo/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DialTimeout bounds how long Dial waits for the connect event.
const DialTimeout = 15 * time.Second

// Client is a connected socket.io client.
type Client struct {
	io *socket.Socket
}

// Dial connects to rawURL using the websocket transport. The URL path is
// used as the socket.io path.
func Dial(ctx context.Context, rawURL, namespace string) (*Client, error) {
	logger := ctxlog.FromContext(ctx).With("url", rawURL, "namespace", namespace)

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("URL %q must include scheme and host", rawURL)
	}
	if namespace == "" {
		namespace = "/"
	}

	opts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		opts.SetPath(parsedURL.Path)
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Connected", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err, _ := errs[0].(error)
		if err == nil {
			err = fmt.Errorf("%v", errs[0])
		}
		connectChan <- err
	})

	logger.Debug("Initiating connection...")
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &Client{io: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(DialTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %v waiting for socket.io connection", DialTimeout)
	}
}

// Emit sends one event.
func (c *Client) Emit(event string, payload any) error {
	if !c.io.Connected() {
		return fmt.Errorf("socket.io client %s is not connected", c.io.Id())
	}
	c.io.Emit(event, payload)
	return nil
}

// Close disconnects the client.
func (c *Client) Close() error {
	c.io.Disconnect()
	return nil
}
