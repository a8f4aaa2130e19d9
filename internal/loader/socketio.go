package loader

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/tequmsa/ankhaten/internal/ctxlog"
	"github.com/tequmsa/ankhaten/internal/registry"
)

// defaultSocketIOTimeout bounds the connect-emit-receive round trip.
const defaultSocketIOTimeout = 10 * time.Second

// SocketIO materializes components by round-tripping an event against a
// Socket.IO endpoint. Config:
//
//	url:                  endpoint, scheme://host[/path] (required)
//	namespace:            socket namespace, default "/"
//	emit_event:           event emitted after connecting (optional)
//	emit_data:            payload map for emit_event (optional)
//	on_event:             event whose payload becomes the result (required)
//	timeout:              round-trip ceiling, default 10s
//	insecure_skip_verify: skip TLS verification (optional)
type SocketIO struct{}

// NewSocketIO creates the socketio loader.
func NewSocketIO() *SocketIO { return &SocketIO{} }

// Kind implements registry.Loader.
func (l *SocketIO) Kind() string { return "socketio" }

// opResult passes the event payload or failure through the done channel.
type opResult struct {
	data any
	err  error
}

// Build implements registry.Loader.
func (l *SocketIO) Build(ctx context.Context, c registry.Component) (*registry.Result, error) {
	rawURL := confString(c.Config, "url", "")
	if rawURL == "" {
		return nil, fmt.Errorf("component %s: socketio loader requires a 'url' setting", c.UID)
	}
	onEvent := confString(c.Config, "on_event", "")
	if onEvent == "" {
		return nil, fmt.Errorf("component %s: socketio loader requires an 'on_event' setting", c.UID)
	}
	namespace := confString(c.Config, "namespace", "/")
	emitEvent := confString(c.Config, "emit_event", "")
	emitData := confAnyMap(c.Config, "emit_data")

	timeout, err := confDuration(c.Config, "timeout", defaultSocketIOTimeout)
	if err != nil {
		return nil, fmt.Errorf("component %s: %w", c.UID, err)
	}

	logger := ctxlog.FromContext(ctx).With("uid", c.UID, "url", rawURL, "onEvent", onEvent)
	logger.Debug("Socket.IO materialization started")
	defer logger.Debug("Socket.IO materialization finished")

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("component %s: failed to parse url: %w", c.UID, err)
	}

	var isConnected atomic.Bool
	done := make(chan opResult, 1)
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if ok, _ := c.Config["insecure_skip_verify"].(bool); ok {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Debug("Connected", "namespace", namespace, "sid", io.Id())
		if emitEvent != "" {
			io.Emit(emitEvent, emitData)
		}
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				done <- opResult{err: e}
				return
			}
		}
		done <- opResult{err: fmt.Errorf("connect_error")}
	})

	io.On(types.EventName(onEvent), func(data ...any) {
		var payload any
		if len(data) > 0 {
			payload = data[0]
		}
		done <- opResult{data: payload}
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if isConnected.Load() {
			return nil, fmt.Errorf("component %s: timed out after connecting while waiting for event '%s'", c.UID, onEvent)
		}
		return nil, fmt.Errorf("component %s: timed out while waiting for initial connection", c.UID)
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("component %s: socket.io failed: %w", c.UID, res.err)
		}
		return &registry.Result{UID: c.UID, Kind: l.Kind(), Source: rawURL, Data: res.data}, nil
	}
}
