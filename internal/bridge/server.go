package bridge

import (
	"context"
	"net/http"

	"github.com/vk/pipecanvas/internal/ctxlog"
	"github.com/vk/pipecanvas/internal/engine"
	"github.com/vk/pipecanvas/internal/metrics"
	"github.com/zishang520/socket.io/v2/socket"
)

// Server serves the bridge over socket.io.
type Server struct {
	bridge  *Bridge
	io      *socket.Server
	metrics *metrics.Metrics
	cancel  func()
}

// NewServer creates a socket.io server bound to d. m may be nil.
func NewServer(ctx context.Context, d *engine.Designer, m *metrics.Metrics) *Server {
	s := &Server{
		bridge:  New(d),
		io:      socket.NewServer(nil, nil),
		metrics: m,
	}
	s.cancel = s.bridge.Broadcast(ctx, EmitterFunc(func(event string, payload any) {
		s.io.Emit(event, payload)
	}))
	s.io.On("connection", func(clients ...any) {
		client, ok := clients[0].(*socket.Socket)
		if !ok {
			return
		}
		s.attach(ctx, client)
	})
	return s
}

// Handler returns the HTTP handler to mount under /socket.io/.
func (s *Server) Handler() http.Handler {
	return s.io.ServeHandler(nil)
}

// Close stops broadcasting and closes every client connection.
func (s *Server) Close() {
	s.cancel()
	s.io.Close(nil)
}

func (s *Server) attach(ctx context.Context, client *socket.Socket) {
	ctx, logger := ctxlog.With(ctx, "sid", client.Id())
	reply := EmitterFunc(func(event string, payload any) {
		client.Emit(event, payload)
	})

	logger.Info("Renderer connected.")
	if s.metrics != nil {
		s.metrics.ClientConnected()
	}

	for _, name := range s.bridge.Events() {
		event := name
		client.On(event, func(args ...any) {
			var payload any
			if len(args) > 0 {
				payload = args[0]
			}
			if err := s.bridge.Handle(ctx, reply, event, payload); err != nil {
				logger.Info("Renderer event failed.", "event", event, "error", err)
			}
		})
	}
	client.On("disconnect", func(reason ...any) {
		logger.Info("Renderer disconnected.", "reason", reason)
		if s.metrics != nil {
			s.metrics.ClientDisconnected()
		}
	})

	s.bridge.Welcome(ctx, reply)
}
