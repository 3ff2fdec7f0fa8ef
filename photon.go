package photon

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/cooldogedev/photon/capture"
	"github.com/cooldogedev/photon/metrics"
	"github.com/cooldogedev/photon/packet"
	"github.com/cooldogedev/photon/server"
	"github.com/cooldogedev/photon/session"
	tr "github.com/cooldogedev/photon/transport"
	"github.com/cooldogedev/photon/util"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
)

// ErrClosed is returned by Accept once the relay is closed.
var ErrClosed = errors.New("photon: relay closed")

// Relay accepts Photon clients over websockets and relays each of them to a server.
type Relay struct {
	discovery server.Discovery
	transport tr.Transport

	registry  *session.Registry
	processor session.Processor
	uploader  *capture.Uploader

	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	upgrader websocket.Upgrader

	listener   net.Listener
	httpServer *http.Server
	incoming   chan *session.Session
	closed     chan struct{}
	once       sync.Once

	logger *slog.Logger
	opts   util.Opts
}

// NewRelay creates a relay. A nil opts uses util.DefaultOpts, a nil transport the transport named by
// opts.Transport.
func NewRelay(discovery server.Discovery, logger *slog.Logger, opts *util.Opts, transport tr.Transport) (*Relay, error) {
	if opts == nil {
		opts = util.DefaultOpts()
	}

	if transport == nil {
		t, err := tr.New(opts.Transport, logger)
		if err != nil {
			return nil, err
		}
		transport = t
	}
	if ws, ok := transport.(*tr.WebSocket); ok {
		ws.WithSubprotocols(opts.Subprotocols)
	}

	operations, events, err := opts.Filters()
	if err != nil {
		return nil, err
	}
	var processor session.Processor = session.NopProcessor{}
	if len(operations) > 0 || len(events) > 0 {
		processor = session.NewFilter(operations, events, logger)
	}

	subprotocols := opts.Subprotocols
	if len(subprotocols) == 0 {
		subprotocols = tr.DefaultSubprotocols
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return &Relay{
		discovery: discovery,
		transport: transport,

		registry:  session.NewRegistry(),
		processor: processor,

		metrics:  metrics.New(registry),
		gatherer: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024 * 16,
			WriteBufferSize: 1024 * 16,
			Subprotocols:    subprotocols,
			CheckOrigin:     func(*http.Request) bool { return true },
		},

		incoming: make(chan *session.Session, 16),
		closed:   make(chan struct{}),

		logger: logger,
		opts:   *opts,
	}, nil
}

// SetUploader makes the relay upload every capture file once its session is closed.
func (r *Relay) SetUploader(uploader *capture.Uploader) {
	r.uploader = uploader
}

// Handler returns the HTTP surface of the relay.
func (r *Relay) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Get("/ws", r.handleWebSocket)
	router.Get("/sessions", r.handleSessions)
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{}))
	return router
}

// Listen starts serving Handler on opts.Addr.
func (r *Relay) Listen() error {
	listener, err := net.Listen("tcp", r.opts.Addr)
	if err != nil {
		r.logger.Error("failed to listen", "err", err)
		return err
	}

	r.listener = listener
	r.httpServer = &http.Server{Handler: r.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := r.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.logger.Error("failed to serve", "err", err)
		}
	}()
	r.logger.Info("started listening", "addr", listener.Addr())
	return nil
}

// Addr returns the address the relay listens on, or nil before Listen.
func (r *Relay) Addr() net.Addr {
	if r.listener == nil {
		return nil
	}
	return r.listener.Addr()
}

// Accept returns the next client session. The session is logged in in the background.
func (r *Relay) Accept() (*session.Session, error) {
	select {
	case <-r.closed:
		return nil, ErrClosed
	case s := <-r.incoming:
		go func() {
			ctx := context.Background()
			if timeout := r.opts.DialTimeout; timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Millisecond)
				defer cancel()
			}
			if err := s.Login(ctx); err != nil {
				r.logger.Error("failed to login session", "err", err)
			}
		}()
		r.logger.Debug("accepted session", "session", s.ID(), "addr", s.Client().RemoteAddr())
		return s, nil
	}
}

func (r *Relay) handleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Debug("failed to upgrade connection", "addr", req.RemoteAddr, "err", err)
		return
	}

	s := session.NewSession(tr.NewWebSocketConn(conn), r.sessionConfig())
	r.startCapture(s)
	select {
	case r.incoming <- s:
	case <-r.closed:
		s.Close()
	case <-req.Context().Done():
		s.Close()
	}
}

func (r *Relay) sessionConfig() session.Config {
	decodeOptions := []packet.Option{
		packet.WithMaxDepth(r.opts.MaxDepth),
		packet.WithMaxValues(r.opts.MaxValues),
	}
	return session.Config{
		Dialer: server.Dialer{
			Transport: r.transport,
			Timeout:   time.Duration(r.opts.DialTimeout) * time.Millisecond,
			Options:   decodeOptions,
		},
		Discovery:       r.discovery,
		Registry:        r.registry,
		Logger:          r.logger,
		Processor:       r.processor,
		Metrics:         r.metrics,
		Tracer:          otel.Tracer("github.com/cooldogedev/photon"),
		Options:         decodeOptions,
		LatencyInterval: time.Duration(r.opts.LatencyInterval) * time.Millisecond,
	}
}

func (r *Relay) startCapture(s *session.Session) {
	if r.opts.Capture.Dir == "" {
		return
	}

	name := filepath.Join(r.opts.Capture.Dir, s.ID().String()+".phcp")
	w, err := capture.Create(name)
	if err != nil {
		r.logger.Error("failed to create capture", "session", s.ID(), "err", err)
		return
	}

	s.SetRecorder(w)
	go func() {
		<-s.Done()
		if err := w.Close(); err != nil {
			r.logger.Error("failed to close capture", "session", s.ID(), "err", err)
			return
		}

		if r.uploader != nil {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			_, _ = r.uploader.Upload(ctx, name)
		}
	}()
}

type sessionInfo struct {
	ID         string   `json:"id"`
	ClientAddr string   `json:"client_addr"`
	ServerAddr string   `json:"server_addr"`
	LatencyMs  int64    `json:"latency_ms"`
	Operations []string `json:"operations"`
	Events     []string `json:"events"`
}

func (r *Relay) handleSessions(w http.ResponseWriter, _ *http.Request) {
	sessions := r.registry.GetSessions()
	infos := make([]sessionInfo, 0, len(sessions))
	for _, s := range sessions {
		info := sessionInfo{
			ID:         s.ID().String(),
			ClientAddr: s.Client().RemoteAddr(),
			ServerAddr: s.ServerAddr(),
			LatencyMs:  s.Latency().Milliseconds(),
			Operations: []string{},
			Events:     []string{},
		}
		for _, op := range s.Tracker().Operations() {
			info.Operations = append(info.Operations, op.String())
		}
		for _, event := range s.Tracker().Events() {
			info.Events = append(info.Events, event.String())
		}
		infos = append(infos, info)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(infos); err != nil {
		r.logger.Error("failed to write sessions", "err", err)
	}
}

func (r *Relay) Discovery() server.Discovery {
	return r.discovery
}

func (r *Relay) Opts() util.Opts {
	return r.opts
}

func (r *Relay) Registry() *session.Registry {
	return r.registry
}

func (r *Relay) Transport() tr.Transport {
	return r.transport
}

// Metrics ...
func (r *Relay) Metrics() *metrics.Metrics {
	return r.metrics
}

// Close stops accepting clients and closes every session.
func (r *Relay) Close() (err error) {
	r.once.Do(func() {
		close(r.closed)
		if r.httpServer != nil {
			err = r.httpServer.Close()
		}
		for _, s := range r.registry.GetSessions() {
			s.Close()
		}
		for {
			select {
			case s := <-r.incoming:
				s.Close()
			default:
				return
			}
		}
	})
	return
}
