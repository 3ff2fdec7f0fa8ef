package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cooldogedev/photon/metrics"
	"github.com/cooldogedev/photon/packet"
	"github.com/cooldogedev/photon/server"
	"github.com/cooldogedev/photon/transport"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const maxPendingPings = 64

var (
	ErrAlreadyTransferring = errors.New("session: already transferring")
	ErrAlreadyConnected    = errors.New("session: already connected to this server")
	ErrNotConnected        = errors.New("session: not connected to a server")
)

// Recorder receives every buffer a session reads, before it is processed.
type Recorder interface {
	Record(direction packet.Direction, payload []byte) error
}

// Config holds the collaborators of a Session. Discovery, Registry and Dialer.Transport are required.
type Config struct {
	Dialer    server.Dialer
	Discovery server.Discovery
	Registry  *Registry
	Logger    *slog.Logger

	Processor Processor
	Recorder  Recorder
	Metrics   *metrics.Metrics
	Tracer    trace.Tracer
	// Options are applied when decoding buffers received from the client.
	Options []packet.Option
	// LatencyInterval is the interval at which the session pings the server. Zero disables the
	// pings, leaving the latency to be measured from the client's own pings.
	LatencyInterval time.Duration
}

type ping struct {
	sent  time.Time
	relay bool
}

type Session struct {
	id         uuid.UUID
	clientConn transport.Conn

	serverAddr string
	serverConn *server.Conn
	serverMu   sync.RWMutex

	dialer    server.Dialer
	discovery server.Discovery
	logger    *slog.Logger
	registry  *Registry
	opts      []packet.Option

	processor Processor
	recorder  Recorder
	mu        sync.RWMutex

	tracker         *Tracker
	metrics         *metrics.Metrics
	tracer          trace.Tracer
	latencyInterval time.Duration

	start   time.Time
	pings   map[uint32]ping
	pingMu  sync.Mutex
	latency atomic.Int64

	ch           chan struct{}
	closed       atomic.Bool
	once         sync.Once
	transferring atomic.Bool
}

func NewSession(clientConn transport.Conn, config Config) *Session {
	id := uuid.New()
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("session", id.String(), "client", clientConn.RemoteAddr())

	processor := config.Processor
	if processor == nil {
		processor = NopProcessor{}
	}

	tracer := config.Tracer
	if tracer == nil {
		tracer = otel.Tracer("github.com/cooldogedev/photon/session")
	}

	dialer := config.Dialer
	if dialer.Logger == nil {
		dialer.Logger = logger
	}
	return &Session{
		id:         id,
		clientConn: clientConn,

		dialer:    dialer,
		discovery: config.Discovery,
		logger:    logger,
		registry:  config.Registry,
		opts:      append([]packet.Option{packet.WithLogger(logger)}, config.Options...),

		processor: processor,
		recorder:  config.Recorder,

		tracker:         NewTracker(),
		metrics:         config.Metrics,
		tracer:          tracer,
		latencyInterval: config.LatencyInterval,

		start: time.Now(),
		pings: make(map[uint32]ping),
		ch:    make(chan struct{}),
	}
}

// Login discovers the server for the client, connects to it and starts relaying. The session is closed
// if Login fails.
func (s *Session) Login(ctx context.Context) error {
	serverAddr, err := s.discovery.Discover(s.clientConn.RemoteAddr())
	if err != nil {
		s.Close()
		s.logger.Debug("failed to discover a server", "err", err)
		return err
	}

	serverConn, err := s.dialer.Dial(ctx, serverAddr)
	if err != nil {
		s.Close()
		s.logger.Error("failed to dial server", "addr", serverAddr, "err", err)
		return err
	}

	s.serverMu.Lock()
	s.serverAddr = serverAddr
	s.serverConn = serverConn
	s.serverMu.Unlock()

	s.registry.AddSession(s.id, s)
	s.metrics.SessionOpened()
	if s.closed.Load() {
		_ = serverConn.Close()
		s.unregister()
		return server.ErrClosed
	}

	go handleIncoming(s)
	go handleOutgoing(s)
	if s.latencyInterval > 0 {
		go handleLatency(s, s.latencyInterval)
	}
	s.logger.Info("started session", "server", serverAddr)
	return nil
}

// Transfer moves the session to the server at addr. The client connection is kept.
func (s *Session) Transfer(addr string) (err error) {
	if !s.transferring.CompareAndSwap(false, true) {
		return ErrAlreadyTransferring
	}

	defer func() {
		s.transferring.Store(false)
		s.metrics.Transferred(err)
	}()

	s.serverMu.Lock()
	defer s.serverMu.Unlock()

	if s.serverAddr == addr {
		return ErrAlreadyConnected
	}

	conn, err := s.dialer.Dial(context.Background(), addr)
	if err != nil {
		s.logger.Error("failed to dial server", "addr", addr, "err", err)
		return err
	}

	if s.serverConn != nil {
		_ = s.serverConn.Close()
	}
	s.pingMu.Lock()
	clear(s.pings)
	s.pingMu.Unlock()

	s.logger.Debug("transferred session", "from", s.serverAddr, "to", addr)
	s.serverAddr = addr
	s.serverConn = conn
	return nil
}

// SendClient writes pk to the client.
func (s *Session) SendClient(pk *packet.Packet) error {
	b, err := pk.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", pk.Kind, err)
	}
	return s.clientConn.WritePacket(b)
}

// SendServer writes pk to the server.
func (s *Session) SendServer(pk *packet.Packet) error {
	conn := s.Server()
	if conn == nil {
		return ErrNotConnected
	}
	return conn.WritePacket(pk)
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) Processor() Processor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.processor
}

func (s *Session) SetProcessor(processor Processor) {
	if processor == nil {
		processor = NopProcessor{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processor = processor
}

func (s *Session) SetRecorder(recorder Recorder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorder = recorder
}

func (s *Session) Tracker() *Tracker {
	return s.tracker
}

// Latency returns the last round trip time measured between the relay and the server.
func (s *Session) Latency() time.Duration {
	return time.Duration(s.latency.Load())
}

func (s *Session) Client() transport.Conn {
	return s.clientConn
}

func (s *Session) Server() *server.Conn {
	s.serverMu.RLock()
	defer s.serverMu.RUnlock()
	return s.serverConn
}

// ServerAddr ...
func (s *Session) ServerAddr() string {
	s.serverMu.RLock()
	defer s.serverMu.RUnlock()
	return s.serverAddr
}

// Done is closed once the session is closed.
func (s *Session) Done() <-chan struct{} {
	return s.ch
}

// Disconnect closes the session, logging reason.
func (s *Session) Disconnect(reason string) {
	s.logger.Info("disconnecting session", "reason", reason)
	s.Close()
}

func (s *Session) Close() {
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)

		_ = s.clientConn.Close()
		if conn := s.Server(); conn != nil {
			_ = conn.Close()
		}

		s.unregister()
		s.logger.Info("closed session")
	})
}

func (s *Session) unregister() {
	if s.registry.remove(s) {
		s.metrics.SessionClosed()
	}
}
