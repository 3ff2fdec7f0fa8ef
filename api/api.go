package api

import (
	"errors"
	"io"
	"log/slog"
	"net"

	"github.com/cooldogedev/photon/api/packet"
	packet2 "github.com/cooldogedev/photon/packet"
	"github.com/cooldogedev/photon/session"
)

// ErrUnverifiedPacket is returned when an injected payload does not encode back to the same bytes.
var ErrUnverifiedPacket = errors.New("api: injected packet does not verify")

type API struct {
	authentication Authentication
	sessions       *session.Registry
	listener       net.Listener
	logger         *slog.Logger
}

func NewAPI(sessions *session.Registry, logger *slog.Logger, authentication Authentication) *API {
	return &API{
		authentication: authentication,
		sessions:       sessions,
		logger:         logger,
	}
}

func (a *API) Listen(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	a.listener = listener
	a.logger.Info("started listening", "addr", listener.Addr())
	return nil
}

// Addr returns the address the API listens on.
func (a *API) Addr() net.Addr {
	return a.listener.Addr()
}

func (a *API) Accept() error {
	conn, err := a.listener.Accept()
	if err != nil {
		return err
	}

	if conn, ok := conn.(*net.TCPConn); ok {
		_ = conn.SetLinger(0)
		_ = conn.SetNoDelay(true)
	}

	go a.handle(conn)
	a.logger.Info("accepted connection", "addr", conn.RemoteAddr().String())
	return nil
}

func (a *API) Close() error {
	if a.listener == nil {
		return nil
	}
	return a.listener.Close()
}

func (a *API) handle(conn net.Conn) {
	c := NewClient(conn, packet.NewPool())
	defer func() {
		_ = c.Close()
		a.logger.Info("closed connection", "addr", conn.RemoteAddr().String())
	}()

	connectionRequestPacket, err := c.ReadPacket()
	if err != nil {
		_ = c.WritePacket(&packet.ConnectionResponse{Response: packet.ResponseFail})
		a.logger.Error("failed to read connection request", "err", err)
		return
	}

	connectionRequest, ok := connectionRequestPacket.(*packet.ConnectionRequest)
	if !ok {
		_ = c.WritePacket(&packet.ConnectionResponse{Response: packet.ResponseFail})
		a.logger.Error("expected connection request", "id", connectionRequestPacket.ID())
		return
	}

	if connectionRequest.Version != packet.Version {
		_ = c.WritePacket(&packet.ConnectionResponse{Response: packet.ResponseUnsupportedVersion})
		a.logger.Debug("closed connection with unsupported version", "addr", conn.RemoteAddr().String(), "version", connectionRequest.Version)
		return
	}

	if a.authentication != nil && !a.authentication.Authenticate(connectionRequest.Token) {
		_ = c.WritePacket(&packet.ConnectionResponse{Response: packet.ResponseUnauthorized})
		a.logger.Debug("closed unauthenticated connection", "addr", conn.RemoteAddr().String())
		return
	}

	_ = c.WritePacket(&packet.ConnectionResponse{Response: packet.ResponseSuccess})
	a.logger.Info("authorized connection", "addr", conn.RemoteAddr().String())
	for {
		pk, err := c.ReadPacket()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				a.logger.Error("failed to read packet", "err", err)
			}
			return
		}

		switch pk := pk.(type) {
		case *packet.Kick:
			s := a.sessions.GetSession(pk.SessionID)
			if s == nil {
				a.logger.Debug("tried to kick an unknown session", "session", pk.SessionID)
				continue
			}
			s.Disconnect(pk.Reason)
		case *packet.Transfer:
			s := a.sessions.GetSession(pk.SessionID)
			if s == nil {
				a.logger.Debug("tried to transfer an unknown session", "session", pk.SessionID)
				continue
			}

			if err := s.Transfer(pk.Addr); err != nil {
				a.logger.Error("failed to transfer session", "session", pk.SessionID, "addr", pk.Addr, "err", err)
			}
		case *packet.Inject:
			s := a.sessions.GetSession(pk.SessionID)
			if s == nil {
				a.logger.Debug("tried to inject into an unknown session", "session", pk.SessionID)
				continue
			}

			if err := inject(s, pk); err != nil {
				a.logger.Error("failed to inject packet", "session", pk.SessionID, "err", err)
			}
		case *packet.ListSessions:
			if err := c.WritePacket(a.sessionList()); err != nil {
				a.logger.Error("failed to write session list", "err", err)
				return
			}
		default:
			a.logger.Debug("received unexpected packet", "id", pk.ID())
		}
	}
}

func (a *API) sessionList() *packet.SessionList {
	sessions := a.sessions.GetSessions()
	list := &packet.SessionList{Sessions: make([]packet.SessionInfo, 0, len(sessions))}
	for _, s := range sessions {
		list.Sessions = append(list.Sessions, packet.SessionInfo{
			ID:         s.ID(),
			ClientAddr: s.Client().RemoteAddr(),
			ServerAddr: s.ServerAddr(),
			Latency:    s.Latency().Milliseconds(),
		})
	}
	return list
}

// inject decodes the payload of pk and writes it to the side it is addressed to. Payloads that do not
// encode back to the same bytes are rejected.
func inject(s *session.Session, pk *packet.Inject) error {
	p, err := packet2.Decode(pk.Payload)
	if err != nil {
		return err
	}

	if !p.Verify() {
		return ErrUnverifiedPacket
	}

	if pk.Direction == packet.DirectionServer {
		return s.SendClient(p)
	}
	return s.SendServer(p)
}
