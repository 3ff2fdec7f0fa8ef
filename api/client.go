package api

import (
	"encoding/binary"
	"fmt"
	"net"

	"github.com/cooldogedev/photon/api/packet"
	"github.com/cooldogedev/photon/internal"
	packet2 "github.com/cooldogedev/photon/packet"
	"github.com/cooldogedev/photon/protocol"
	"github.com/google/uuid"
)

type Client struct {
	conn net.Conn
	pool packet.Pool

	writer *protocol.Writer
	reader *protocol.Reader
}

func NewClient(conn net.Conn, pool packet.Pool) *Client {
	return &Client{
		conn: conn,
		pool: pool,

		reader: protocol.NewReader(conn),
		writer: protocol.NewWriter(conn),
	}
}

func (c *Client) ReadPacket() (pk packet.Packet, err error) {
	payload, err := c.reader.ReadPacket()
	if err != nil {
		return nil, err
	}

	buf := internal.AcquireBuffer()
	buf.Write(payload)
	defer func() {
		internal.ReleaseBuffer(buf)

		if r := recover(); r != nil {
			err = fmt.Errorf("panic while decoding packet: %v", r)
		}
	}()

	var packetID uint32
	if err := binary.Read(buf, binary.LittleEndian, &packetID); err != nil {
		return nil, err
	}

	factory, ok := c.pool[packetID]
	if !ok {
		return nil, fmt.Errorf("unknown packet ID: %v", packetID)
	}

	pk = factory()
	pk.Decode(buf)
	return
}

func (c *Client) WritePacket(pk packet.Packet) error {
	buf := internal.AcquireBuffer()
	defer internal.ReleaseBuffer(buf)

	if err := binary.Write(buf, binary.LittleEndian, pk.ID()); err != nil {
		return err
	}

	pk.Encode(buf)
	return c.writer.Write(buf.Bytes())
}

// Kick closes the session with the given ID.
func (c *Client) Kick(id uuid.UUID, reason string) error {
	return c.WritePacket(&packet.Kick{SessionID: id, Reason: reason})
}

// Transfer moves the session with the given ID to the server at addr.
func (c *Client) Transfer(id uuid.UUID, addr string) error {
	return c.WritePacket(&packet.Transfer{SessionID: id, Addr: addr})
}

// Inject writes pk into the session with the given ID, as if it came from direction.
func (c *Client) Inject(id uuid.UUID, direction packet2.Direction, pk *packet2.Packet) error {
	payload, err := pk.Encode()
	if err != nil {
		return err
	}

	d := packet.DirectionClient
	if direction == packet2.FromServer {
		d = packet.DirectionServer
	}
	return c.WritePacket(&packet.Inject{SessionID: id, Direction: d, Payload: payload})
}

// Sessions lists the sessions of the relay.
func (c *Client) Sessions() ([]packet.SessionInfo, error) {
	if err := c.WritePacket(&packet.ListSessions{}); err != nil {
		return nil, err
	}

	pk, err := c.ReadPacket()
	if err != nil {
		return nil, err
	}

	list, ok := pk.(*packet.SessionList)
	if !ok {
		return nil, fmt.Errorf("expected session list, got %d", pk.ID())
	}
	return list.Sessions, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}
