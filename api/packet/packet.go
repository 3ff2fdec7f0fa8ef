package packet

import "bytes"

const (
	IDConnectionRequest uint32 = iota
	IDConnectionResponse
	IDKick
	IDTransfer
	IDInject
	IDListSessions
	IDSessionList
)

// Packet represents a protocol packet that can be sent over an API connection.
// It defines methods for identifying the packet, encoding itself to binary,
// and decoding itself from binary.
type Packet interface {
	// ID returns the unique identifier of the packet.
	ID() uint32
	// Encode will encode the packet into binary form and write it to buf.
	Encode(buf *bytes.Buffer)
	// Decode will decode binary data from buf into the packet.
	Decode(buf *bytes.Buffer)
}

// packets maps packet IDs to their respective factory functions.
var packets = map[uint32]func() Packet{}

// Register registers a packet factory function for a given ID.
func Register(id uint32, factory func() Packet) {
	packets[id] = factory
}

// Pool is a map holding packet factory functions indexed by their ID.
type Pool map[uint32]func() Packet

// NewPool creates a new Pool populated with registered packet factories.
func NewPool() Pool {
	pool := Pool{}
	for id, factory := range packets {
		pool[id] = factory
	}
	return pool
}

func init() {
	Register(IDConnectionRequest, func() Packet { return &ConnectionRequest{} })
	Register(IDConnectionResponse, func() Packet { return &ConnectionResponse{} })
	Register(IDKick, func() Packet { return &Kick{} })
	Register(IDTransfer, func() Packet { return &Transfer{} })
	Register(IDInject, func() Packet { return &Inject{} })
	Register(IDListSessions, func() Packet { return &ListSessions{} })
	Register(IDSessionList, func() Packet { return &SessionList{} })
}
