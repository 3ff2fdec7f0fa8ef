package session

import (
	"slices"
	"sync"

	"github.com/cooldogedev/photon/code"
	"github.com/cooldogedev/photon/packet"
	"github.com/scylladb/go-set/u16set"
	"github.com/scylladb/go-set/u8set"
)

// Tracker records which operations, events, parameters and return codes a session has seen.
type Tracker struct {
	operations  *u8set.Set
	events      *u8set.Set
	parameters  *u8set.Set
	returnCodes *u16set.Set
	mu          sync.Mutex
}

func NewTracker() *Tracker {
	return &Tracker{
		operations:  u8set.New(),
		events:      u8set.New(),
		parameters:  u8set.New(),
		returnCodes: u16set.New(),
	}
}

func (t *Tracker) handlePacket(pk *packet.Packet) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch pk.Kind {
	case packet.KindRequest:
		t.operations.Add(uint8(pk.OpCode))
	case packet.KindResponse:
		t.returnCodes.Add(pk.ReturnCode)
	case packet.KindEvent:
		t.events.Add(uint8(pk.EventCode))
	default:
		return
	}
	for _, section := range pk.Sections {
		t.parameters.Add(uint8(section.Key))
	}
}

// Operations returns the operation codes of every request seen, in ascending order.
func (t *Tracker) Operations() []code.OperationCode {
	return sortedCodes[code.OperationCode](t, t.operations)
}

// Events returns the codes of every event seen, in ascending order.
func (t *Tracker) Events() []code.EventCode {
	return sortedCodes[code.EventCode](t, t.events)
}

// Parameters returns every section key seen, in ascending order.
func (t *Tracker) Parameters() []code.ParameterCode {
	return sortedCodes[code.ParameterCode](t, t.parameters)
}

// ReturnCodes returns the return codes of every response seen, in ascending order.
func (t *Tracker) ReturnCodes() []uint16 {
	t.mu.Lock()
	defer t.mu.Unlock()
	list := t.returnCodes.List()
	slices.Sort(list)
	return list
}

// Clear forgets everything seen so far.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.operations.Clear()
	t.events.Clear()
	t.parameters.Clear()
	t.returnCodes.Clear()
}

func sortedCodes[T ~uint8](t *Tracker, set *u8set.Set) []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	codes := make([]T, 0, set.Size())
	set.Each(func(v uint8) bool {
		codes = append(codes, T(v))
		return true
	})
	slices.Sort(codes)
	return codes
}
