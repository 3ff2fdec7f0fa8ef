package session

import "github.com/cooldogedev/photon/packet"

// Context is passed to a Processor with every packet it handles.
type Context struct {
	direction packet.Direction
	cancelled bool
	modified  bool
}

// NewContext creates a Context for a packet travelling in direction.
func NewContext(direction packet.Direction) *Context {
	return &Context{direction: direction}
}

// Direction ...
func (c *Context) Direction() packet.Direction {
	return c.direction
}

// Cancel drops the packet instead of relaying it.
func (c *Context) Cancel() {
	c.cancelled = true
}

// Cancelled ...
func (c *Context) Cancelled() bool {
	return c.cancelled
}

// MarkModified makes the session encode the packet again instead of relaying its original bytes.
// Changes made through the packet's own methods are picked up without it.
func (c *Context) MarkModified() {
	c.modified = true
}

// Modified ...
func (c *Context) Modified() bool {
	return c.modified
}
