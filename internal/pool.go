package internal

import (
	"bytes"
	"sync"
)

// maxPooledBuffer is the capacity above which buffers are dropped instead of being pooled.
const maxPooledBuffer = 1024 * 64

var bufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, 256))
	},
}

// AcquireBuffer returns an empty buffer from the pool.
func AcquireBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

// ReleaseBuffer resets buf and returns it to the pool.
func ReleaseBuffer(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledBuffer {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}
