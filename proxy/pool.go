package proxy

import "sync"

// DefaultBufferSize is the copy buffer length used when none is configured.
const DefaultBufferSize = 4096

var buffers = sync.Pool{
	New: func() interface{} {
		b := make([]byte, DefaultBufferSize)
		return &b
	},
}

// acquireBuffer returns a buffer of exactly n bytes. Only buffers of the
// default length are pooled.
func acquireBuffer(n int) *[]byte {
	if n != DefaultBufferSize {
		b := make([]byte, n)
		return &b
	}
	return buffers.Get().(*[]byte)
}

func releaseBuffer(b *[]byte) {
	if len(*b) == DefaultBufferSize {
		buffers.Put(b)
	}
}
