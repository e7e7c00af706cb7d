// Package pool holds sync.Pool wrappers for the buffers the render loop and
// the process pumps allocate on every frame or read.
package pool

import (
	"strings"
	"sync"
)

// ReadBufferSize is the size of buffers handed out by GetByteSlice.
const ReadBufferSize = 32 * 1024

var stringBuilderPool = sync.Pool{
	New: func() any {
		return &strings.Builder{}
	},
}

var byteSlicePool = sync.Pool{
	New: func() any {
		buf := make([]byte, ReadBufferSize)
		return &buf
	},
}

// GetStringBuilder returns an empty builder from the pool.
func GetStringBuilder() *strings.Builder {
	return stringBuilderPool.Get().(*strings.Builder)
}

// PutStringBuilder resets sb and returns it to the pool.
func PutStringBuilder(sb *strings.Builder) {
	sb.Reset()
	stringBuilderPool.Put(sb)
}

// GetByteSlice returns a ReadBufferSize byte slice from the pool.
func GetByteSlice() *[]byte {
	return byteSlicePool.Get().(*[]byte)
}

// PutByteSlice returns buf to the pool. Slices of another size are dropped.
func PutByteSlice(buf *[]byte) {
	if buf == nil || len(*buf) != ReadBufferSize {
		return
	}
	byteSlicePool.Put(buf)
}
