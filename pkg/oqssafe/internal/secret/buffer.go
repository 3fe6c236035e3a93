package secret

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// live counts buffers returned by New that have not been closed yet.
var live atomic.Int64

// Buffer holds sensitive bytes that are zeroed when the buffer is closed.
//
// A Buffer must not be copied after creation. After Close, Bytes returns nil
// and Len returns 0, so a closed buffer handed to a length-checked operation
// is rejected instead of being read.
type Buffer struct {
	mu     sync.Mutex
	data   []byte
	length int
	mapped bool
	locked bool
	closed bool
}

// New allocates a zero-filled secret buffer of the given size. The caller
// must call Close when the secret is no longer needed.
func New(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("secret: buffer size must be positive, got %d", size)
	}

	b, err := allocate(size)
	if err != nil {
		return nil, err
	}
	live.Add(1)
	return b, nil
}

// NewFromBytes moves source into a new secret buffer. The source bytes are
// copied into the protected region and then zeroed in place, so the
// caller's slice no longer holds the secret.
func NewFromBytes(source []byte) (*Buffer, error) {
	if len(source) == 0 {
		return nil, fmt.Errorf("secret: cannot create buffer from empty source")
	}

	b, err := New(len(source))
	if err != nil {
		return nil, err
	}

	copy(b.data, source)
	Zero(source)
	return b, nil
}

// Bytes returns the secret data. The slice aliases the protected region and
// must not be retained beyond the lifetime of the Buffer. It returns nil once
// the buffer is closed.
func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	return b.data[:b.length]
}

// Len returns the size of the secret data, or 0 once closed.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0
	}
	return b.length
}

// Locked reports whether the kernel accepted the mlock request.
func (b *Buffer) Locked() bool {
	if b == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.locked
}

// Close zeros the buffer contents and releases the memory. Close is
// idempotent and safe on a nil Buffer.
func (b *Buffer) Close() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	Zero(b.data)
	err := release(b)

	b.data = nil
	b.length = 0
	live.Add(-1)
	return err
}

// Live returns the number of buffers that have been allocated and not yet
// closed.
func Live() int64 {
	return live.Load()
}

// Zero overwrites buf with zeros. runtime.KeepAlive keeps the stores from
// being eliminated as dead (golang/go#33325).
func Zero(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	runtime.KeepAlive(buf)
}
