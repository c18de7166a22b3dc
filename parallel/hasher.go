package parallel

import (
	"crypto/sha256"
	"encoding/binary"
	"sync"
)

// Hasher fingerprints a fixed-length sequence of uint16 values which may be
// written in any order from many goroutines. The digest depends only on the
// values and their positions, never on the write order.
type Hasher struct {
	mut     sync.Mutex
	values  []uint16
	written []bool
}

// NewUint16Hasher creates a hasher for n values.
func NewUint16Hasher(n int) *Hasher {
	if n < 0 {
		n = 0
	}
	return &Hasher{
		values:  make([]uint16, n),
		written: make([]bool, n),
	}
}

// MustPutUint16 stores value at position n. It panics when n is out of range
// or the position was already written.
func (h *Hasher) MustPutUint16(n int, value uint16) {
	h.mut.Lock()
	defer h.mut.Unlock()

	if n < 0 || n >= len(h.values) {
		panic("hasher position out of range")
	}
	if h.written[n] {
		panic("duplicate write")
	}
	h.written[n] = true
	h.values[n] = value
}

// Sum returns the SHA-256 digest of the values in position order. Positions
// never written count as zero.
func (h *Hasher) Sum() (ret [32]byte) {
	h.mut.Lock()
	defer h.mut.Unlock()

	sha := sha256.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(h.values)))
	sha.Write(buf[:])
	for _, v := range h.values {
		binary.LittleEndian.PutUint16(buf[:2], v)
		sha.Write(buf[:2])
	}
	copy(ret[:], sha.Sum(nil))
	return
}
