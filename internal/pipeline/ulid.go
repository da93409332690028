package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Job IDs are ULIDs: 26-character Crockford Base32 strings with a
// millisecond timestamp prefix, so IDs sort by creation time.

var (
	ulidMu  sync.Mutex
	lastTS  uint64
	lastSeq uint16
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

func generateULID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	ts := uint64(time.Now().UnixMilli())
	if ts == lastTS {
		lastSeq++
	} else {
		lastTS = ts
		lastSeq = 0
	}

	var b [16]byte
	// 48-bit big-endian timestamp, then 80 bits of randomness with the
	// sequence counter in the first two random bytes for uniqueness
	// within the same millisecond.
	b[0] = byte(ts >> 40)
	b[1] = byte(ts >> 32)
	b[2] = byte(ts >> 24)
	b[3] = byte(ts >> 16)
	b[4] = byte(ts >> 8)
	b[5] = byte(ts)
	rand.Read(b[6:])
	binary.BigEndian.PutUint16(b[6:8], lastSeq)

	return encodeBase32(b)
}

// encodeBase32 encodes 128 bits as 26 Crockford Base32 characters. The
// first character carries only the top 3 bits so the total is 26*5=130
// bits with two leading zero bits of padding.
func encodeBase32(b [16]byte) string {
	var out [26]byte
	for i := range out {
		// Most significant 5-bit group first.
		hi := 130 - (i+1)*5
		out[i] = crockford[take5(b, hi)]
	}
	return string(out[:])
}

// take5 extracts the 5 bits starting at bit offset lo (counting from
// the least significant end of the 130-bit padded value).
func take5(b [16]byte, lo int) int {
	v := 0
	for i := 0; i < 5; i++ {
		bit := lo + (4 - i)
		v <<= 1
		if bit < 128 {
			byteIdx := 15 - bit/8
			if b[byteIdx]>>(uint(bit%8))&1 == 1 {
				v |= 1
			}
		}
	}
	return v
}
