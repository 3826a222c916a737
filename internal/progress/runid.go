package progress

import (
	"crypto/rand"
	"encoding/binary"
	"time"

	"github.com/mr-tron/base58"
)

// NewRunID mints a short, URL-safe run identifier. The timestamp prefix
// makes ids sort roughly by creation time; the random suffix makes
// collisions across processes implausible.
func NewRunID() string {
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(time.Now().UnixMilli()))

	buf := make([]byte, 12)
	copy(buf, ts[2:]) // low 6 bytes hold millisecond timestamps until year ~10889
	if _, err := rand.Read(buf[6:]); err != nil {
		// crypto/rand failing means the platform is broken; fall back
		// to the timestamp alone rather than aborting a run.
		buf = buf[:6]
	}
	return base58.Encode(buf)
}
