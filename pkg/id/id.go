// Package id generates time-sortable trade identifiers.
package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu   sync.Mutex
	mono io.Reader
)

func init() {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	// Monotonic keeps IDs minted in the same millisecond ordered.
	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a ULID for the current instant.
func New() string {
	s, err := NewAt(time.Now())
	if err != nil {
		// entropy failure
		panic(err)
	}
	return s
}

// InRange reports whether t can be encoded in a ULID timestamp: from the
// Unix epoch to the year 10889.
func InRange(t time.Time) bool {
	ms := t.UnixMilli()
	return ms >= 0 && uint64(ms) <= ulid.MaxTime()
}

// NewAt returns a ULID whose timestamp is t. Journal entries back-filled
// from a broker statement use their fill time so IDs sort with open time.
func NewAt(t time.Time) (string, error) {
	if !InRange(t) {
		return "", fmt.Errorf("id: time %s outside ULID range", t.UTC().Format(time.RFC3339))
	}

	mu.Lock()
	defer mu.Unlock()

	v, err := ulid.New(ulid.Timestamp(t.UTC()), mono)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// Time extracts the timestamp embedded in a ULID string.
func Time(s string) (time.Time, error) {
	v, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(v.Time()).UTC(), nil
}
