// Package sqid encodes mint counters as short opaque identifiers.
package sqid

import (
	"encoding/binary"
	"fmt"

	"github.com/eknkc/basex"
)

// The alphabet is base62 in a fixed shuffled order, so consecutive
// counters do not produce visibly sequential ids. Changing it would
// orphan every id already on disk.
const alphabet = "4VTQSLfh89UJXynktDd0E2KqWzeYAuZ5cpaxMjsmg3Nw7CblFi1rG6IOPRvBHo"

// Codec is the id encoder: a bijection between uint64 counters and
// short alphanumeric ids.
type Codec struct {
	enc *basex.Encoding
}

// New returns the id codec.
func New() *Codec {
	enc, err := basex.NewEncoding(alphabet)
	if err != nil {
		// The alphabet is a compile-time constant; NewEncoding only
		// fails on duplicate characters.
		panic(err)
	}
	return &Codec{enc: enc}
}

// Encode maps a counter to its id. Counters start at 1.
func (c *Codec) Encode(counter uint64) (string, error) {
	if counter == 0 {
		return "", fmt.Errorf("counter must be positive")
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], counter)
	i := 0
	for i < 7 && buf[i] == 0 {
		i++
	}
	return c.enc.Encode(buf[i:]), nil
}

// Decode maps an id back to its counter. It reports false for strings
// this codec did not produce.
func (c *Codec) Decode(id string) (uint64, bool) {
	raw, err := c.enc.Decode(id)
	if err != nil || len(raw) == 0 || len(raw) > 8 {
		return 0, false
	}
	var buf [8]byte
	copy(buf[8-len(raw):], raw)
	counter := binary.BigEndian.Uint64(buf[:])
	if counter == 0 {
		return 0, false
	}
	// Reject non-canonical encodings (leading zero bytes).
	reencoded, err := c.Encode(counter)
	if err != nil || reencoded != id {
		return 0, false
	}
	return counter, true
}
