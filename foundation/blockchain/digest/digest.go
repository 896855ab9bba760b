// Package digest provides the canonical encoding and hashing used to
// fingerprint blocks and transactions.
package digest

import (
	"bytes"
	"crypto/sha256"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

// Version identifies the canonical encoding layout. Any change to the field
// order or framing of an entity must bump this value since it changes every
// hash produced on the chain.
const Version = "powledger/v1"

// Size is the number of hex characters in a digest.
const Size = 2 * sha256.Size

// =============================================================================

// Encoder builds the canonical byte form of an entity. Every field is framed
// as a netstring, <decimal length>:<bytes>, so that adjacent values can't
// bleed into each other ("1"+"23" never encodes like "12"+"3").
type Encoder struct {
	buf bytes.Buffer
}

// NewEncoder starts a canonical encoding for the named kind of entity.
func NewEncoder(kind string) *Encoder {
	var e Encoder
	e.String(Version)
	e.String(kind)

	return &e
}

// String appends a string field.
func (e *Encoder) String(s string) *Encoder {
	return e.Raw([]byte(s))
}

// Uint appends an unsigned integer field in base 10.
func (e *Encoder) Uint(v uint64) *Encoder {
	return e.String(strconv.FormatUint(v, 10))
}

// Int appends a signed integer field in base 10.
func (e *Encoder) Int(v int64) *Encoder {
	return e.String(strconv.FormatInt(v, 10))
}

// Raw appends a field holding the specified bytes. This is used to nest the
// encoding of one entity inside another.
func (e *Encoder) Raw(b []byte) *Encoder {
	e.buf.WriteString(strconv.Itoa(len(b)))
	e.buf.WriteByte(':')
	e.buf.Write(b)
	e.buf.WriteByte(',')

	return e
}

// Clone returns an independent copy of the encoder. Mining uses this to
// encode the fields preceding the nonce once and reuse them per attempt.
// Clone only reads the receiver so it's safe to call from many goroutines.
func (e *Encoder) Clone() *Encoder {
	var c Encoder
	c.buf.Write(e.buf.Bytes())

	return &c
}

// Bytes returns the encoding built so far.
func (e *Encoder) Bytes() []byte {
	return bytes.Clone(e.buf.Bytes())
}

// =============================================================================

// Hash returns the sha256 digest of the data as lowercase hex without a
// 0x prefix, so the leading characters can be checked for the POW puzzle.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return common.Bytes2Hex(sum[:])
}

// IsSolved checks the hash to make sure it complies with the POW rules. We
// need to match a difficulty number of leading 0's.
func IsSolved(hash string, difficulty uint) bool {
	if len(hash) != Size || difficulty > Size {
		return false
	}

	for i := range difficulty {
		if hash[i] != '0' {
			return false
		}
	}

	return true
}
