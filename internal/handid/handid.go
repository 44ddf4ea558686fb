// Package handid generates hand identifiers: a UUIDv7 encoded as a
// 26-character Crockford base32 string, so ids sort by creation time.
package handid

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Generator creates ids from a random source.
type Generator struct {
	rand io.Reader
}

// NewGenerator creates a generator reading randomness from r. A nil reader
// uses crypto/rand.
func NewGenerator(r io.Reader) *Generator {
	return &Generator{rand: r}
}

// Generate creates a new id.
func (g *Generator) Generate() (string, error) {
	var (
		id  uuid.UUID
		err error
	)
	if g.rand == nil {
		id, err = uuid.NewV7()
	} else {
		id, err = uuid.NewV7FromReader(g.rand)
	}
	if err != nil {
		return "", fmt.Errorf("generate uuidv7: %w", err)
	}
	return Encode(id), nil
}

// New returns an id from crypto/rand. It panics if the system random source fails.
func New() string {
	return Encode(uuid.Must(uuid.NewV7()))
}

// Encode encodes a UUID as 26 base32 characters, five bits at a time with
// two zero bits of padding at the front.
func Encode(id uuid.UUID) string {
	result := make([]byte, 26)
	for i := range result {
		// Bit offset of this character within the 130-bit padded value.
		bitOffset := i*5 - 2

		var value uint8
		for b := 0; b < 5; b++ {
			pos := bitOffset + b
			value <<= 1
			if pos >= 0 && id[pos/8]&(0x80>>(pos%8)) != 0 {
				value |= 1
			}
		}
		result[i] = alphabet[value]
	}
	return string(result)
}

// Validate checks that id is 26 base32 characters representing at most 128 bits.
func Validate(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("hand ID must be exactly 26 characters, got %d", len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("hand ID first character must be 0-7, got %c", id[0])
	}
	for i, char := range id {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	return nil
}
