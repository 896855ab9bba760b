// Package signature defines the signing capability the blockchain consumes
// and provides concrete cryptosystems that implement it.
package signature

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownScheme is returned when a signature scheme is requested by a
// name that isn't registered.
var ErrUnknownScheme = errors.New("unknown signature scheme")

// Set of registered signature schemes.
const (
	SchemeSecp256k1 = "secp256k1"
	SchemeDilithium = "dilithium3"
)

var schemes = map[string]Signer{
	SchemeSecp256k1: Secp256k1{},
	SchemeDilithium: Dilithium{},
}

// =============================================================================

// PublicKey is an opaque, printable handle on a public key. The blockchain
// never looks inside; only the Signer that minted it knows how to decode it.
// The zero value represents an absent key.
type PublicKey string

// IsZero reports whether the key is absent.
func (pk PublicKey) IsZero() bool {
	return pk == ""
}

// Short returns an abbreviated form of the key for logging.
func (pk PublicKey) Short() string {
	if pk.IsZero() {
		return "none"
	}

	const size = 12
	if len(pk) <= size {
		return string(pk)
	}

	return string(pk[:size])
}

// PrivateKey is an opaque handle on a private key.
type PrivateKey interface {
	Public() PublicKey
}

// Signer represents the behavior required to sign and verify payloads with
// an asymmetric key pair.
type Signer interface {

	// Sign produces a signature over the payload with the private key.
	Sign(payload []byte, key PrivateKey) ([]byte, error)

	// Verify reports whether the signature was produced over the payload by
	// the private key matching the public key. Malformed signatures and keys
	// return false.
	Verify(payload []byte, sig []byte, key PublicKey) bool
}

// Retrieve returns the signer registered under the specified scheme name.
func Retrieve(scheme string) (Signer, error) {
	signer, exists := schemes[strings.ToLower(scheme)]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}

	return signer, nil
}
