package signature

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Dilithium implements the Signer interface with the post-quantum Dilithium
// mode 3 scheme. Public keys are the 0x hex encoding of the packed key.
type Dilithium struct{}

// Sign uses the specified private key to sign the payload.
func (Dilithium) Sign(payload []byte, key PrivateKey) ([]byte, error) {
	k, ok := key.(*DilithiumKey)
	if !ok {
		return nil, fmt.Errorf("dilithium: unsupported key type %T", key)
	}

	sig := make([]byte, mode3.SignatureSize)
	mode3.SignTo(k.sk, payload, sig)

	return sig, nil
}

// Verify checks the signature was produced over the payload by the owner of
// the public key.
func (Dilithium) Verify(payload []byte, sig []byte, key PublicKey) bool {
	if len(sig) != mode3.SignatureSize {
		return false
	}

	b, err := hexutil.Decode(string(key))
	if err != nil || len(b) != mode3.PublicKeySize {
		return false
	}

	var pk mode3.PublicKey
	if err := pk.UnmarshalBinary(b); err != nil {
		return false
	}

	return mode3.Verify(&pk, payload, sig)
}

// =============================================================================

// DilithiumKey is a private key for the Dilithium signer. The key pair is
// derived from a 32 byte seed, which is what gets stored in a key file.
type DilithiumKey struct {
	seed [mode3.SeedSize]byte
	pk   *mode3.PublicKey
	sk   *mode3.PrivateKey
}

// NewDilithiumKey generates a new random key pair.
func NewDilithiumKey() (*DilithiumKey, error) {
	var seed [mode3.SeedSize]byte
	if _, err := io.ReadFull(rand.Reader, seed[:]); err != nil {
		return nil, err
	}

	return newDilithiumKey(seed), nil
}

// HexToDilithiumKey constructs the key pair from a hex encoded seed.
func HexToDilithiumKey(hexSeed string) (*DilithiumKey, error) {
	b, err := hex.DecodeString(strings.TrimSpace(hexSeed))
	if err != nil {
		return nil, fmt.Errorf("dilithium: invalid seed: %w", err)
	}

	if len(b) != mode3.SeedSize {
		return nil, fmt.Errorf("dilithium: invalid seed length %d", len(b))
	}

	var seed [mode3.SeedSize]byte
	copy(seed[:], b)

	return newDilithiumKey(seed), nil
}

// LoadDilithiumKey reads a private key from the specified file.
func LoadDilithiumKey(path string) (*DilithiumKey, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return HexToDilithiumKey(string(content))
}

// Save writes the seed of the private key to the specified file.
func (k *DilithiumKey) Save(path string) error {
	return os.WriteFile(path, []byte(hex.EncodeToString(k.seed[:])), 0600)
}

// Public returns the handle for the matching public key.
func (k *DilithiumKey) Public() PublicKey {
	return PublicKey(hexutil.Encode(k.pk.Bytes()))
}

func newDilithiumKey(seed [mode3.SeedSize]byte) *DilithiumKey {
	pk, sk := mode3.NewKeyFromSeed(&seed)
	return &DilithiumKey{seed: seed, pk: pk, sk: sk}
}
