package signature

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// stampPrefix is mixed into every signed payload. This will make it clear
// that the signature comes from the ledger and can't be replayed as an
// Ethereum or Bitcoin message.
const stampPrefix = "\x19Ledger Signed Message:\n32"

// Secp256k1 implements the Signer interface with ECDSA over the secp256k1
// curve. Public keys are the 0x hex encoding of the compressed point.
type Secp256k1 struct{}

// Sign uses the specified private key to sign the payload. The signature is
// returned in the 65 byte [R|S|V] format.
func (Secp256k1) Sign(payload []byte, key PrivateKey) ([]byte, error) {
	k, ok := key.(*Secp256k1Key)
	if !ok {
		return nil, fmt.Errorf("secp256k1: unsupported key type %T", key)
	}

	// Sign the stamped hash with the private key to produce a signature.
	data := stamp(payload)
	sig, err := crypto.Sign(data, k.pk)
	if err != nil {
		return nil, fmt.Errorf("secp256k1: sign: %w", err)
	}

	return sig, nil
}

// Verify checks the signature was produced over the payload by the owner of
// the public key.
func (Secp256k1) Verify(payload []byte, sig []byte, key PublicKey) bool {
	if len(sig) != crypto.SignatureLength {
		return false
	}

	pub, err := hexutil.Decode(string(key))
	if err != nil {
		return false
	}

	// The recovery id isn't needed since we have the public key.
	rs := sig[:crypto.RecoveryIDOffset]

	return crypto.VerifySignature(pub, stamp(payload), rs)
}

// stamp returns a hash of 32 bytes that represents the payload with the
// ledger stamp embedded into the final hash.
func stamp(payload []byte) []byte {

	// Hash the payload into a 32 byte array. This will provide a data
	// length consistency with all payloads.
	h := crypto.Keccak256(payload)

	// Hash the stamp and payload hash together in a final 32 byte array
	// that represents the payload.
	return crypto.Keccak256([]byte(stampPrefix), h)
}

// =============================================================================

// Secp256k1Key is a private key for the Secp256k1 signer.
type Secp256k1Key struct {
	pk *ecdsa.PrivateKey
}

// NewSecp256k1Key generates a new random private key.
func NewSecp256k1Key() (*Secp256k1Key, error) {
	pk, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}

	return &Secp256k1Key{pk: pk}, nil
}

// HexToSecp256k1Key parses a hex encoded private key.
func HexToSecp256k1Key(hexKey string) (*Secp256k1Key, error) {
	pk, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, err
	}

	return &Secp256k1Key{pk: pk}, nil
}

// LoadSecp256k1Key reads a private key from the specified file.
func LoadSecp256k1Key(path string) (*Secp256k1Key, error) {
	pk, err := crypto.LoadECDSA(path)
	if err != nil {
		return nil, err
	}

	return &Secp256k1Key{pk: pk}, nil
}

// Save writes the private key to the specified file.
func (k *Secp256k1Key) Save(path string) error {
	return crypto.SaveECDSA(path, k.pk)
}

// Public returns the handle for the matching public key.
func (k *Secp256k1Key) Public() PublicKey {
	return PublicKey(hexutil.Encode(crypto.CompressPubkey(&k.pk.PublicKey)))
}

// Address returns the Ethereum style address for the key. This is only
// used for display purposes.
func (k *Secp256k1Key) Address() string {
	return crypto.PubkeyToAddress(k.pk.PublicKey).String()
}
