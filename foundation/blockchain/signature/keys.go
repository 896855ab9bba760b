package signature

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Key file extensions for each registered scheme.
var keyExts = map[string]string{
	SchemeSecp256k1: ".ecdsa",
	SchemeDilithium: ".dilithium",
}

// FileKey is a private key that can be stored in a key file.
type FileKey interface {
	PrivateKey
	Save(path string) error
}

// KeyExt returns the key file extension used by the scheme.
func KeyExt(scheme string) (string, error) {
	ext, exists := keyExts[strings.ToLower(scheme)]
	if !exists {
		return "", fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}

	return ext, nil
}

// GenerateKey creates a new random private key for the scheme.
func GenerateKey(scheme string) (FileKey, error) {
	var key FileKey
	var err error

	switch strings.ToLower(scheme) {
	case SchemeSecp256k1:
		key, err = NewSecp256k1Key()
	case SchemeDilithium:
		key, err = NewDilithiumKey()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}

	if err != nil {
		return nil, err
	}

	return key, nil
}

// LoadKey reads a private key file. The scheme is selected by the file
// extension.
func LoadKey(path string) (FileKey, error) {
	var key FileKey
	var err error

	switch filepath.Ext(path) {
	case keyExts[SchemeSecp256k1]:
		key, err = LoadSecp256k1Key(path)
	case keyExts[SchemeDilithium]:
		key, err = LoadDilithiumKey(path)
	default:
		return nil, fmt.Errorf("%w: key file %q", ErrUnknownScheme, path)
	}

	if err != nil {
		return nil, err
	}

	return key, nil
}
