// Package nameservice reads the accounts folder and creates a name
// service lookup for the ledger accounts. Key files of every registered
// signature scheme are loaded.
package nameservice

import (
	"fmt"
	"io/fs"
	"maps"
	"path"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// NameService maintains a map of accounts for name lookup.
type NameService struct {
	accounts map[signature.PublicKey]string
	keys     map[string]signature.FileKey
}

// New constructs a Name Service with accounts from the specified folder.
func New(root string) (*NameService, error) {
	ns := NameService{
		accounts: make(map[signature.PublicKey]string),
		keys:     make(map[string]signature.FileKey),
	}

	fn := func(fileName string, info fs.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		ext := path.Ext(fileName)
		if info.IsDir() || !isKeyExt(ext) {
			return nil
		}

		key, err := signature.LoadKey(fileName)
		if err != nil {
			return err
		}

		name := strings.TrimSuffix(path.Base(fileName), ext)
		ns.accounts[key.Public()] = name
		ns.keys[name] = key

		return nil
	}

	if err := filepath.Walk(root, fn); err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ns, nil
}

// Lookup returns the name for the specified account.
func (ns *NameService) Lookup(account signature.PublicKey) string {
	name, exists := ns.accounts[account]
	if !exists {
		return string(account)
	}
	return name
}

// Key returns the private key loaded for the named account.
func (ns *NameService) Key(name string) (signature.FileKey, error) {
	key, exists := ns.keys[name]
	if !exists {
		return nil, fmt.Errorf("account %q not found", name)
	}
	return key, nil
}

// Copy returns a copy of the map of names and accounts.
func (ns *NameService) Copy() map[signature.PublicKey]string {
	return maps.Clone(ns.accounts)
}

// isKeyExt reports whether the extension belongs to a key file of any
// registered scheme.
func isKeyExt(ext string) bool {
	for _, scheme := range []string{signature.SchemeSecp256k1, signature.SchemeDilithium} {
		if keyExt, _ := signature.KeyExt(scheme); ext == keyExt {
			return true
		}
	}

	return false
}
