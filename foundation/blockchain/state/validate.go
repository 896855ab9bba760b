package state

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// Validate checks every block after genesis links to its parent and still
// hashes to its recorded hash. The first failure is returned as a
// *database.ValidationError.
func (s *State) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.evHandler("state: Validate: started: blocks[%d]", len(s.blocks))
	defer s.evHandler("state: Validate: completed")

	return database.ValidateChain(s.blocks, s.evHandler)
}
