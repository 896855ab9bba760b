// Package database holds the blocks and transactions that make up the
// blockchain along with support for serializing them.
package database

// Serializer interface represents the behavior required to be implemented by any
// package providing support for storing and reading the blockchain.
type Serializer interface {
	Write(blockData BlockData) error
	GetBlock(num uint64) (BlockData, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the blocks.
type Iterator interface {
	Next() (BlockData, error)
	Done() bool
}

// =============================================================================

// BlockData represents what can be serialized to disk.
type BlockData struct {
	Hash   string      `json:"hash"`
	Header BlockHeader `json:"block"`
	Trans  []SignedTx  `json:"trans"`
}

// NewBlockData constructs the value to serialize.
func NewBlockData(block Block) BlockData {
	blockData := BlockData{
		Hash:   block.Hash,
		Header: block.Header,
		Trans:  block.Clone().Trans,
	}

	return blockData
}

// ToBlock converts a BlockData into a Block. The stored hash is kept as is
// and not recomputed so tampering with a serialized block is detectable.
func ToBlock(blockData BlockData) Block {
	block := Block{
		Header: blockData.Header,
		Trans:  blockData.Trans,
		Hash:   blockData.Hash,
	}

	return block
}

// ReadAll reads every block the serializer holds, in order.
func ReadAll(serializer Serializer) ([]Block, error) {
	var blocks []Block

	iter := serializer.ForEach()
	for blockData, err := iter.Next(); !iter.Done(); blockData, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		blocks = append(blocks, ToBlock(blockData))
	}

	return blocks, nil
}
