package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/kbforge/core"
)

// Key prefixes for different data types
const (
	chunkPrefix   = "chkrec"
	chunkIDPrefix = "chkid"
	metricsPrefix = "qmrec"
)

// makeChunkKey generates a composite key for a chunk.
// Format: prefix:documentID:seq, with the numeric parts in BigEndian so
// lexicographic iteration yields sequence order within a document.
func makeChunkKey(documentID core.ID, seq int) []byte {
	prefix := chunkPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for documentID + 8 bytes for seq
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(documentID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(seq))
	return buf
}

// makePartialChunkKey generates a partial key covering every chunk of one
// document. Format: prefix:documentID
func makePartialChunkKey(documentID core.ID) []byte {
	prefix := chunkPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for documentID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(documentID))
	return buf
}

// makeChunkIDKey generates the secondary-index key for lookup by chunk ID.
func makeChunkIDKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", chunkIDPrefix, id))
}

// makeMetricsKey generates a key for quality metrics by (product, version).
func makeMetricsKey(productID, version string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", metricsPrefix, productID, version))
}
