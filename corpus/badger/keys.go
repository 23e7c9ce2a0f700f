package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/scholar/core"
)

// Key prefixes for different data types
const (
	chunkPrefix       = "chkrec"
	chunkSourcePrefix = "chkrecs"
)

// makeChunkKey generates a key for a chunk by ID.
func makeChunkKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", chunkPrefix, id))
}

// makeChunkSourceKey generates a composite key for the source index.
// Format: prefix:source:id
func makeChunkSourceKey(source string, id core.ID) []byte {
	prefix := chunkSourcePrefix + ":" + source + ":"
	prefixBytes := []byte(prefix)
	totalSize := len(prefixBytes) + 8
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialChunkSourceKey generates a partial key for source queries.
// Format: prefix:source:
func makePartialChunkSourceKey(source string) []byte {
	return []byte(chunkSourcePrefix + ":" + source + ":")
}
