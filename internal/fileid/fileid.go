// Package fileid derives stable identifiers for embeddings sources.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strconv"
	"time"
)

const prefix = "src:"

// SourceID returns an ID for the given source. The same path with the same size and
// modification time always yields the same ID; rewriting the file yields a new one.
func SourceID(path string, size int64, modTime time.Time) string {
	h := sha256.New()
	h.Write([]byte(filepath.Clean(path)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(size, 10)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(modTime.UnixNano(), 10)))
	return prefix + hex.EncodeToString(h.Sum(nil))[:32]
}
