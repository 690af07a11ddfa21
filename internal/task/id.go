package task

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

const (
	idLength     = 8
	hexChunkSize = 4 // Process 4 hex chars (16 bits) at a time for base36 conversion
)

// StableID derives a deterministic task ID for records that arrive without one.
// The same partition, title and URL always produce the same ID.
func StableID(partition Partition, title, url string) string {
	h := sha256.New()
	h.Write([]byte(partition))
	h.Write([]byte{0})
	h.Write([]byte(title))
	h.Write([]byte{0})
	h.Write([]byte(url))

	base36 := hexToBase36(hex.EncodeToString(h.Sum(nil)))
	return base36[:idLength]
}

// hexToBase36 converts a hex string to base36.
func hexToBase36(hexStr string) string {
	var result strings.Builder
	for i := 0; i < len(hexStr); i += hexChunkSize {
		end := min(i+hexChunkSize, len(hexStr))
		val, _ := strconv.ParseUint(hexStr[i:end], 16, 64)
		result.WriteString(strconv.FormatUint(val, 36))
	}
	return result.String()
}
