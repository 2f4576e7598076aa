package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"

	"sniffer/internal/diag"
)

// Digest is a SHA-256 cache key.
type Digest [32]byte

// SniffSetting is the part of a sniff's configuration that changes its output.
type SniffSetting struct {
	Name     string
	Severity diag.Severity
}

// cacheKey: H(schema || len(dump) || dump || name1 || sev1 || ...).
// Settings are sorted by name so the key does not depend on selection order.
func cacheKey(dump []byte, settings []SniffSetting) Digest {
	sorted := append([]SniffSetting(nil), settings...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	h := sha256.New()
	var buf [8]byte
	binary.LittleEndian.PutUint16(buf[:2], diskCacheSchemaVersion)
	_, _ = h.Write(buf[:2])
	binary.LittleEndian.PutUint64(buf[:], uint64(len(dump)))
	_, _ = h.Write(buf[:])
	_, _ = h.Write(dump)
	for _, s := range sorted {
		_, _ = h.Write([]byte(s.Name))
		_, _ = h.Write([]byte{0, byte(s.Severity)})
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
