// Package scan locates candidate provider documents under a root directory.
package scan

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zeebo/xxh3"
)

// Find walks root and returns XML files whose parent directory name
// contains kind (case-insensitive), sorted for deterministic runs.
func Find(root, kind string) ([]string, error) {
	var out []string
	kind = strings.ToLower(kind)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".xml") {
			return nil
		}
		parent := strings.ToLower(filepath.Base(filepath.Dir(path)))
		if strings.Contains(parent, kind) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// Dedup suppresses byte-identical content within one ingestion run, so a
// file copied under several names is parsed once. The registrar's stored
// content hash handles idempotence across runs; this is only a cheap
// in-memory skip.
type Dedup struct {
	seen map[uint64]bool
}

// NewDedup returns an empty duplicate tracker.
func NewDedup() *Dedup {
	return &Dedup{seen: map[uint64]bool{}}
}

// Seen reports whether identical content was already offered this run, and
// records it.
func (d *Dedup) Seen(content []byte) bool {
	h := xxh3.Hash(content)
	if d.seen[h] {
		return true
	}
	d.seen[h] = true
	return false
}
