package store

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Catalog discovers sealed bands the way the original dataset service's
// DatasetService.available_bands did: glob meta_*.json rather than
// keep a separate band registry file on disk.
type Catalog struct {
	Dir string
}

func NewCatalog(dir string) *Catalog { return &Catalog{Dir: dir} }

// BandIDs returns the sealed band indices found under Dir, ascending.
func (c *Catalog) BandIDs() ([]int, error) {
	matches, err := filepath.Glob(filepath.Join(c.Dir, "meta_band*.json"))
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(matches))
	for _, m := range matches {
		base := filepath.Base(m)
		trimmed := strings.TrimSuffix(strings.TrimPrefix(base, "meta_band"), ".json")
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			continue
		}
		ids = append(ids, n)
	}
	sort.Ints(ids)
	return ids, nil
}

// Bands returns every sealed band's manifest, keyed by band id.
func (c *Catalog) Bands() (map[int]Manifest, error) {
	ids, err := c.BandIDs()
	if err != nil {
		return nil, err
	}
	l := &Layout{Dir: c.Dir}
	out := make(map[int]Manifest, len(ids))
	for _, id := range ids {
		m, err := ReadManifest(l.MetaPath(id))
		if err != nil {
			return nil, fmt.Errorf("catalog: band %d: %w", id, err)
		}
		out[id] = m
	}
	return out, nil
}
