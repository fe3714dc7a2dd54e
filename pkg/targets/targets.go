// Package targets derives tool-friendly target lists (URLs, contract
// addresses, domains) from archived assets.
package targets

import (
	"sort"

	"github.com/sw33tLie/genscope/pkg/storage"
)

// extractFunc returns the value derived from an asset, or "" if not applicable.
type extractFunc func(e storage.AssetEntry) string

// collect applies extract to every entry of the given category (all categories
// when category is empty) and returns unique sorted results.
func collect(entries []storage.AssetEntry, category string, extract extractFunc) []string {
	seen := make(map[string]struct{})

	for _, e := range entries {
		if category != "" && e.Category != category {
			continue
		}
		if v := extract(e); v != "" {
			seen[v] = struct{}{}
		}
	}

	results := make([]string, 0, len(seen))
	for t := range seen {
		results = append(results, t)
	}
	sort.Strings(results)
	return results
}
