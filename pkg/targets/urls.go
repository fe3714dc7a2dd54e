package targets

import (
	"strings"

	"github.com/sw33tLie/genscope/pkg/scope"
	"github.com/sw33tLie/genscope/pkg/storage"
)

// CollectURLs returns web assets that are URLs (http:// or https://).
func CollectURLs(entries []storage.AssetEntry) []string {
	return collect(entries, scope.AssetWeb.String(), func(e storage.AssetEntry) string {
		if isURL(e.TargetNormalized) {
			return e.TargetNormalized
		}
		return ""
	})
}

func isURL(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}
