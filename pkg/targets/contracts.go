package targets

import (
	"regexp"
	"strings"

	"github.com/sw33tLie/genscope/pkg/scope"
	"github.com/sw33tLie/genscope/pkg/storage"
)

// EVM addresses, usually wrapped in a block explorer link.
var addressRegex = regexp.MustCompile(`0x[0-9a-fA-F]{40}`)

// CollectContracts returns the contract addresses referenced by smart contract assets.
func CollectContracts(entries []storage.AssetEntry) []string {
	return collect(entries, scope.AssetSmartContract.String(), func(e storage.AssetEntry) string {
		return strings.ToLower(addressRegex.FindString(e.TargetNormalized))
	})
}
