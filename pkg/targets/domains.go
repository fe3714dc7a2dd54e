package targets

import (
	"net/url"
	"strings"

	"github.com/sw33tLie/genscope/pkg/scope"
	"github.com/sw33tLie/genscope/pkg/storage"
	"github.com/weppos/publicsuffix-go/publicsuffix"
)

// SharedHosts are platforms that show up as web assets (repositories, block
// explorers) but whose domains do not belong to the program.
var SharedHosts = []string{
	"github.com",
	"gitlab.com",
	"etherscan.io",
	"bscscan.com",
	"polygonscan.com",
	"arbiscan.io",
	"optimistic.etherscan.io",
	"snowtrace.io",
	"ftmscan.com",
}

// CollectDomains returns the hosts of web assets. When aggressive is set, each
// host is reduced to a wildcard on its registrable domain ("*.example.com").
func CollectDomains(entries []storage.AssetEntry, aggressive bool) []string {
	return collect(entries, scope.AssetWeb.String(), func(e storage.AssetEntry) string {
		host := hostOf(e.TargetNormalized)
		if host == "" || isSharedHost(host) {
			return ""
		}
		if !aggressive {
			return host
		}
		root, ok := ExtractRootDomain(host)
		if !ok {
			return host
		}
		return "*." + root
	})
}

// ExtractRootDomain finds the registrable domain of a host or URL.
// e.g., "http://sub.foo.example.co.uk/path" -> "example.co.uk", true
func ExtractRootDomain(target string) (string, bool) {
	host := hostOf(target)
	if host == "" || strings.Contains(host, "*") {
		return "", false
	}

	domain, err := publicsuffix.Domain(host)
	if err != nil {
		return "", false
	}
	return domain, true
}

func hostOf(target string) string {
	target = strings.TrimSpace(target)
	if target == "" {
		return ""
	}
	// Without a scheme url.Parse puts the host in the path.
	if !strings.Contains(target, "://") {
		target = "http://" + target
	}
	u, err := url.Parse(target)
	if err != nil {
		return ""
	}
	host := strings.ToLower(strings.Trim(u.Hostname(), "[]"))
	if !strings.Contains(host, ".") {
		return ""
	}
	return host
}

func isSharedHost(host string) bool {
	for _, s := range SharedHosts {
		if host == s || strings.HasSuffix(host, "."+s) {
			return true
		}
	}
	return false
}
