package immunefi

import (
	"reflect"
	"strings"
	"testing"

	"github.com/sw33tLie/genscope/pkg/scope"
)

func assetEntry(target, label string) string {
	return "<div><div><dd><a>" + target + "</a></dd><dt>Target</dt></div><div><dd>" + label + "</dd><dt>Type</dt></div></div>"
}

func TestExtractAssets(t *testing.T) {
	section := sectionFrom(t, `<h3>Assets In Scope</h3><p>intro</p><div>`+
		assetEntry("0xabc", "Smart Contract - Token Vault")+
		assetEntry("https://app.example.com", "Web")+
		assetEntry("https://docs.example.com", "Websites and Applications - Docs")+
		assetEntry("node.example.com", "Blockchain/DLT")+
		`</div>`)

	got := ExtractAssets(section)
	want := []scope.Asset{
		{Target: "0xabc", Category: scope.AssetSmartContract, Name: "token vault"},
		{Target: "https://app.example.com", Category: scope.AssetWeb, Name: "web"},
		{Target: "https://docs.example.com", Category: scope.AssetWeb, Name: "docs"},
		{Target: "node.example.com", Category: scope.AssetOther, Name: "generic"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected assets.\nwant: %#v\ngot:  %#v", want, got)
	}
}

func TestExtractAssetsNeedsThreeChildren(t *testing.T) {
	tests := []string{
		``,
		`<h3>Assets In Scope</h3>`,
		`<h3>Assets In Scope</h3><div>` + assetEntry("0xabc", "Smart Contract - Vault") + `</div>`,
	}
	for _, inner := range tests {
		got := ExtractAssets(sectionFrom(t, inner))
		if got == nil || len(got) != 0 {
			t.Fatalf("expected no assets for %q, got %#v", inner, got)
		}
	}
}

func TestExtractAssetsSkipsMalformedEntries(t *testing.T) {
	logs := captureLog(t)
	section := sectionFrom(t, `<h3>Assets In Scope</h3><p>intro</p><div>`+
		`<div><div><dd><a>https://example.com</a></dd><dt>Target</dt></div></div>`+
		`<div><div><dd><a>a</a><a>b</a></dd><dt>Target</dt></div><div><dd>Web</dd><dt>Type</dt></div></div>`+
		assetEntry("https://ok.example.com", "Web - Portal")+
		`</div>`)

	got := ExtractAssets(section)
	if len(got) != 1 || got[0].Target != "https://ok.example.com" || got[0].Name != "portal" {
		t.Fatalf("expected only the well formed asset, got %#v", got)
	}
	if strings.Count(logs.String(), "Skipping asset") != 2 {
		t.Fatalf("expected two diagnostics, got %q", logs.String())
	}
}

func TestExtractAssetsEmptyTarget(t *testing.T) {
	section := sectionFrom(t, `<h3>Assets In Scope</h3><p>intro</p><div>`+assetEntry("", "Web")+`</div>`)

	got := ExtractAssets(section)
	if len(got) != 1 || got[0].Target != "" {
		t.Fatalf("expected one asset with an empty target, got %#v", got)
	}
}
