package immunefi

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sw33tLie/genscope/internal/utils"
	"github.com/sw33tLie/genscope/pkg/scope"
	"github.com/sw33tLie/genscope/pkg/shape"
)

// The asset list sits after the section heading and its intro paragraph.
const assetListPosition = 2

var assetEntryShape = shape.Node{
	Name: "asset",
	Children: []shape.Node{
		{Name: "target", Children: []shape.Node{
			{Name: "target-value", Children: []shape.Node{{Name: "target-text", Capture: "target"}}},
			{Name: "target-caption"},
		}},
		{Name: "type", Children: []shape.Node{{Name: "type-value", Capture: "type"}, {Name: "type-caption"}}},
	},
}

// ExtractAssets reads the entries of an "Assets In Scope" section in document order.
func ExtractAssets(section *goquery.Selection) []scope.Asset {
	assets := []scope.Asset{}

	kids := section.Children()
	if kids.Length() <= assetListPosition {
		return assets
	}

	kids.Eq(assetListPosition).Children().Each(func(i int, entry *goquery.Selection) {
		caps, err := shape.Match(entry, assetEntryShape)
		if err != nil {
			utils.Log.Warnf("Skipping asset #%d: %v", i, err)
			return
		}

		category, name := scope.ClassifyAssetCategory(strings.TrimSpace(caps.Text("type")))
		assets = append(assets, scope.Asset{
			Target:   strings.TrimSpace(caps.Text("target")),
			Category: category,
			Name:     name,
		})
	})

	return assets
}
