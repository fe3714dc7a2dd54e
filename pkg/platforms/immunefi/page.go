package immunefi

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"github.com/sw33tLie/genscope/internal/utils"
	"github.com/sw33tLie/genscope/pkg/scope"
	"github.com/sw33tLie/genscope/pkg/shape"
)

const (
	// Program pages render every block of the bounty description as a
	// sibling section under the article body.
	sectionsSelector = "body > div > div > main > section > article > div > section"

	sectionHeadingTag = "h3"
	payoutsMarker     = "Rewards by Threat Level"
	assetsMarker      = "Assets In Scope"
)

// ParsePage extracts a program from a full program page. Sections that cannot
// be found yield empty lists.
func ParsePage(r io.Reader) (scope.Program, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return scope.Program{}, fmt.Errorf("failed to parse program page: %w", err)
	}

	payoutSection, assetSection := locateSections(doc.Selection)

	var payouts []scope.Payout
	if payoutSection != nil {
		payouts = ExtractPayouts(payoutSection)
	} else {
		utils.Log.Debugf("No %q section found", payoutsMarker)
	}

	var assets []scope.Asset
	if assetSection != nil {
		assets = ExtractAssets(assetSection)
	} else {
		utils.Log.Debugf("No %q section found", assetsMarker)
	}

	return scope.NewProgram(payouts, assets), nil
}

// locateSections returns the first section carrying each marker heading.
func locateSections(doc *goquery.Selection) (payouts, assets *goquery.Selection) {
	doc.Find(sectionsSelector).Each(func(i int, section *goquery.Selection) {
		if shape.HasChildWithText(section, sectionHeadingTag, payoutsMarker) {
			if payouts == nil {
				payouts = section
			} else {
				utils.Log.Debugf("Ignoring duplicate %q section #%d", payoutsMarker, i)
			}
		}
		if shape.HasChildWithText(section, sectionHeadingTag, assetsMarker) {
			if assets == nil {
				assets = section
			} else {
				utils.Log.Debugf("Ignoring duplicate %q section #%d", assetsMarker, i)
			}
		}
	})
	return payouts, assets
}
