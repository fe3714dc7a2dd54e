package immunefi

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sw33tLie/genscope/internal/utils"
	"github.com/sw33tLie/genscope/pkg/scope"
	"github.com/sw33tLie/genscope/pkg/shape"
)

const unknownValue = "Unknown"

// A reward tier is a <dl> holding a level block and an amount block. Each
// block carries the value in a <dd> followed by a <dt> caption.
var payoutTierShape = shape.Node{
	Name: "tier",
	Tag:  "dl",
	Children: []shape.Node{
		{Name: "level", Children: []shape.Node{{Name: "level-value", Capture: "level"}, {Name: "level-caption"}}},
		{Name: "amount", Children: []shape.Node{{Name: "amount-value", Capture: "amount"}, {Name: "amount-caption"}}},
	},
}

// tierCursor is the state threaded through a rewards section walk: the
// category set by the last heading and the order of the next tier. The order
// runs across the whole section.
type tierCursor struct {
	category scope.PayoutCategory
	next     int
}

// ExtractPayouts walks a "Rewards by Threat Level" section. Category headings
// (<p><strong>...</strong></p>) apply to the tier tables (<div><dl>...) that follow them.
func ExtractPayouts(section *goquery.Selection) []scope.Payout {
	payouts := []scope.Payout{}
	cur := tierCursor{category: scope.PayoutOther}

	section.Children().Each(func(_ int, child *goquery.Selection) {
		switch goquery.NodeName(child) {
		case "p":
			cur = cur.withHeading(child)
		case "div":
			var tiers []scope.Payout
			tiers, cur = collectTiers(child, cur)
			payouts = append(payouts, tiers...)
		}
	})

	return payouts
}

func (c tierCursor) withHeading(p *goquery.Selection) tierCursor {
	kids := p.Children()
	if kids.Length() != 1 || goquery.NodeName(kids) != "strong" {
		return c
	}
	text := shape.OwnText(kids)
	if text == "" {
		return c
	}
	c.category = scope.ClassifyPayoutCategory(text)
	return c
}

// collectTiers reads one tier table. Divs that do not start with a <dl> wrap
// page metadata and are skipped.
func collectTiers(table *goquery.Selection, cur tierCursor) ([]scope.Payout, tierCursor) {
	if first := table.Children().First(); first.Length() > 0 && goquery.NodeName(first) != "dl" {
		return nil, cur
	}

	var tiers []scope.Payout
	table.ChildrenFiltered("dl").Each(func(i int, dl *goquery.Selection) {
		caps, err := shape.Match(dl, payoutTierShape)
		if err != nil {
			utils.Log.Warnf("Skipping payout tier #%d: %v", i, err)
			return
		}

		tiers = append(tiers, scope.Payout{
			Level:    textOrUnknown(caps.Text("level")),
			Amount:   textOrUnknown(caps.Text("amount")),
			Category: cur.category,
			Order:    cur.next,
		})
		cur.next++
	})

	return tiers, cur
}

func textOrUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return unknownValue
	}
	return s
}
