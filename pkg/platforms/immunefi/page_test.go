package immunefi

import (
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/sw33tLie/genscope/pkg/scope"
)

func loadFixture(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile("testdata/program.html")
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	return string(b)
}

func TestParsePageFixture(t *testing.T) {
	captureLog(t)

	got, err := ParsePage(strings.NewReader(loadFixture(t)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantPayouts := []scope.Payout{
		{Level: "Critical", Amount: "USD 100 000 to USD 1 000 000", Category: scope.PayoutBlockchain, Order: 0},
		{Level: "High", Amount: "USD 25 000", Category: scope.PayoutBlockchain, Order: 1},
		{Level: "Critical", Amount: "USD 10 000", Category: scope.PayoutWeb, Order: 2},
		{Level: "High", Amount: "Unknown", Category: scope.PayoutWeb, Order: 3},
	}
	if !reflect.DeepEqual(got.Payouts, wantPayouts) {
		t.Fatalf("unexpected payouts.\nwant: %#v\ngot:  %#v", wantPayouts, got.Payouts)
	}

	wantAssets := []scope.Asset{
		{Target: "https://etherscan.io/address/0x1f98431c8ad98523631ae4a59f267346ea31f984", Category: scope.AssetSmartContract, Name: "token vault"},
		{Target: "https://app.example.com", Category: scope.AssetWeb, Name: "web"},
		{Target: "https://github.com/example/protocol", Category: scope.AssetOther, Name: "generic"},
	}
	if !reflect.DeepEqual(got.Assets, wantAssets) {
		t.Fatalf("unexpected assets.\nwant: %#v\ngot:  %#v", wantAssets, got.Assets)
	}
}

func TestParsePageWithoutSections(t *testing.T) {
	got, err := ParsePage(strings.NewReader("<html><body><p>Not found</p></body></html>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := got.JSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data != `{"payouts":[],"assets":[]}` {
		t.Fatalf("expected empty lists, got %s", data)
	}
}

func TestParsePageFirstSectionWins(t *testing.T) {
	wrap := func(sections string) string {
		return "<html><body><div><div><main><section><article><div>" + sections + "</div></article></section></main></div></div></body></html>"
	}
	page := wrap(
		`<section><h3>Rewards by Threat Level</h3><div>` + tier("Critical", "USD 1") + `</div></section>` +
			`<section><h3>Rewards by Threat Level</h3><div>` + tier("Low", "USD 2") + tier("High", "USD 3") + `</div></section>`)

	got, err := ParsePage(strings.NewReader(page))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Payouts) != 1 || got.Payouts[0].Amount != "USD 1" {
		t.Fatalf("expected the first matching section to be used, got %#v", got.Payouts)
	}
}

func TestParsePageIgnoresSectionsOffPath(t *testing.T) {
	page := "<html><body><section><h3>Rewards by Threat Level</h3><div>" + tier("Critical", "USD 1") + "</div></section></body></html>"

	got, err := ParsePage(strings.NewReader(page))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Payouts) != 0 {
		t.Fatalf("expected sections outside the article body to be ignored, got %#v", got.Payouts)
	}
}
