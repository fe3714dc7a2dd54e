// Package scope holds the records extracted from a bug bounty program page
// and their JSON form.
package scope

import (
	"encoding/json"
	"errors"

	"github.com/tidwall/gjson"
)

var ErrInvalidJSON = errors.New("invalid program JSON")

// Asset is a single in-scope target.
type Asset struct {
	Target   string        `json:"target"`
	Category AssetCategory `json:"type"`
	Name     string        `json:"name"`
}

// Payout is one reward tier. Level and Amount are kept verbatim from the page.
// Order preserves the display order of the tiers.
type Payout struct {
	Amount   string         `json:"payout"`
	Level    string         `json:"level"`
	Category PayoutCategory `json:"type"`
	Order    int            `json:"sort"`
}

type Program struct {
	Payouts []Payout `json:"payouts"`
	Assets  []Asset  `json:"assets"`
}

// NewProgram never leaves nil slices behind so that empty lists serialize as [].
func NewProgram(payouts []Payout, assets []Asset) Program {
	if payouts == nil {
		payouts = []Payout{}
	}
	if assets == nil {
		assets = []Asset{}
	}
	return Program{Payouts: payouts, Assets: assets}
}

// JSON renders the program as a single line of JSON.
func (p Program) JSON() (string, error) {
	b, err := json.Marshal(NewProgram(p.Payouts, p.Assets))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseProgram reads back the output of Program.JSON.
func ParseProgram(data string) (Program, error) {
	if !gjson.Valid(data) || !gjson.Parse(data).IsObject() {
		return Program{}, ErrInvalidJSON
	}

	var payouts []Payout
	gjson.Get(data, "payouts").ForEach(func(_, v gjson.Result) bool {
		payouts = append(payouts, Payout{
			Amount:   v.Get("payout").String(),
			Level:    v.Get("level").String(),
			Category: ParsePayoutCategory(v.Get("type").String()),
			Order:    int(v.Get("sort").Int()),
		})
		return true
	})

	var assets []Asset
	gjson.Get(data, "assets").ForEach(func(_, v gjson.Result) bool {
		assets = append(assets, Asset{
			Target:   v.Get("target").String(),
			Category: ParseAssetCategory(v.Get("type").String()),
			Name:     v.Get("name").String(),
		})
		return true
	})

	return NewProgram(payouts, assets), nil
}
