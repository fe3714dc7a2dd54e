package scope

import "strings"

// AssetCategory is the kind of target an asset entry describes.
type AssetCategory int

const (
	AssetOther AssetCategory = iota
	AssetSmartContract
	AssetWeb
	AssetDApp
)

var assetCategoryNames = map[AssetCategory]string{
	AssetOther:         "OTHER",
	AssetSmartContract: "SMART_CONTRACT",
	AssetWeb:           "WEB",
	AssetDApp:          "DAPP",
}

func (c AssetCategory) String() string {
	if name, ok := assetCategoryNames[c]; ok {
		return name
	}
	return assetCategoryNames[AssetOther]
}

func (c AssetCategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *AssetCategory) UnmarshalText(text []byte) error {
	*c = ParseAssetCategory(string(text))
	return nil
}

// ParseAssetCategory maps a serialized tag back to its category. Unknown tags are OTHER.
func ParseAssetCategory(s string) AssetCategory {
	for c, name := range assetCategoryNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return c
		}
	}
	return AssetOther
}

// PayoutCategory is the broad family a reward table belongs to.
type PayoutCategory int

const (
	PayoutOther PayoutCategory = iota
	PayoutBlockchain
	PayoutWeb
)

var payoutCategoryNames = map[PayoutCategory]string{
	PayoutOther:      "OTHER",
	PayoutBlockchain: "BLOCKCHAIN",
	PayoutWeb:        "WEB",
}

func (c PayoutCategory) String() string {
	if name, ok := payoutCategoryNames[c]; ok {
		return name
	}
	return payoutCategoryNames[PayoutOther]
}

func (c PayoutCategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *PayoutCategory) UnmarshalText(text []byte) error {
	*c = ParsePayoutCategory(string(text))
	return nil
}

// ParsePayoutCategory maps a serialized tag back to its category. Unknown tags are OTHER.
func ParsePayoutCategory(s string) PayoutCategory {
	for c, name := range payoutCategoryNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return c
		}
	}
	return PayoutOther
}

// Headings Immunefi uses above each reward table.
var (
	blockchainPayoutTitles = []string{"Smart Contracts and Blockchain"}
	webPayoutTitles        = []string{"Web and Apps"}
)

// ClassifyPayoutCategory maps a reward table heading to its category.
func ClassifyPayoutCategory(heading string) PayoutCategory {
	heading = strings.TrimSpace(heading)
	for _, t := range blockchainPayoutTitles {
		if strings.EqualFold(heading, t) {
			return PayoutBlockchain
		}
	}
	for _, t := range webPayoutTitles {
		if strings.EqualFold(heading, t) {
			return PayoutWeb
		}
	}
	return PayoutOther
}

const genericAssetName = "generic"

// ClassifyAssetCategory maps an asset type label such as "Smart Contract - Staking"
// to its category and a lower-cased display name. Callers pass the label
// already trimmed; leading whitespace is not ignored.
func ClassifyAssetCategory(label string) (AssetCategory, string) {
	lower := strings.ToLower(label)

	switch {
	case strings.HasPrefix(lower, "smart contract -"):
		return AssetSmartContract, nameAfterHyphen(lower)
	case strings.HasPrefix(lower, "web"):
		return AssetWeb, nameAfterHyphen(lower)
	}
	return AssetOther, genericAssetName
}

func nameAfterHyphen(lower string) string {
	if _, after, found := strings.Cut(lower, "-"); found {
		return strings.TrimSpace(after)
	}
	return lower
}
