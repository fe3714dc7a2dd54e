package storage

import "time"

const (
	KindAsset  = "asset"
	KindPayout = "payout"

	ChangeAdded   = "added"
	ChangeUpdated = "updated"
	ChangeRemoved = "removed"
)

// AssetEntry is an archived in-scope asset.
type AssetEntry struct {
	// Program info
	Slug       string
	Platform   string
	ProgramURL string

	// Target info
	TargetNormalized string
	TargetRaw        string
	Category         string
	Name             string
}

// Change captures a single change event for auditing or printing.
type Change struct {
	OccurredAt time.Time

	// Program info
	Slug       string
	Platform   string
	ProgramURL string

	Kind string // asset | payout
	// Subject is the normalized target for assets and the level for payouts.
	Subject  string
	Category string
	// Detail is the asset name or the payout amount after the change.
	Detail     string
	ChangeType string // added | updated | removed
}

type PlatformStats struct {
	Platform     string
	ProgramCount int
	AssetCount   int
	PayoutCount  int
}
