package database

// Settings represents the global canvas parameters. MintFee and TaxPerDay
// are only mutated through the creator-gated setters on the state API.
// TotalPixels counts records currently minted and MaxPixels counts the
// storage capacity already paid for.
type Settings struct {
	MintFee     uint64 `json:"mint_fee"`
	TaxPerDay   uint64 `json:"tax_per_day"`
	TotalPixels uint64 `json:"total_pixels"`
	MaxPixels   uint64 `json:"max_pixels"`
}
