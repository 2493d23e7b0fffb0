package state

import (
	"github.com/ardanlabs/canvas/foundation/canvas/database"
)

// QueryPixel returns the record for the specified position. A cell without
// a record is presented as available: zero owner, neutral color and the
// current mint fee as its price.
func (s *State) QueryPixel(pos database.Position) database.Pixel {
	pix, exists := s.db.Query(pos)
	if !exists {
		return database.Available(s.db.QuerySettings().MintFee)
	}
	return pix
}

// QueryPixels returns the records for the width x height rectangle anchored
// at pos, row-major, recomputed fresh on every call. Absent cells are
// presented as available just like QueryPixel.
func (s *State) QueryPixels(pos database.Position, width uint32, height uint32) []database.Pixel {
	settings := s.db.QuerySettings()

	pixels := make([]database.Pixel, 0, uint64(width)*uint64(height))
	for dy := uint32(0); dy < height; dy++ {
		for dx := uint32(0); dx < width; dx++ {
			cell := database.Position{X: pos.X + dx, Y: pos.Y + dy}
			pix, exists := s.db.Query(cell)
			if !exists {
				pix = database.Available(settings.MintFee)
			}
			pixels = append(pixels, pix)
		}
	}

	return pixels
}

// QuerySettings returns a copy of the current global settings.
func (s *State) QuerySettings() database.Settings {
	return s.db.QuerySettings()
}

// QueryMintFee returns the current price for an unowned pixel.
func (s *State) QueryMintFee() uint64 {
	return s.db.QuerySettings().MintFee
}

// QueryTaxPerDay returns the current daily tax rate in millionths.
func (s *State) QueryTaxPerDay() uint64 {
	return s.db.QuerySettings().TaxPerDay
}

// QueryTotalPixels returns the number of pixels currently minted.
func (s *State) QueryTotalPixels() uint64 {
	return s.db.QuerySettings().TotalPixels
}

// QueryMaxPixels returns the storage capacity currently paid for.
func (s *State) QueryMaxPixels() uint64 {
	return s.db.QuerySettings().MaxPixels
}
