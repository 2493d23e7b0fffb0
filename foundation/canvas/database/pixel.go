package database

import "fmt"

// Position represents the unique (x, y) key identifying a pixel cell
// on the canvas.
type Position struct {
	X uint32 `json:"x"`
	Y uint32 `json:"y"`
}

// String implements the fmt.Stringer interface for logging.
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Color represents the rgb channel values of a pixel. Purely cosmetic, no
// constraint beyond the byte range of each channel.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Pixel represents the ownership record stored for a single cell. The
// deposit always equals deposit.Calc(TermDays, Price, taxPerDay) as of the
// write that produced the record.
type Pixel struct {
	Owner       AccountID `json:"owner"`
	Color       Color     `json:"color"`
	TermBeginAt uint64    `json:"term_begin_at"`
	TermDays    uint32    `json:"term_days"`
	Price       uint64    `json:"price"`
	Deposit     uint64    `json:"deposit"`
}

// Available returns the record presented for a cell that has no owner. The
// price field carries the current mint fee so a caller sees what the cell
// would cost without needing a separate existence check.
func Available(mintFee uint64) Pixel {
	return Pixel{
		Owner: ZeroAccountID,
		Color: Color{R: 255, G: 255, B: 255},
		Price: mintFee,
	}
}
