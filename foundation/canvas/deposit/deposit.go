// Package deposit implements the escrow arithmetic for the canvas. A pixel's
// deposit funds a per-day holding tax sized against the owner's self-assessed
// price, and the portion already consumed by elapsed time is forfeited to the
// system when a pixel changes hands or is burned.
package deposit

import (
	"errors"
	"math"
	"math/bits"
)

// ErrOverflow is returned when a term/price/rate combination is too large to
// settle in 64 bits. The operation carrying those values must be rejected.
var ErrOverflow = errors.New("deposit arithmetic overflow")

// TaxScale is the denominator for the tax rate. A tax_per_day of 1750
// represents 0.175% of the price per day.
const TaxScale = 1_000_000

// SecondsPerDay is the length of a tax day. The deployed contract shipped
// with 84_600 rather than 86_400 and every settlement on record was computed
// against it, so changing it now would change what existing holders owe.
const SecondsPerDay = 84_600

// Storage cost of one pixel record: a flat box allocation fee plus a per-byte
// fee across the 63 byte encoded record (32 owner, 3 color, 8 term begin,
// 4 term days, 8 price, 8 deposit).
const (
	flatMinBalance  = 2_500
	byteMinBalance  = 400
	pixelRecordSize = 63

	// PixelMinBalance is the amount that must be escrowed to hold one
	// pixel record in storage.
	PixelMinBalance = flatMinBalance + pixelRecordSize*byteMinBalance
)

// Calc returns the deposit required to hold a pixel at the specified price
// for the specified number of days. Floor division, so very small
// price/term/rate combinations can legitimately require a zero deposit.
// A combination whose product exceeds 64 bits returns ErrOverflow rather
// than a wrapped value.
func Calc(termDays uint32, price uint64, taxPerDay uint64) (uint64, error) {
	product, ok := mul64(uint64(termDays), price, taxPerDay)
	if !ok {
		return 0, ErrOverflow
	}
	return product / TaxScale, nil
}

// ElapsedDays returns the number of whole tax days between termBeginAt and
// now. The subtraction saturates at zero so a clock that reads earlier than
// the term start can never produce a wrapped day count.
func ElapsedDays(termBeginAt uint64, now uint64) uint64 {
	if now < termBeginAt {
		return 0
	}
	return (now - termBeginAt) / SecondsPerDay
}

// Spent returns the portion of a deposit consumed by tax accrual for the
// time elapsed since the term began. This amount is retained by the system
// when the holder exits. The accrual saturates at the maximum value rather
// than wrapping; Unspent caps it at the held deposit, so for any pixel that
// old the whole deposit is forfeited.
func Spent(termBeginAt uint64, price uint64, taxPerDay uint64, now uint64) uint64 {
	product, ok := mul64(ElapsedDays(termBeginAt, now), price, taxPerDay)
	if !ok {
		return math.MaxUint64
	}
	return product / TaxScale
}

// Unspent returns what remains of the held deposit after the spent portion
// is retained. Once a pixel is far enough past expiry the accrued spend can
// exceed the deposit that was actually held, so the retained amount is
// capped at the deposit itself.
func Unspent(held uint64, spent uint64) uint64 {
	if spent > held {
		return 0
	}
	return held - spent
}

// IsExpired reports whether the declared term has fully elapsed. An expired
// pixel remains owned but loses its mutation exclusivity for reclaim.
func IsExpired(termBeginAt uint64, termDays uint32, now uint64) bool {
	return ElapsedDays(termBeginAt, now) >= uint64(termDays)
}

// mul64 multiplies three values, reporting false when the product does not
// fit in 64 bits.
func mul64(a, b, c uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, false
	}

	hi, lo = bits.Mul64(lo, c)
	if hi != 0 {
		return 0, false
	}

	return lo, true
}
