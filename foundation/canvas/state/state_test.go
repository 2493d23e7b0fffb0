package state_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/ardanlabs/canvas/foundation/canvas/database"
	"github.com/ardanlabs/canvas/foundation/canvas/database/storage/memory"
	"github.com/ardanlabs/canvas/foundation/canvas/deposit"
	"github.com/ardanlabs/canvas/foundation/canvas/genesis"
	"github.com/ardanlabs/canvas/foundation/canvas/state"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

const (
	creator = "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32"
	custody = "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4"
	alice   = "0x0070742FF6003c3E809E78D524F0Fe5dcc5BA7F7"
	bob     = "0x7FDFc99999f1760e8dBd75a480B93c7B8386B79a"
)

// clock provides a controllable time source for the state.
type clock struct {
	current uint64
}

func (c *clock) now() time.Time {
	return time.Unix(int64(c.current), 0)
}

func (c *clock) advanceDays(days uint64) {
	c.current += days * deposit.SecondsPerDay
}

func newTestState(t *testing.T) (*state.State, *clock) {
	t.Helper()

	clk := clock{current: 1_700_000_000}

	s, err := state.New(state.Config{
		Genesis: genesis.Genesis{
			Creator:   creator,
			Custody:   custody,
			MintFee:   1_000_000,
			TaxPerDay: 1_750,
		},
		Storage: memory.New(),
		Now:     clk.now,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
	}

	return s, &clk
}

func payTo(to string, amount uint64) state.Payment {
	return state.Payment{FromID: alice, ToID: database.AccountID(to), Amount: amount}
}

func TestMint(t *testing.T) {
	pos := database.Position{X: 0, Y: 0}
	red := database.Color{R: 255}

	t.Log("Given the need to mint pixels against fee, deposit and capacity rules.")
	{
		t.Log("\tTest 0:\tWhen minting without pre-paid capacity.")
		{
			s, _ := newTestState(t)

			// 30 * 1_000_000 * 1750 / 1_000_000 = 52_500, plus the mint fee
			// and the self-funded storage slot.
			required := uint64(1_000_000 + 52_500 + deposit.PixelMinBalance)

			if err := s.MintPixel(alice, pos, red, 30, 1_000_000, payTo(custody, required-1)); !errors.Is(err, state.ErrInvalidPayment) {
				t.Fatalf("\t%s\tTest 0:\tShould reject a payment short by one unit: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould reject a payment short by one unit.", success)

			if err := s.MintPixel(alice, pos, red, 30, 1_000_000, payTo(alice, required)); !errors.Is(err, state.ErrInvalidPayment) {
				t.Fatalf("\t%s\tTest 0:\tShould reject a payment to the wrong receiver: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould reject a payment to the wrong receiver.", success)

			if err := s.MintPixel(alice, pos, red, 30, 1_000_000, payTo(custody, required)); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould mint with the exact payment: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould mint with the exact payment.", success)

			settings := s.QuerySettings()
			if settings.TotalPixels != 1 || settings.MaxPixels != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould self-fund a capacity slot: total %d max %d", failed, settings.TotalPixels, settings.MaxPixels)
			}
			t.Logf("\t%s\tTest 0:\tShould self-fund a capacity slot.", success)

			pix := s.QueryPixel(pos)
			if pix.Owner != alice || pix.Deposit != 52_500 || pix.TermDays != 30 {
				t.Fatalf("\t%s\tTest 0:\tShould record owner, term and deposit: %+v", failed, pix)
			}
			t.Logf("\t%s\tTest 0:\tShould record owner, term and deposit.", success)

			if err := s.MintPixel(bob, pos, red, 30, 1_000_000, payTo(custody, required)); !errors.Is(err, state.ErrPixelExists) {
				t.Fatalf("\t%s\tTest 0:\tShould reject minting an existing pixel: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould reject minting an existing pixel.", success)
		}

		t.Log("\tTest 1:\tWhen capacity was pre-paid via allocate.")
		{
			s, _ := newTestState(t)

			if err := s.AllocatePixels(alice, 10, payTo(custody, 10*deposit.PixelMinBalance)); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould allocate 10 slots: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould allocate 10 slots.", success)

			if got := s.QueryMaxPixels(); got != 10 {
				t.Fatalf("\t%s\tTest 1:\tShould report 10 max pixels: got %d", failed, got)
			}
			t.Logf("\t%s\tTest 1:\tShould report 10 max pixels.", success)

			// Capacity exists, so the storage cost is not required.
			if err := s.MintPixel(alice, pos, red, 30, 1_000_000, payTo(custody, 1_052_500)); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould mint for mint fee plus deposit: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould mint for mint fee plus deposit.", success)

			settings := s.QuerySettings()
			if settings.TotalPixels != 1 || settings.MaxPixels != 10 {
				t.Fatalf("\t%s\tTest 1:\tShould consume pre-paid capacity: total %d max %d", failed, settings.TotalPixels, settings.MaxPixels)
			}
			t.Logf("\t%s\tTest 1:\tShould consume pre-paid capacity.", success)
		}

		t.Log("\tTest 2:\tWhen allocating with the wrong payment.")
		{
			s, _ := newTestState(t)

			if err := s.AllocatePixels(alice, 10, payTo(custody, 10*deposit.PixelMinBalance+1)); !errors.Is(err, state.ErrInvalidPayment) {
				t.Fatalf("\t%s\tTest 2:\tShould reject a payment off by one unit: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould reject a payment off by one unit.", success)

			if got := s.QueryMaxPixels(); got != 0 {
				t.Fatalf("\t%s\tTest 2:\tShould leave capacity unchanged: got %d", failed, got)
			}
			t.Logf("\t%s\tTest 2:\tShould leave capacity unchanged.", success)
		}
	}
}

func TestBuy(t *testing.T) {
	pos := database.Position{X: 0, Y: 0}
	red := database.Color{R: 255}
	blue := database.Color{B: 255}

	t.Log("Given the need to transfer pixels at the self-assessed price.")
	{
		t.Log("\tTest 0:\tWhen buying a pixel 15 days into a 30 day term.")
		{
			s, clk := newTestState(t)

			required := uint64(1_000_000 + 52_500 + deposit.PixelMinBalance)
			if err := s.MintPixel(alice, pos, red, 30, 1_000_000, payTo(custody, required)); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mint: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to mint.", success)

			clk.advanceDays(15)

			// New deposit 30 * 2_000_000 * 1750 / 1_000_000 = 105_000.
			payout, err := s.BuyPixel(bob, pos, blue, 30, 2_000_000, payTo(custody, 1_000_000+105_000))
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould buy for prior price plus new deposit: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould buy for prior price plus new deposit.", success)

			// 52_500 deposit minus 15 days of accrued tax (26_250).
			if payout == nil || payout.ToID != alice || payout.Amount != 26_250 {
				t.Fatalf("\t%s\tTest 0:\tShould refund the unspent deposit to the prior owner: %+v", failed, payout)
			}
			t.Logf("\t%s\tTest 0:\tShould refund the unspent deposit to the prior owner.", success)

			// payout + retained tax must equal the prior deposit.
			if payout.Amount+26_250 != 52_500 {
				t.Fatalf("\t%s\tTest 0:\tShould conserve the prior deposit.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould conserve the prior deposit.", success)

			pix := s.QueryPixel(pos)
			if pix.Owner != bob || pix.Price != 2_000_000 || pix.Deposit != 105_000 || pix.Color != blue {
				t.Fatalf("\t%s\tTest 0:\tShould replace the record for the new owner: %+v", failed, pix)
			}
			t.Logf("\t%s\tTest 0:\tShould replace the record for the new owner.", success)

			if pix.TermBeginAt != clk.current {
				t.Fatalf("\t%s\tTest 0:\tShould restart the term at the purchase time.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould restart the term at the purchase time.", success)
		}

		t.Log("\tTest 1:\tWhen buying a pixel that does not exist.")
		{
			s, _ := newTestState(t)

			if _, err := s.BuyPixel(bob, pos, blue, 30, 2_000_000, payTo(custody, 1)); !errors.Is(err, state.ErrPixelNotFound) {
				t.Fatalf("\t%s\tTest 1:\tShould reject the buy: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject the buy.", success)
		}

		t.Log("\tTest 2:\tWhen buying a pixel long past its term.")
		{
			s, clk := newTestState(t)

			required := uint64(1_000_000 + 52_500 + deposit.PixelMinBalance)
			if err := s.MintPixel(alice, pos, red, 30, 1_000_000, payTo(custody, required)); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to mint: %v", failed, err)
			}

			clk.advanceDays(90)

			payout, err := s.BuyPixel(bob, pos, blue, 30, 2_000_000, payTo(custody, 1_000_000+105_000))
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould still be purchasable when expired: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould still be purchasable when expired.", success)

			// 90 days of tax exceeds the 30 day deposit, nothing comes back.
			if payout != nil {
				t.Fatalf("\t%s\tTest 2:\tShould refund nothing once the deposit is fully spent: %+v", failed, payout)
			}
			t.Logf("\t%s\tTest 2:\tShould refund nothing once the deposit is fully spent.", success)
		}
	}
}

func TestUpdate(t *testing.T) {
	pos := database.Position{X: 3, Y: 7}
	red := database.Color{R: 255}
	green := database.Color{G: 255}

	mint := func(t *testing.T) (*state.State, *clock) {
		s, clk := newTestState(t)
		required := uint64(1_000_000 + 52_500 + deposit.PixelMinBalance)
		if err := s.MintPixel(alice, pos, red, 30, 1_000_000, payTo(custody, required)); err != nil {
			t.Fatalf("\t%s\tShould be able to mint: %v", failed, err)
		}
		return s, clk
	}

	t.Log("Given the need to update pixels under ownership and deposit rules.")
	{
		t.Log("\tTest 0:\tWhen updating the color.")
		{
			s, _ := mint(t)

			if err := s.UpdatePixelColor(bob, pos, green); !errors.Is(err, state.ErrNotOwner) {
				t.Fatalf("\t%s\tTest 0:\tShould reject a non-owner: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould reject a non-owner.", success)

			if err := s.UpdatePixelColor(alice, pos, green); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould recolor for the owner: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould recolor for the owner.", success)

			pix := s.QueryPixel(pos)
			if pix.Color != green || pix.Deposit != 52_500 {
				t.Fatalf("\t%s\tTest 0:\tShould leave everything but the color alone: %+v", failed, pix)
			}
			t.Logf("\t%s\tTest 0:\tShould leave everything but the color alone.", success)
		}

		t.Log("\tTest 1:\tWhen extending the term.")
		{
			s, _ := mint(t)

			// 60 days doubles the deposit: 105_000, difference 52_500.
			if _, err := s.UpdateTermDays(alice, pos, 60, nil); !errors.Is(err, state.ErrInvalidPayment) {
				t.Fatalf("\t%s\tTest 1:\tShould require a payment for the difference: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould require a payment for the difference.", success)

			pay := payTo(custody, 52_500)
			payout, err := s.UpdateTermDays(alice, pos, 60, &pay)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould extend with the exact difference: %v", failed, err)
			}
			if payout != nil {
				t.Fatalf("\t%s\tTest 1:\tShould not also pay out: %+v", failed, payout)
			}
			t.Logf("\t%s\tTest 1:\tShould extend with the exact difference.", success)

			pix := s.QueryPixel(pos)
			if pix.TermDays != 60 || pix.Deposit != 105_000 {
				t.Fatalf("\t%s\tTest 1:\tShould record the new term and deposit: %+v", failed, pix)
			}
			t.Logf("\t%s\tTest 1:\tShould record the new term and deposit.", success)
		}

		t.Log("\tTest 2:\tWhen shrinking the term mid-way.")
		{
			s, clk := mint(t)
			clk.advanceDays(10)

			// New deposit 20 * 1_000_000 * 1750 / 1_000_000 = 35_000. The
			// 17_500 difference is refunded net of the 17_500 already spent.
			payout, err := s.UpdateTermDays(alice, pos, 20, nil)
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould shrink without a payment: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould shrink without a payment.", success)

			if payout != nil {
				t.Fatalf("\t%s\tTest 2:\tShould net the refund against the spent portion: %+v", failed, payout)
			}
			t.Logf("\t%s\tTest 2:\tShould net the refund against the spent portion.", success)
		}

		t.Log("\tTest 3:\tWhen the new deposit cannot cover the spent portion.")
		{
			s, clk := mint(t)
			clk.advanceDays(25)

			// 25 days of spend is 43_750; a 10 day term holds only 17_500.
			if _, err := s.UpdateTermDays(alice, pos, 10, nil); !errors.Is(err, state.ErrDepositUnderflow) {
				t.Fatalf("\t%s\tTest 3:\tShould reject the update: %v", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould reject the update.", success)

			pix := s.QueryPixel(pos)
			if pix.TermDays != 30 || pix.Deposit != 52_500 {
				t.Fatalf("\t%s\tTest 3:\tShould leave the record untouched: %+v", failed, pix)
			}
			t.Logf("\t%s\tTest 3:\tShould leave the record untouched.", success)
		}

		t.Log("\tTest 4:\tWhen raising the price.")
		{
			s, _ := mint(t)

			// Doubling the price doubles the deposit.
			pay := payTo(custody, 52_500)
			if _, err := s.UpdatePixelPrice(alice, pos, 2_000_000, &pay); err != nil {
				t.Fatalf("\t%s\tTest 4:\tShould reprice with the exact difference: %v", failed, err)
			}
			t.Logf("\t%s\tTest 4:\tShould reprice with the exact difference.", success)

			pix := s.QueryPixel(pos)
			if pix.Price != 2_000_000 || pix.Deposit != 105_000 {
				t.Fatalf("\t%s\tTest 4:\tShould record the new price and deposit: %+v", failed, pix)
			}
			t.Logf("\t%s\tTest 4:\tShould record the new price and deposit.", success)
		}

		t.Log("\tTest 5:\tWhen the owner updates after expiry.")
		{
			s, clk := mint(t)
			clk.advanceDays(40)

			// Updates stay owner gated even when expired, and only for
			// the owner.
			if err := s.UpdatePixelColor(bob, pos, green); !errors.Is(err, state.ErrNotOwner) {
				t.Fatalf("\t%s\tTest 5:\tShould still reject a non-owner: %v", failed, err)
			}
			t.Logf("\t%s\tTest 5:\tShould still reject a non-owner.", success)

			if err := s.UpdatePixelColor(alice, pos, green); err != nil {
				t.Fatalf("\t%s\tTest 5:\tShould allow the owner: %v", failed, err)
			}
			t.Logf("\t%s\tTest 5:\tShould allow the owner.", success)
		}
	}
}

func TestBurn(t *testing.T) {
	pos := database.Position{X: 1, Y: 1}
	red := database.Color{R: 255}

	mint := func(t *testing.T) (*state.State, *clock) {
		s, clk := newTestState(t)
		required := uint64(1_000_000 + 52_500 + deposit.PixelMinBalance)
		if err := s.MintPixel(alice, pos, red, 30, 1_000_000, payTo(custody, required)); err != nil {
			t.Fatalf("\t%s\tShould be able to mint: %v", failed, err)
		}
		return s, clk
	}

	t.Log("Given the need to burn pixels and settle deposits.")
	{
		t.Log("\tTest 0:\tWhen the owner burns inside the term.")
		{
			s, clk := mint(t)
			clk.advanceDays(15)

			if _, err := s.BurnPixel(bob, pos); !errors.Is(err, state.ErrNotOwner) {
				t.Fatalf("\t%s\tTest 0:\tShould reject a non-owner inside the term: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould reject a non-owner inside the term.", success)

			payout, err := s.BurnPixel(alice, pos)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould burn for the owner: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould burn for the owner.", success)

			if payout == nil || payout.ToID != alice || payout.Amount != 26_250 {
				t.Fatalf("\t%s\tTest 0:\tShould refund the unspent deposit: %+v", failed, payout)
			}
			t.Logf("\t%s\tTest 0:\tShould refund the unspent deposit.", success)

			if got := s.QueryTotalPixels(); got != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould decrement the minted count: got %d", failed, got)
			}
			t.Logf("\t%s\tTest 0:\tShould decrement the minted count.", success)

			pix := s.QueryPixel(pos)
			if !pix.Owner.IsZero() || pix.Price != 1_000_000 {
				t.Fatalf("\t%s\tTest 0:\tShould present the cell as available again: %+v", failed, pix)
			}
			t.Logf("\t%s\tTest 0:\tShould present the cell as available again.", success)
		}

		t.Log("\tTest 1:\tWhen anyone reclaims an expired pixel.")
		{
			s, clk := mint(t)
			clk.advanceDays(30)

			payout, err := s.BurnPixel(bob, pos)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould allow a non-owner after expiry: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould allow a non-owner after expiry.", success)

			// The refund still goes to the owner, not the reclaimer. With
			// the full 30 days spent the whole deposit is retained.
			if payout != nil {
				t.Fatalf("\t%s\tTest 1:\tShould retain the fully spent deposit: %+v", failed, payout)
			}
			t.Logf("\t%s\tTest 1:\tShould retain the fully spent deposit.", success)

			if _, err := s.BurnPixel(bob, pos); !errors.Is(err, state.ErrPixelNotFound) {
				t.Fatalf("\t%s\tTest 1:\tShould reject burning twice: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject burning twice.", success)
		}
	}
}

func TestConfig(t *testing.T) {
	t.Log("Given the need to gate configuration changes to the creator.")
	{
		t.Log("\tTest 0:\tWhen a non-creator calls the setters.")
		{
			s, _ := newTestState(t)

			if err := s.UpdateMintFee(alice, 5); !errors.Is(err, state.ErrUnauthorized) {
				t.Fatalf("\t%s\tTest 0:\tShould reject the mint fee change: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould reject the mint fee change.", success)

			if err := s.UpdateTaxPerDay(alice, 5); !errors.Is(err, state.ErrUnauthorized) {
				t.Fatalf("\t%s\tTest 0:\tShould reject the tax change: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould reject the tax change.", success)
		}

		t.Log("\tTest 1:\tWhen the creator changes each value.")
		{
			s, _ := newTestState(t)

			if err := s.UpdateMintFee(creator, 2_000_000); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould change the mint fee: %v", failed, err)
			}
			if err := s.UpdateTaxPerDay(creator, 3_500); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould change the tax rate: %v", failed, err)
			}

			// Each setter writes its own slot.
			if s.QueryMintFee() != 2_000_000 || s.QueryTaxPerDay() != 3_500 {
				t.Fatalf("\t%s\tTest 1:\tShould keep the two settings independent: fee %d tax %d", failed, s.QueryMintFee(), s.QueryTaxPerDay())
			}
			t.Logf("\t%s\tTest 1:\tShould keep the two settings independent.", success)
		}
	}
}

func TestQuery(t *testing.T) {
	red := database.Color{R: 255}

	t.Log("Given the need to read cells and rectangles of the canvas.")
	{
		t.Log("\tTest 0:\tWhen reading a cell nobody owns.")
		{
			s, _ := newTestState(t)

			pix := s.QueryPixel(database.Position{X: 9, Y: 9})
			want := database.Available(1_000_000)
			if pix != want {
				t.Fatalf("\t%s\tTest 0:\tShould present the available sentinel: %+v", failed, pix)
			}
			t.Logf("\t%s\tTest 0:\tShould present the available sentinel.", success)

			if again := s.QueryPixel(database.Position{X: 9, Y: 9}); again != pix {
				t.Fatalf("\t%s\tTest 0:\tShould be idempotent with no mutation between reads.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould be idempotent with no mutation between reads.", success)
		}

		t.Log("\tTest 1:\tWhen reading a rectangle with one owned cell.")
		{
			s, _ := newTestState(t)

			required := uint64(1_000_000 + 52_500 + deposit.PixelMinBalance)
			if err := s.MintPixel(alice, database.Position{X: 1, Y: 2}, red, 30, 1_000_000, payTo(custody, required)); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to mint: %v", failed, err)
			}

			pixels := s.QueryPixels(database.Position{X: 0, Y: 0}, 3, 3)
			if len(pixels) != 9 {
				t.Fatalf("\t%s\tTest 1:\tShould return 9 records: got %d", failed, len(pixels))
			}
			t.Logf("\t%s\tTest 1:\tShould return 9 records.", success)

			// Row-major: (1,2) sits at index 2*3 + 1.
			if pixels[7].Owner != alice {
				t.Fatalf("\t%s\tTest 1:\tShould place the owned cell row-major: %+v", failed, pixels[7])
			}
			t.Logf("\t%s\tTest 1:\tShould place the owned cell row-major.", success)

			owned := 0
			for _, pix := range pixels {
				if !pix.Owner.IsZero() {
					owned++
				}
			}
			if owned != 1 {
				t.Fatalf("\t%s\tTest 1:\tShould present every other cell as available: %d owned", failed, owned)
			}
			t.Logf("\t%s\tTest 1:\tShould present every other cell as available.", success)
		}
	}
}

func TestCapacityInvariant(t *testing.T) {
	red := database.Color{R: 255}

	t.Log("Given the need to keep total pixels within paid capacity.")
	{
		t.Log("\tTest 0:\tWhen minting, burning and allocating in sequence.")
		{
			s, clk := newTestState(t)

			check := func(step string) {
				settings := s.QuerySettings()
				if settings.TotalPixels > settings.MaxPixels {
					t.Fatalf("\t%s\tTest 0:\tShould hold total <= max after %s: total %d max %d", failed, step, settings.TotalPixels, settings.MaxPixels)
				}
			}

			selfFunded := uint64(1_000_000 + 52_500 + deposit.PixelMinBalance)
			funded := uint64(1_000_000 + 52_500)

			if err := s.MintPixel(alice, database.Position{X: 0, Y: 0}, red, 30, 1_000_000, payTo(custody, selfFunded)); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould self-fund the first mint: %v", failed, err)
			}
			check("self-funded mint")

			if err := s.AllocatePixels(alice, 2, payTo(custody, 2*deposit.PixelMinBalance)); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould allocate: %v", failed, err)
			}
			check("allocate")

			if err := s.MintPixel(alice, database.Position{X: 1, Y: 0}, red, 30, 1_000_000, payTo(custody, funded)); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould mint into pre-paid capacity: %v", failed, err)
			}
			check("funded mint")

			clk.advanceDays(1)
			if _, err := s.BurnPixel(alice, database.Position{X: 0, Y: 0}); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould burn: %v", failed, err)
			}
			check("burn")

			settings := s.QuerySettings()
			if settings.TotalPixels != 1 || settings.MaxPixels != 3 {
				t.Fatalf("\t%s\tTest 0:\tShould keep capacity after burns: total %d max %d", failed, settings.TotalPixels, settings.MaxPixels)
			}
			t.Logf("\t%s\tTest 0:\tShould keep capacity after burns.", success)
		}
	}
}

func TestDepositOverflow(t *testing.T) {
	pos := database.Position{X: 0, Y: 0}
	red := database.Color{R: 255}

	t.Log("Given the need to reject terms and prices whose deposit cannot be sized.")
	{
		t.Log("\tTest 0:\tWhen minting with a term/price product beyond 64 bits.")
		{
			s, _ := newTestState(t)

			err := s.MintPixel(alice, pos, red, math.MaxUint32, 1<<40, payTo(custody, 1_000_000))
			if !errors.Is(err, deposit.ErrOverflow) {
				t.Fatalf("\t%s\tTest 0:\tShould reject the mint with ErrOverflow: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould reject the mint with ErrOverflow.", success)

			if pix := s.QueryPixel(pos); !pix.Owner.IsZero() {
				t.Fatalf("\t%s\tTest 0:\tShould leave the cell available: owner %s", failed, pix.Owner)
			}
			t.Logf("\t%s\tTest 0:\tShould leave the cell available.", success)

			if got := s.QueryTotalPixels(); got != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould leave the minted count unchanged: got %d", failed, got)
			}
			t.Logf("\t%s\tTest 0:\tShould leave the minted count unchanged.", success)
		}

		t.Log("\tTest 1:\tWhen an owned pixel is repriced beyond 64 bits.")
		{
			s, _ := newTestState(t)

			required := uint64(1_000_000 + 52_500 + deposit.PixelMinBalance)
			if err := s.MintPixel(alice, pos, red, 30, 1_000_000, payTo(custody, required)); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould mint: %v", failed, err)
			}

			if _, err := s.UpdatePixelPrice(alice, pos, math.MaxUint64, nil); !errors.Is(err, deposit.ErrOverflow) {
				t.Fatalf("\t%s\tTest 1:\tShould reject the reprice with ErrOverflow: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject the reprice with ErrOverflow.", success)

			if pix := s.QueryPixel(pos); pix.Price != 1_000_000 || pix.Deposit != 52_500 {
				t.Fatalf("\t%s\tTest 1:\tShould leave price and deposit unchanged: %+v", failed, pix)
			}
			t.Logf("\t%s\tTest 1:\tShould leave price and deposit unchanged.", success)
		}
	}
}

// faultStorage wraps a working backend and fails settings writes on demand.
type faultStorage struct {
	database.Storage
	failSettings bool
}

func (fs *faultStorage) SetSettings(settings database.Settings) error {
	if fs.failSettings {
		return errors.New("disk full")
	}
	return fs.Storage.SetSettings(settings)
}

func TestStorageFaultAtomicity(t *testing.T) {
	pos := database.Position{X: 0, Y: 0}
	red := database.Color{R: 255}

	strg := faultStorage{Storage: memory.New()}
	clk := clock{current: 1_700_000_000}

	s, err := state.New(state.Config{
		Genesis: genesis.Genesis{
			Creator:   creator,
			Custody:   custody,
			MintFee:   1_000_000,
			TaxPerDay: 1_750,
		},
		Storage: &strg,
		Now:     clk.now,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
	}

	required := uint64(1_000_000 + 52_500 + deposit.PixelMinBalance)

	t.Log("Given the need to commit record and count together or not at all.")
	{
		t.Log("\tTest 0:\tWhen the settings write fails during a mint.")
		{
			strg.failSettings = true

			if err := s.MintPixel(alice, pos, red, 30, 1_000_000, payTo(custody, required)); err == nil {
				t.Fatalf("\t%s\tTest 0:\tShould report the storage fault.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould report the storage fault.", success)

			if pix := s.QueryPixel(pos); !pix.Owner.IsZero() {
				t.Fatalf("\t%s\tTest 0:\tShould leave the cell available: owner %s", failed, pix.Owner)
			}
			t.Logf("\t%s\tTest 0:\tShould leave the cell available.", success)

			if got := s.QueryTotalPixels(); got != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould leave the minted count at zero: got %d", failed, got)
			}
			t.Logf("\t%s\tTest 0:\tShould leave the minted count at zero.", success)
		}

		t.Log("\tTest 1:\tWhen storage recovers the mint goes through.")
		{
			strg.failSettings = false

			if err := s.MintPixel(alice, pos, red, 30, 1_000_000, payTo(custody, required)); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould mint with the exact payment: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould mint with the exact payment.", success)
		}

		t.Log("\tTest 2:\tWhen the settings write fails during a burn.")
		{
			strg.failSettings = true

			if _, err := s.BurnPixel(alice, pos); err == nil {
				t.Fatalf("\t%s\tTest 2:\tShould report the storage fault.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould report the storage fault.", success)

			if pix := s.QueryPixel(pos); pix.Owner != alice {
				t.Fatalf("\t%s\tTest 2:\tShould keep the record: owner %s", failed, pix.Owner)
			}
			t.Logf("\t%s\tTest 2:\tShould keep the record.", success)

			if got := s.QueryTotalPixels(); got != 1 {
				t.Fatalf("\t%s\tTest 2:\tShould keep the minted count: got %d", failed, got)
			}
			t.Logf("\t%s\tTest 2:\tShould keep the minted count.", success)
		}

		t.Log("\tTest 3:\tWhen storage recovers the burn goes through.")
		{
			strg.failSettings = false

			payout, err := s.BurnPixel(alice, pos)
			if err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould burn: %v", failed, err)
			}
			if payout == nil || payout.Amount != 52_500 {
				t.Fatalf("\t%s\tTest 3:\tShould refund the full deposit: %+v", failed, payout)
			}
			t.Logf("\t%s\tTest 3:\tShould refund the full deposit.", success)

			if got := s.QueryTotalPixels(); got != 0 {
				t.Fatalf("\t%s\tTest 3:\tShould decrement the minted count: got %d", failed, got)
			}
			t.Logf("\t%s\tTest 3:\tShould decrement the minted count.", success)
		}
	}
}
