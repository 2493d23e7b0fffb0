package sqlite_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/ardanlabs/canvas/foundation/canvas/database"
	"github.com/ardanlabs/canvas/foundation/canvas/database/storage/sqlite"
)

func TestPixelRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canvas.db")

	strg, err := sqlite.New(path)
	require.NoError(t, err)

	pos := database.Position{X: 4, Y: 2}
	pix := database.Pixel{
		Owner:       "0x0070742FF6003c3E809E78D524F0Fe5dcc5BA7F7",
		Color:       database.Color{R: 10, G: 20, B: 30},
		TermBeginAt: 1_700_000_000,
		TermDays:    30,
		Price:       1_000_000,
		Deposit:     52_500,
	}

	require.NoError(t, strg.SetPixel(pos, pix))

	// Overwrite must replace, not duplicate.
	pix.Price = 2_000_000
	require.NoError(t, strg.SetPixel(pos, pix))
	require.NoError(t, strg.Close())

	// Reopen and walk the stored pixels.
	strg, err = sqlite.New(path)
	require.NoError(t, err)
	defer strg.Close()

	found := map[database.Position]database.Pixel{}
	iter := strg.ForEach()
	for {
		pos, pix, err := iter.Next()
		require.NoError(t, err)
		if iter.Done() {
			break
		}
		found[pos] = pix
	}

	require.Len(t, found, 1)
	require.Equal(t, pix, found[pos])

	require.NoError(t, strg.DeletePixel(pos))
	iter = strg.ForEach()
	_, _, err = iter.Next()
	require.NoError(t, err)
	require.True(t, iter.Done())
}

func TestSettingsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canvas.db")

	strg, err := sqlite.New(path)
	require.NoError(t, err)

	_, exists, err := strg.Settings()
	require.NoError(t, err)
	require.False(t, exists)

	settings := database.Settings{
		MintFee:     2_000_000,
		TaxPerDay:   3_500,
		TotalPixels: 7,
		MaxPixels:   10,
	}
	require.NoError(t, strg.SetSettings(settings))
	require.NoError(t, strg.Close())

	strg, err = sqlite.New(path)
	require.NoError(t, err)
	defer strg.Close()

	got, exists, err := strg.Settings()
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, settings, got)

	require.NoError(t, strg.Reset())
	_, exists, err = strg.Settings()
	require.NoError(t, err)
	require.False(t, exists)
}

func TestIteratorReleasesRowsOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canvas.db")

	strg, err := sqlite.New(path)
	require.NoError(t, err)
	defer strg.Close()

	pos := database.Position{X: 4, Y: 2}
	pix := database.Pixel{
		Owner:       "0x0070742FF6003c3E809E78D524F0Fe5dcc5BA7F7",
		Color:       database.Color{R: 10, G: 20, B: 30},
		TermBeginAt: 1_700_000_000,
		TermDays:    30,
		Price:       1_000_000,
		Deposit:     52_500,
	}
	require.NoError(t, strg.SetPixel(pos, pix))

	// Plant a row that cannot scan into a uint32 position.
	raw, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = raw.Exec(`INSERT INTO pixels (x, y, owner, color_r, color_g, color_b, term_begin_at, term_days, price, deposit)
		VALUES (-7, 0, 'bad', 0, 0, 0, 0, 0, 0, 0);`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	iter := strg.ForEach()
	var scanErr error
	for {
		_, _, err := iter.Next()
		if err != nil {
			scanErr = err
			break
		}
		if iter.Done() {
			break
		}
	}
	require.Error(t, scanErr)

	// The pool holds a single connection, so the next write only succeeds
	// if the aborted iteration released its rows handle.
	require.NoError(t, strg.SetPixel(database.Position{X: 5, Y: 2}, pix))
}
