package nameservice_test

import (
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ardanlabs/canvas/foundation/canvas/database"
	"github.com/ardanlabs/canvas/foundation/nameservice"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestNameService(t *testing.T) {
	t.Log("Given the need to resolve names from key files.")
	{
		t.Log("\tTest 0:\tWhen the accounts folder does not exist.")
		{
			ns, err := nameservice.New(filepath.Join(t.TempDir(), "missing"))
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould start empty without error: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould start empty without error.", success)

			const account = database.AccountID("0x0070742FF6003c3E809E78D524F0Fe5dcc5BA7F7")
			if got := ns.Lookup(account); got != string(account) {
				t.Fatalf("\t%s\tTest 0:\tShould fall back to the account id: got %s", failed, got)
			}
			t.Logf("\t%s\tTest 0:\tShould fall back to the account id.", success)
		}

		t.Log("\tTest 1:\tWhen the folder holds a key file.")
		{
			dir := t.TempDir()

			privateKey, err := crypto.GenerateKey()
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould generate a key: %v", failed, err)
			}
			if err := crypto.SaveECDSA(filepath.Join(dir, "kennedy.ecdsa"), privateKey); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould save the key file: %v", failed, err)
			}

			ns, err := nameservice.New(dir)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould load the folder: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould load the folder.", success)

			account := database.PublicKeyToAccountID(privateKey.PublicKey)
			if got := ns.Lookup(account); got != "kennedy" {
				t.Fatalf("\t%s\tTest 1:\tShould resolve the file name: got %s", failed, got)
			}
			t.Logf("\t%s\tTest 1:\tShould resolve the file name.", success)
		}
	}
}
