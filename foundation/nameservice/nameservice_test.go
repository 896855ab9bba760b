package nameservice_test

import (
	"path/filepath"
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ardanlabs/powledger/foundation/nameservice"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_NameService(t *testing.T) {
	t.Log("Given the need to resolve account names.")
	{
		dir := t.TempDir()

		kennedy, err := signature.HexToSecp256k1Key("fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959")
		if err != nil {
			t.Fatalf("\t%s\tTest 0:\tShould be able to load a private key: %s", failed, err)
		}
		if err := kennedy.Save(filepath.Join(dir, "kennedy.ecdsa")); err != nil {
			t.Fatalf("\t%s\tTest 0:\tShould be able to save a private key: %s", failed, err)
		}

		ns, err := nameservice.New(dir)
		if err != nil {
			t.Fatalf("\t%s\tTest 0:\tShould be able to construct the name service: %s", failed, err)
		}
		t.Logf("\t%s\tTest 0:\tShould be able to construct the name service.", success)

		if name := ns.Lookup(kennedy.Public()); name != "kennedy" {
			t.Fatalf("\t%s\tTest 0:\tShould resolve the account name, got %s.", failed, name)
		}
		t.Logf("\t%s\tTest 0:\tShould resolve the account name.", success)

		if name := ns.Lookup("0xunknown"); name != "0xunknown" {
			t.Fatalf("\t%s\tTest 0:\tShould fall back to the account, got %s.", failed, name)
		}
		t.Logf("\t%s\tTest 0:\tShould fall back to the account.", success)

		key, err := ns.Key("kennedy")
		if err != nil || key.Public() != kennedy.Public() {
			t.Fatalf("\t%s\tTest 0:\tShould return the named private key: %v", failed, err)
		}
		t.Logf("\t%s\tTest 0:\tShould return the named private key.", success)

		dk, err := signature.HexToDilithiumKey("8dc79feefd3b86e2f9991def0e5ccd9a5128e104682407b308594bc1032ac7f0")
		if err != nil {
			t.Fatalf("\t%s\tTest 0:\tShould be able to load a dilithium key: %s", failed, err)
		}
		if err := dk.Save(filepath.Join(dir, "ceasar.dilithium")); err != nil {
			t.Fatalf("\t%s\tTest 0:\tShould be able to save a dilithium key: %s", failed, err)
		}

		ns, err = nameservice.New(dir)
		if err != nil {
			t.Fatalf("\t%s\tTest 0:\tShould be able to reload the name service: %s", failed, err)
		}
		if name := ns.Lookup(dk.Public()); name != "ceasar" {
			t.Fatalf("\t%s\tTest 0:\tShould resolve a dilithium account, got %s.", failed, name)
		}
		t.Logf("\t%s\tTest 0:\tShould resolve a dilithium account.", success)

		if _, err := ns.Key("pavel"); err == nil {
			t.Fatalf("\t%s\tTest 0:\tShould fail for an unknown name.", failed)
		}
		t.Logf("\t%s\tTest 0:\tShould fail for an unknown name.", success)
	}
}
