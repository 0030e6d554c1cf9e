package env

import "testing"

func TestDeriveIdiolibFromBinSibling(t *testing.T) {
	got := deriveIdiolib("", "/opt/husk/bin/huskvm")
	want := "/opt/husk/lib"
	if got != want {
		t.Fatalf("deriveIdiolib = %q, want %q", got, want)
	}
}

func TestDeriveIdiolibHonorsExplicit(t *testing.T) {
	got := deriveIdiolib("/custom/lib", "/opt/husk/bin/huskvm")
	if got != "/custom/lib" {
		t.Fatalf("deriveIdiolib = %q, want the explicit override", got)
	}
}

func TestDeriveIdiolibFallsBackToSiblingLib(t *testing.T) {
	got := deriveIdiolib("", "/opt/husk/huskvm")
	want := "/opt/husk/lib"
	if got != want {
		t.Fatalf("deriveIdiolib = %q, want %q", got, want)
	}
}

func TestLoadDefaultsWhenUnset(t *testing.T) {
	s := Load("/opt/husk/bin/huskvm")
	if s.IFS != DefaultIFS {
		t.Fatalf("IFS = %q, want the default", s.IFS)
	}
	if s.Path == "" {
		t.Fatal("Path should never be empty")
	}
}
