package version

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		byteVersion uint8
		dominant    string
		ok          bool
	}{
		{0, "", false}, // reserved, must never resolve
		{1, "0.1.0", true},
		{2, "", false},
		{255, "", false},
	}

	for _, tt := range tests {
		d, ok := Lookup(tt.byteVersion)
		if ok != tt.ok || d != tt.dominant {
			t.Errorf("Lookup(%d) = (%q, %v), want (%q, %v)",
				tt.byteVersion, d, ok, tt.dominant, tt.ok)
		}
	}
}

func TestByteVersionResolvesToDominant(t *testing.T) {
	d, ok := Lookup(ByteVersion)
	if !ok {
		t.Fatalf("ByteVersion %d is not in the version table", ByteVersion)
	}
	if d != Dominant {
		t.Errorf("ByteVersion %d resolves to %q, want %q", ByteVersion, d, Dominant)
	}
}

func TestTableIsACopy(t *testing.T) {
	m := Table()
	m[1] = "9.9.9"
	m[7] = "0.0.1"

	if d, _ := Lookup(1); d != "0.1.0" {
		t.Errorf("mutating Table() result changed Lookup(1) to %q", d)
	}
	if _, ok := Lookup(7); ok {
		t.Error("mutating Table() result added byte version 7")
	}
}
