package contracts

import "testing"

func TestNormalizeProvince(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Córdoba", "cordoba"},
		{"  Entre  Ríos ", "entre rios"},
		{"Capital Federal", "caba"},
		{"CABA", "caba"},
		{"Tierra del Fuego, Antártida e Islas del Atlántico Sur", "tierra del fuego"},
	}

	for _, tt := range tests {
		if got := NormalizeProvince(tt.in); got != tt.want {
			t.Errorf("NormalizeProvince(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLookupProvince(t *testing.T) {
	p, ok := LookupProvince("tucuman")
	if !ok || p.Code != "AR-T" {
		t.Errorf("LookupProvince(tucuman) = %+v, %v", p, ok)
	}

	if _, ok := LookupProvince("atlantis"); ok {
		t.Error("expected unknown province")
	}

	if n := len(Provinces()); n != 24 {
		t.Errorf("Provinces() = %d entries, want 24", n)
	}
}
