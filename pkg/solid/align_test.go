package solid

import "testing"

func TestParseAlign(t *testing.T) {
	tests := []struct {
		in      string
		want    Align
		wantErr bool
	}{
		{"center", AlignCenter, false},
		{"bottom", Align{0, 0, -1}, false},
		{"top", Align{0, 0, 1}, false},
		{"left", Align{-1, 0, 0}, false},
		{"top-right", Align{1, 0, 1}, false},
		{"bottom-front-left", Align{-1, -1, -1}, false},
		{"diagonal", Align{}, true},
		{"top-bottom", Align{}, true}, // same axis twice
		{"", Align{}, true},
	}
	for _, tt := range tests {
		got, err := ParseAlign(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseAlign(%q) expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAlign(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAlign(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAlignNameRoundTrip(t *testing.T) {
	for i := -1; i <= 1; i++ {
		for j := -1; j <= 1; j++ {
			for k := -1; k <= 1; k++ {
				a := Align{i, j, k}
				back, err := ParseAlign(a.Name())
				if err != nil {
					t.Fatalf("ParseAlign(%q) error: %v", a.Name(), err)
				}
				if back != a {
					t.Errorf("round trip %v -> %q -> %v", a, a.Name(), back)
				}
			}
		}
	}
}

func TestAlignValidate(t *testing.T) {
	if err := (Align{1, 0, -1}).Validate(); err != nil {
		t.Errorf("valid code rejected: %v", err)
	}
	if err := (Align{2, 0, 0}).Validate(); err == nil {
		t.Error("component 2 should be rejected")
	}
	if err := (Align{0, -3, 0}).Validate(); err == nil {
		t.Error("component -3 should be rejected")
	}
}

func TestResolveAlignCenterOverride(t *testing.T) {
	fallback := AlignMinCorner
	explicit := Align{0, 0, 1}

	tr, fa := true, false

	// Override true forces center even against an explicit alignment.
	got, err := ResolveAlign(&tr, &explicit, fallback)
	if err != nil {
		t.Fatalf("ResolveAlign error: %v", err)
	}
	if got != AlignCenter {
		t.Errorf("center=true resolved to %v, want center", got)
	}

	// Override false forces the primitive's fallback.
	got, err = ResolveAlign(&fa, &explicit, fallback)
	if err != nil {
		t.Fatalf("ResolveAlign error: %v", err)
	}
	if got != fallback {
		t.Errorf("center=false resolved to %v, want %v", got, fallback)
	}

	// No override: explicit alignment wins.
	got, err = ResolveAlign(nil, &explicit, fallback)
	if err != nil {
		t.Fatalf("ResolveAlign error: %v", err)
	}
	if got != explicit {
		t.Errorf("explicit align resolved to %v, want %v", got, explicit)
	}

	// Nothing supplied: fallback.
	got, err = ResolveAlign(nil, nil, fallback)
	if err != nil {
		t.Fatalf("ResolveAlign error: %v", err)
	}
	if got != fallback {
		t.Errorf("default resolved to %v, want %v", got, fallback)
	}

	// Out-of-domain explicit alignment is an error, not clamped.
	bad := Align{2, 0, 0}
	if _, err := ResolveAlign(nil, &bad, fallback); err == nil {
		t.Error("out-of-domain alignment should be rejected")
	}
}
