package geocoding

import "testing"

func TestParseBBox(t *testing.T) {
	b, err := ParseBBox("78.2,17.2,78.7,17.6")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if b.MinLng != 78.2 || b.MaxLat != 17.6 {
		t.Fatalf("unexpected bbox %+v", b)
	}
	if b.String() != "78.2,17.2,78.7,17.6" {
		t.Fatalf("string = %q", b.String())
	}

	if b, err := ParseBBox(" "); err != nil || b != nil {
		t.Fatalf("empty should be nil, got %v %v", b, err)
	}
	for _, raw := range []string{"1,2,3", "a,b,c,d", "78.7,17.2,78.2,17.6"} {
		if _, err := ParseBBox(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
