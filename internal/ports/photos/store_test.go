package photos

import (
	"strings"
	"testing"
)

func TestObjectKey(t *testing.T) {
	k := ObjectKey("user/../1", "Road.JPG")
	if !strings.HasPrefix(k, "grievance-photos/user1_") {
		t.Fatalf("unexpected prefix %q", k)
	}
	if !strings.HasSuffix(k, ".jpg") {
		t.Fatalf("extension should be kept lower-case: %q", k)
	}
	if ObjectKey("u", "a.jpg") == ObjectKey("u", "a.jpg") {
		t.Fatalf("keys must be unique")
	}
	if k := ObjectKey("", "noext"); !strings.HasPrefix(k, "grievance-photos/anonymous_") || strings.Contains(k[len("grievance-photos/"):], ".") {
		t.Fatalf("unexpected key %q", k)
	}
	if k := ObjectKey("u", "evil.p?hp"); strings.Contains(k, "?") {
		t.Fatalf("unsafe extension leaked: %q", k)
	}
}
