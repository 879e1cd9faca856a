package theme

import "testing"

func TestByNameFallsBack(t *testing.T) {
	if got := ByName("no-such-theme").Name; got != FlexokiDark.Name {
		t.Fatalf("ByName fallback = %q", got)
	}
	for _, name := range Names() {
		if ByName(name).Name != name {
			t.Errorf("ByName(%q) did not round trip", name)
		}
	}
}

func TestSetActive(t *testing.T) {
	defer SetActive(FlexokiDark.Name)
	SetActive("terminal")
	if Active.Name != "terminal" {
		t.Fatalf("Active = %q", Active.Name)
	}
}
