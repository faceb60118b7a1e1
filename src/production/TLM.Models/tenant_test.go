package tlmmodels

import "testing"

func TestValidSlug(t *testing.T) {
	valid := []string{"acme", "cold-chain-2", "a", "0", "x-y-z"}
	for _, s := range valid {
		if !ValidSlug(s) {
			t.Errorf("ValidSlug(%q) = false, want true", s)
		}
	}

	invalid := []string{
		"",
		"Acme",
		"acme corp",
		"acme_corp",
		"acme.corp",
		"tenant; DROP SCHEMA public",
		`acme"`,
		"açaí",
	}
	for _, s := range invalid {
		if ValidSlug(s) {
			t.Errorf("ValidSlug(%q) = true, want false", s)
		}
	}
}
