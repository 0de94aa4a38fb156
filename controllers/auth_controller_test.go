package controllers

import (
	"testing"

	config "github.com/penielchurch/site-backend/config"
)

func testCfg() *config.Config {
	return &config.Config{
		AdminUsername:   "9000012512",
		ManagerUsername: "peniel team",
		AdminEmail:      "admin@peniel.church",
		ManagerEmail:    "manager@peniel.church",
	}
}

func TestResolveLoginEmail(t *testing.T) {
	cfg := testCfg()

	cases := []struct {
		input string
		want  string
		ok    bool
	}{
		{"someone@example.org", "someone@example.org", true},
		{"  someone@example.org  ", "someone@example.org", true},
		{"9000012512", "admin@peniel.church", true},
		{"peniel team", "manager@peniel.church", true},
		{"Peniel Team", "manager@peniel.church", true},
		{"admin", "admin@peniel.church", true},
		{"ADMIN", "admin@peniel.church", true},
		{"stranger", "", false},
		{"", "", false},
		{"90000", "", false},
	}

	for _, tc := range cases {
		got, ok := ResolveLoginEmail(cfg, tc.input)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ResolveLoginEmail(%q) = (%q, %v), want (%q, %v)", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}
