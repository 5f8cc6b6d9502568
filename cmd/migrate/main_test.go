package main

import "testing"

func TestDescriptionFromFilename(t *testing.T) {
	cases := map[string]string{
		"2026-10-19-001-create-migrations.sql":       "create migrations",
		"2026-10-19-004-create-plans.sql":            "create plans",
		"2026-10-19-003-create-user-preferences.sql": "create user preferences",
		"adhoc-fix.sql":                              "adhoc fix",
	}
	for in, want := range cases {
		if got := descriptionFromFilename(in); got != want {
			t.Errorf("descriptionFromFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
