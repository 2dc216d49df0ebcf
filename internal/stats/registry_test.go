package stats

import (
	"strings"
	"testing"
)

func TestTemplateAndDescriptorsAgree(t *testing.T) {
	var flattened []string
	for _, cat := range Template() {
		for _, m := range cat.Metrics {
			flattened = append(flattened, m.Name)
		}
	}
	descs := Descriptors()
	if len(flattened) != len(descs) {
		t.Fatalf("template has %d metrics, descriptors %d", len(flattened), len(descs))
	}
	for i, d := range descs {
		if d.Name != flattened[i] {
			t.Errorf("descriptor %d = %q, template order gives %q", i, d.Name, flattened[i])
		}
	}
}

func TestFlatNamesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, d := range Descriptors() {
		if seen[d.Name] {
			t.Errorf("duplicate metric name %q", d.Name)
		}
		seen[d.Name] = true
	}
}

func TestFlatNamePrefixing(t *testing.T) {
	for _, cat := range Template() {
		for _, m := range cat.Metrics {
			if cat.Name == "General" {
				if m.Name != m.Label {
					t.Errorf("General metric %q should keep its bare label", m.Name)
				}
				continue
			}
			if !strings.HasPrefix(m.Name, cat.Name+" ") {
				t.Errorf("metric %q should be prefixed with its category %q", m.Name, cat.Name)
			}
		}
	}
}

func TestLookup(t *testing.T) {
	rec := &Record{GuildExperience: 42, BedWars: ModeStats{Kills: 7}}

	d, ok := Lookup("Guild Experience")
	if !ok {
		t.Fatal("Guild Experience should exist")
	}
	if got := d.Extract(rec); got != 42 {
		t.Errorf("Guild Experience extract = %v", got)
	}

	d, ok = Lookup("Bed Wars Kills")
	if !ok {
		t.Fatal("Bed Wars Kills should exist")
	}
	if got := d.Extract(rec); got != 7 {
		t.Errorf("Bed Wars Kills extract = %v", got)
	}

	if _, ok := Lookup("No Such Metric"); ok {
		t.Error("unknown names should miss, not panic")
	}
}
