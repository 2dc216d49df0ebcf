package hypixel

import (
	"testing"

	"github.com/tidwall/gjson"
)

func TestRankPrefix(t *testing.T) {
	cases := []struct {
		name       string
		doc        string
		wantPrefix string
		wantColor  int
	}{
		{"custom prefix wins", `{"prefix": "§c[OWNER]", "rank": "ADMIN"}`, "[OWNER]", 0xAAAAAA},
		{"staff rank", `{"rank": "ADMIN"}`, "[ADMIN]", 0xFF5555},
		{"monthly rank", `{"rank": "NORMAL", "monthlyPackageRank": "SUPERSTAR"}`, "[MVP++]", 0xFFAA00},
		{"package rank", `{"monthlyPackageRank": "NONE", "newPackageRank": "MVP_PLUS"}`, "[MVP+]", 0x55FFFF},
		{"no rank", `{}`, "", 0xAAAAAA},
	}
	for _, tc := range cases {
		prefix, color := rankPrefix(gjson.Parse(tc.doc))
		if prefix != tc.wantPrefix || color != tc.wantColor {
			t.Errorf("%s: got (%q, %#x), want (%q, %#x)", tc.name, prefix, color, tc.wantPrefix, tc.wantColor)
		}
	}
}

func TestStripColorCodes(t *testing.T) {
	cases := map[string]string{
		"§c[OWNER]":      "[OWNER]",
		"plain":          "plain",
		"§a§lBOLD§r tag": "BOLD tag",
		"§":              "",
	}
	for in, want := range cases {
		if got := stripColorCodes(in); got != want {
			t.Errorf("stripColorCodes(%q) = %q, want %q", in, got, want)
		}
	}
}
