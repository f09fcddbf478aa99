package main

import "testing"

func TestIsCLIMode(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{nil, false},
		{[]string{"sccompanion://open/ship"}, false},
		{[]string{"C:\\Games\\profile.json"}, false},
		{[]string{"version"}, false},
		{[]string{"config", "show"}, false},
		{[]string{"-x"}, false},
		{[]string{"--help"}, false},
		{[]string{"sccompanion://x", "--cli"}, false},
		{[]string{"--cli"}, true},
		{[]string{"--cli", "locate"}, true},
		{[]string{"--cli", "--debug", "config", "show"}, true},
	}

	for _, tt := range tests {
		if got := isCLIMode(tt.args); got != tt.want {
			t.Errorf("isCLIMode(%q) = %v, want %v", tt.args, got, tt.want)
		}
	}
}
