package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"already e164", "+919876543210", "+919876543210"},
		{"national format", "098765 43210", "+919876543210"},
		{"whitespace trimmed", "  +919876543210  ", "+919876543210"},
		{"empty", "", ""},
		{"garbage passes through", "call me maybe", "call me maybe"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeE164(tc.input); got != tc.want {
				t.Errorf("NormalizeE164(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
