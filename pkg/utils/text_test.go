package utils

import "testing"

func TestCleanText(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"empty", "", ""},
		{"plain", "Tesla beats estimates", "Tesla beats estimates"},
		{"html tags", "<p>Strong <b>growth</b> reported</p>", "Strong growth reported"},
		{"urls stripped", "Read more at https://example.com/article today", "Read more at today"},
		{"www urls", "See www.example.com for details", "See for details"},
		{"whitespace collapsed", "too   many\n\nspaces\there", "too many spaces here"},
		{"leading trailing", "  padded  ", "padded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSafeFileKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Tesla", "Tesla"},
		{"Tesla Inc.", "Tesla_Inc_"},
		{"Reliance Industries", "Reliance_Industries"},
		{"a/b\\c:d", "a_b_c_d"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SafeFileKey(tt.in); got != tt.want {
			t.Errorf("SafeFileKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name, in string
		n        int
		want     string
	}{
		{"shorter than limit", "short", 10, "short"},
		{"exactly limit", "12345", 5, "12345"},
		{"cut with ellipsis", "1234567890", 5, "12345..."},
		{"zero limit", "anything", 0, ""},
		{"negative limit", "anything", -1, ""},
		{"multibyte runes", "नमस्ते दुनिया", 6, "नमस्ते..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.n); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}
