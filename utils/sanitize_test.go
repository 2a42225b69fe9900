package utils

import (
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"movie.mp4", "movie.mp4"},
		{"../../etc/passwd", "passwd"},
		{"my file (1).pdf", "my_file__1_.pdf"},
		{"", "unnamed"},
		{"...", "..."},
	}
	for _, tc := range cases {
		if got := SanitizeFilename(tc.in); got != tc.want {
			t.Fatalf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeFilenameTruncates(t *testing.T) {
	long := strings.Repeat("a", 300) + ".bin"
	got := SanitizeFilename(long)
	if len(got) > 255 {
		t.Fatalf("sanitized name length %d exceeds 255", len(got))
	}
}

func TestSanitizeHeaderFilename(t *testing.T) {
	got := SanitizeHeaderFilename("evil\r\nname\".txt")
	if strings.ContainsAny(got, "\r\n\"") {
		t.Fatalf("header-breaking characters survived: %q", got)
	}
	if SanitizeHeaderFilename("  ") != "download" {
		t.Fatal("blank name not defaulted")
	}
}
