package shared

import (
	"strings"
	"testing"

	"github.com/glancelabs/quotaglance/internal/core"
)

func TestResolveBaseURL(t *testing.T) {
	if got := ResolveBaseURL(core.Credential{}, "https://api.example.com"); got != "https://api.example.com" {
		t.Errorf("default = %q", got)
	}
	if got := ResolveBaseURL(core.Credential{BaseURL: "http://127.0.0.1:9999/"}, "x"); got != "http://127.0.0.1:9999" {
		t.Errorf("override = %q", got)
	}
}

func TestErrorExcerpt(t *testing.T) {
	if got := ErrorExcerpt([]byte("  a\n\tb   c ")); got != "a b c" {
		t.Errorf("whitespace flattening = %q", got)
	}
	long := strings.Repeat("é", 400)
	got := ErrorExcerpt([]byte(long))
	if n := len([]rune(got)); n != MaxErrorExcerpt {
		t.Errorf("excerpt rune length = %d, want %d", n, MaxErrorExcerpt)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty("", "", "b", "c"); got != "b" {
		t.Errorf("got %q", got)
	}
	if got := FirstNonEmpty(); got != "" {
		t.Errorf("got %q", got)
	}
}
