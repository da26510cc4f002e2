package parsers

import (
	"net/http"
	"testing"
)

func TestFloat(t *testing.T) {
	if v := Float(" 42.5 "); v == nil || *v != 42.5 {
		t.Errorf("Float(42.5) = %v", v)
	}
	if v := Float("abc"); v != nil {
		t.Errorf("Float(abc) should be nil, got %v", *v)
	}
	if v := Float(""); v != nil {
		t.Errorf("Float empty should be nil")
	}
}

func TestInt(t *testing.T) {
	if v := Int("1700000000"); v == nil || *v != 1700000000 {
		t.Errorf("Int = %v", v)
	}
	if v := Int("3.5"); v != nil {
		t.Errorf("fractional string should be nil, got %v", *v)
	}
}

func TestBool(t *testing.T) {
	for _, s := range []string{"true", "TRUE", "1", " True "} {
		if !Bool(s) {
			t.Errorf("Bool(%q) = false", s)
		}
	}
	for _, s := range []string{"", "false", "yes", "0"} {
		if Bool(s) {
			t.Errorf("Bool(%q) = true", s)
		}
	}
}

func TestHeaderHelpers(t *testing.T) {
	h := http.Header{}
	h.Set("x-codex-primary-used-percent", "42.5")
	h.Set("x-codex-primary-window-minutes", "300")

	if v := HeaderFloat(h, "x-codex-primary-used-percent"); v == nil || *v != 42.5 {
		t.Errorf("HeaderFloat = %v", v)
	}
	if v := HeaderInt(h, "x-codex-primary-window-minutes"); v == nil || *v != 300 {
		t.Errorf("HeaderInt = %v", v)
	}
	if v := HeaderFloat(h, "x-codex-missing"); v != nil {
		t.Errorf("missing header should be nil")
	}
}
