package validate_test

import (
	"strings"
	"testing"

	"lapak/internal/validate"
)

func TestEmail(t *testing.T) {
	good := []string{"a@b.co", "dewi.putri+tag@example.com", "  padded@example.com  "}
	for _, in := range good {
		if _, ok := validate.Email(in); !ok {
			t.Errorf("Email(%q) rejected", in)
		}
	}
	bad := []string{"", "plain", "a@b", "@example.com", "a b@example.com",
		strings.Repeat("x", 80) + "@example.com"}
	for _, in := range bad {
		if _, ok := validate.Email(in); ok {
			t.Errorf("Email(%q) accepted", in)
		}
	}
	if s, _ := validate.Email("  dewi@example.com "); s != "dewi@example.com" {
		t.Errorf("Email did not trim: %q", s)
	}
}

func TestName(t *testing.T) {
	if _, ok := validate.Name("Dewi Putri"); !ok {
		t.Error("plain name rejected")
	}
	if _, ok := validate.Name("   "); ok {
		t.Error("blank name accepted")
	}
	if _, ok := validate.Name(strings.Repeat("n", 61)); ok {
		t.Error("oversized name accepted")
	}
}

func TestID(t *testing.T) {
	for _, in := range []string{"prod-case", "a1B2_c3", "550e8400-e29b-41d4-a716-446655440000"} {
		if _, ok := validate.ID(in); !ok {
			t.Errorf("ID(%q) rejected", in)
		}
	}
	for _, in := range []string{"", "has space", "semi;colon", strings.Repeat("a", 65)} {
		if _, ok := validate.ID(in); ok {
			t.Errorf("ID(%q) accepted", in)
		}
	}
}

func TestPassword(t *testing.T) {
	if !validate.Password("Str0ngPass") {
		t.Error("valid password rejected")
	}
	for _, in := range []string{"short1A", "alllowercase1", "ALLUPPER1", "NoDigitsHere",
		strings.Repeat("aA1", 22)} {
		if validate.Password(in) {
			t.Errorf("Password(%q) accepted", in)
		}
	}
}
