package httpx

import "testing"

func TestParseCookies_JSON(t *testing.T) {
	c := ParseCookies(`{"a":"1","b":"2"}`)
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	if v, _ := c.Get("a"); v != "1" {
		t.Errorf("Get(a) = %q, want 1", v)
	}
	if v, _ := c.Get("B"); v != "2" {
		t.Errorf("Get(B) = %q, want 2 (case-insensitive)", v)
	}
}

func TestParseCookies_Pairs(t *testing.T) {
	c := ParseCookies("a=1; b=2")
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	if v, _ := c.Get("a"); v != "1" {
		t.Errorf("Get(a) = %q, want 1", v)
	}
	if v, _ := c.Get("b"); v != "2" {
		t.Errorf("Get(b) = %q, want 2", v)
	}
}

func TestParseCookies_JSONAndPairsAgree(t *testing.T) {
	fromJSON := ParseCookies(`{"a":"1","b":"2"}`)
	fromPairs := ParseCookies("a=1; b=2")

	for _, name := range []string{"a", "b"} {
		jv, jok := fromJSON.Get(name)
		pv, pok := fromPairs.Get(name)
		if !jok || !pok || jv != pv {
			t.Errorf("cookie %q differs: json=%q(%v) pairs=%q(%v)", name, jv, jok, pv, pok)
		}
	}
}

func TestParseCookies_Messy(t *testing.T) {
	c := ParseCookies("  a=1;; =x; noequals ; b = 2 ")
	if v, _ := c.Get("a"); v != "1" {
		t.Errorf("Get(a) = %q, want 1", v)
	}
	if v, _ := c.Get("b"); v != "2" {
		t.Errorf("Get(b) = %q, want 2", v)
	}
	if _, ok := c.Get("noequals"); ok {
		t.Error("segment without = should be dropped")
	}
}

func TestParseCookies_Empty(t *testing.T) {
	if c := ParseCookies("   "); c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}

func TestParseCookies_BadJSONFallsBack(t *testing.T) {
	c := ParseCookies(`{a=1; b=2}`)
	if v, ok := c.Get("{a"); !ok || v != "1" {
		t.Errorf("fallback parsing failed: %q %v", v, ok)
	}
}

func TestCookies_HeaderRoundTrip(t *testing.T) {
	original := ParseCookies(`{"Session":"abc","Token":"xyz","plain":"1"}`)
	reparsed := ParseCookies(original.Header())

	if reparsed.Len() != original.Len() {
		t.Fatalf("round trip Len = %d, want %d", reparsed.Len(), original.Len())
	}
	for _, name := range []string{"session", "TOKEN", "Plain"} {
		ov, _ := original.Get(name)
		rv, ok := reparsed.Get(name)
		if !ok || rv != ov {
			t.Errorf("round trip lost cookie %q: got %q want %q", name, rv, ov)
		}
	}
}

func TestCookies_HeaderDeterministic(t *testing.T) {
	c := ParseCookies("b=2; a=1; c=3")
	want := "a=1; b=2; c=3"
	for i := 0; i < 5; i++ {
		if got := c.Header(); got != want {
			t.Fatalf("Header() = %q, want %q", got, want)
		}
	}
}

func TestCookies_SetKeepsFirstCasing(t *testing.T) {
	c := NewCookies()
	c.Set("Token", "1")
	c.Set("TOKEN", "2")
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
	if v, _ := c.Get("token"); v != "2" {
		t.Errorf("Get(token) = %q, want 2", v)
	}
	if got := c.Header(); got != "Token=2" {
		t.Errorf("Header() = %q, want Token=2", got)
	}
}

func TestCookies_CloneIsIndependent(t *testing.T) {
	c := ParseCookies("a=1")
	clone := c.Clone()
	clone.Set("a", "changed")
	if v, _ := c.Get("a"); v != "1" {
		t.Errorf("mutating the clone changed the original: %q", v)
	}
}
