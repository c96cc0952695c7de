package httpx

import (
	"encoding/json"
	"sort"
	"strings"
)

type cookie struct {
	name  string
	value string
}

// Cookies is a case-insensitive cookie set. Lookups ignore name casing;
// the first-seen casing is kept for building the header.
type Cookies struct {
	items map[string]cookie
}

func NewCookies() Cookies {
	return Cookies{items: make(map[string]cookie)}
}

// ParseCookies accepts either a JSON object of name/value pairs or a
// "name=value; name2=value2" header-style string.
func ParseCookies(input string) Cookies {
	c := NewCookies()
	input = strings.TrimSpace(input)
	if input == "" {
		return c
	}

	if strings.HasPrefix(input, "{") && strings.HasSuffix(input, "}") {
		var pairs map[string]string
		if err := json.Unmarshal([]byte(input), &pairs); err == nil {
			for name, value := range pairs {
				c.Set(name, value)
			}
			return c
		}
		// fall through to semicolon parsing
	}

	for _, segment := range strings.Split(input, ";") {
		name, value, ok := strings.Cut(segment, "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		c.Set(name, strings.TrimSpace(value))
	}
	return c
}

func (c Cookies) Set(name, value string) {
	key := strings.ToLower(name)
	if existing, ok := c.items[key]; ok {
		// keep the first-seen casing
		c.items[key] = cookie{name: existing.name, value: value}
		return
	}
	c.items[key] = cookie{name: name, value: value}
}

func (c Cookies) Get(name string) (string, bool) {
	item, ok := c.items[strings.ToLower(name)]
	if !ok {
		return "", false
	}
	return item.value, true
}

func (c Cookies) Len() int {
	return len(c.items)
}

// Clone returns an independent copy. Each transport instance holds its own
// copy so the set is never mutated concurrently.
func (c Cookies) Clone() Cookies {
	out := NewCookies()
	for key, item := range c.items {
		out.items[key] = item
	}
	return out
}

// Header joins the set into a Cookie header value. The order is sorted by
// normalized name so the output is deterministic and re-parseable.
func (c Cookies) Header() string {
	keys := make([]string, 0, len(c.items))
	for key := range c.items {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		item := c.items[key]
		parts = append(parts, item.name+"="+item.value)
	}
	return strings.Join(parts, "; ")
}
