// Package symbol turns raw JVM internal class names into display names.
package symbol

import "strings"

// Pretty converts "com/example/Foo" into "com.example.Foo".
func Pretty(raw string) string {
	return strings.ReplaceAll(raw, "/", ".")
}

// Abbreviate keeps the last path segment and reduces every other segment to its
// first character: "com/example/Foo" becomes "c/e/Foo".
func Abbreviate(raw string) string {
	last := strings.LastIndexByte(raw, '/')
	if last < 0 {
		return raw
	}
	var b strings.Builder
	b.Grow(len(raw))
	start := 0
	for start <= last {
		end := strings.IndexByte(raw[start:], '/') + start
		if end > start {
			b.WriteByte(raw[start])
		}
		b.WriteByte('/')
		start = end + 1
	}
	b.WriteString(raw[last+1:])
	return b.String()
}

// Short reduces a frame name to "Class.method".
//
//	"com/example/App.process" → "App.process"
//	"com.example.App.process" → "App.process"
func Short(frame string) string {
	base := Pretty(frame)
	parts := strings.Split(base, ".")
	if len(parts) >= 2 {
		return parts[len(parts)-2] + "." + parts[len(parts)-1]
	}
	return base
}

// Cache memoizes normalized class names for the lifetime of one aggregation
// pass. It is not safe for concurrent use.
type Cache struct {
	pretty map[string]string
	abbrev map[string]string
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{
		pretty: make(map[string]string),
		abbrev: make(map[string]string),
	}
}

// Pretty is the memoized form of the package-level Pretty.
func (c *Cache) Pretty(raw string) string {
	if s, ok := c.pretty[raw]; ok {
		return s
	}
	s := Pretty(raw)
	c.pretty[raw] = s
	return s
}

// Abbreviated is the memoized form of Abbreviate.
func (c *Cache) Abbreviated(raw string) string {
	if s, ok := c.abbrev[raw]; ok {
		return s
	}
	s := Abbreviate(raw)
	c.abbrev[raw] = s
	return s
}

// Len reports how many distinct raw names have been normalized to pretty form.
func (c *Cache) Len() int { return len(c.pretty) }
