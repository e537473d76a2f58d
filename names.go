package main

import (
	"strings"

	"github.com/jerrinot/jfrview/internal/jfr"
	"github.com/jerrinot/jfrview/internal/symbol"
)

// shortName reduces a method to "App.process".
func shortName(m jfr.Method) string {
	if m.Class.Name == "" {
		return m.Name
	}
	return symbol.Short(m.Class.Name + "." + m.Name)
}

// fullName renders "com.example.App.process".
func fullName(m jfr.Method) string {
	if m.Class.Name == "" {
		return m.Name
	}
	return m.Class.PrettyName() + "." + m.Name
}

func displayName(m jfr.Method, fqn bool) string {
	if fqn {
		return fullName(m)
	}
	return shortName(m)
}

func matchesMethod(m jfr.Method, pattern string) bool {
	return strings.Contains(fullName(m), pattern) || strings.Contains(shortName(m), pattern)
}

// nameCache memoizes display names for one command run.
type nameCache struct {
	fqn   bool
	names map[jfr.Method]string
}

func newNameCache(fqn bool) *nameCache {
	return &nameCache{fqn: fqn, names: make(map[jfr.Method]string)}
}

func (c *nameCache) name(m jfr.Method) string {
	if s, ok := c.names[m]; ok {
		return s
	}
	s := displayName(m, c.fqn)
	c.names[m] = s
	return s
}

func truncate(n, top int) int {
	if top > 0 && top < n {
		return top
	}
	return n
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100.0 * float64(n) / float64(total)
}
