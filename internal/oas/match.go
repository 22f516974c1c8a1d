// internal/oas/match.go
package oas

import (
	"regexp"
	"strings"
	"sync"
)

// Compiled glob patterns are cached since rule targets repeat across every
// request record they are matched against.
var (
	globCacheMu sync.RWMutex
	globCache   = make(map[string]*regexp.Regexp)
)

// SplitRef splits a "METHOD::/path" reference into its parts.
func SplitRef(ref string) (method, path string, ok bool) {
	parts := strings.SplitN(ref, "::", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// MatchRef reports whether a path reference pattern matches ref. Both use
// the "METHOD::/path" form. The method part may be "*", and the path part
// supports "*" within a segment and "**" across segments. A pattern that is
// not a path reference only matches by exact equality.
func MatchRef(pattern, ref string) bool {
	pMethod, pPath, okPattern := SplitRef(pattern)
	rMethod, rPath, okRef := SplitRef(ref)
	if !okPattern || !okRef {
		return pattern == ref
	}
	if pMethod != "*" && !strings.EqualFold(pMethod, rMethod) {
		return false
	}
	return MatchGlob(pPath, rPath)
}

// MatchGlob matches value against a glob where "*" spans within a path
// segment and "**" spans across segments. Patterns without wildcards
// compare by equality.
func MatchGlob(pattern, value string) bool {
	if !strings.Contains(pattern, "*") {
		return pattern == value
	}
	return globRegexp(pattern).MatchString(value)
}

func globRegexp(pattern string) *regexp.Regexp {
	globCacheMu.RLock()
	re, ok := globCache[pattern]
	globCacheMu.RUnlock()
	if ok {
		return re
	}

	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '*' {
			b.WriteString(regexp.QuoteMeta(string(pattern[i])))
			continue
		}
		if i+1 < len(pattern) && pattern[i+1] == '*' {
			b.WriteString(".*")
			i++
		} else {
			b.WriteString("[^/]*")
		}
	}
	b.WriteString("$")
	re = regexp.MustCompile(b.String())

	globCacheMu.Lock()
	globCache[pattern] = re
	globCacheMu.Unlock()
	return re
}
