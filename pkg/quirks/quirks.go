// Package quirks isolates the browser-behaviour heuristics the geometry
// pipeline depends on. They are derived from a user-agent string once and
// then carried around as immutable configuration.
package quirks

import (
	"os"
	"regexp"
	"strings"
	"sync"
)

// Profile is the set of platform quirks that affect geometry.
type Profile struct {
	// UserAgent is the string the profile was derived from.
	UserAgent string
	// Firefox treats filter and will-change: filter as establishing a
	// containing block for fixed descendants.
	Firefox bool
	// LayoutViewport is false on browsers (Safari) whose visual viewport
	// offsets are not folded into fixed-position client rects.
	LayoutViewport bool
}

// Brand is one entry of a structured user-agent brand list.
type Brand struct {
	Brand   string
	Version string
}

var (
	firefoxRe = regexp.MustCompile(`(?i)firefox`)
	// Safari advertises "Safari" but so do Chrome and Android WebView.
	safariRe    = regexp.MustCompile(`(?i)safari`)
	notSafariRe = regexp.MustCompile(`(?i)chrome|android`)
)

// Detect derives a Profile from a user-agent string.
func Detect(userAgent string) Profile {
	return Profile{
		UserAgent:      userAgent,
		Firefox:        firefoxRe.MatchString(userAgent),
		LayoutViewport: !isSafari(userAgent),
	}
}

// DetectBrands derives a Profile from a brand list, joining entries as
// "brand/version" the way structured client hints are flattened.
func DetectBrands(brands []Brand) Profile {
	parts := make([]string, 0, len(brands))
	for _, b := range brands {
		parts = append(parts, b.Brand+"/"+b.Version)
	}
	return Detect(strings.Join(parts, " "))
}

// isSafari matches "safari" only when no "chrome" or "android" precedes it.
func isSafari(ua string) bool {
	loc := safariRe.FindStringIndex(ua)
	if loc == nil {
		return false
	}
	return !notSafariRe.MatchString(ua[:loc[0]])
}

// Headless is the profile of a layout-viewport, non-Firefox engine. It is
// what the headless platform uses when nothing else is configured.
var Headless = Profile{UserAgent: "tether-headless", LayoutViewport: true}

var (
	processOnce    sync.Once
	processProfile Profile
	processUA      = func() string { return os.Getenv("TETHER_USER_AGENT") }
)

// Process returns the process-wide profile. It is computed on first use
// from the configured user agent (SetProcessUserAgent) or TETHER_USER_AGENT,
// falling back to Headless, and never changes afterwards.
func Process() Profile {
	processOnce.Do(func() {
		ua := processUA()
		if ua == "" {
			processProfile = Headless
			return
		}
		processProfile = Detect(ua)
	})
	return processProfile
}

// SetProcessUserAgent configures the user agent Process derives from. It has
// no effect once Process has been called.
func SetProcessUserAgent(ua string) {
	if ua == "" {
		return
	}
	processUA = func() string { return ua }
}
