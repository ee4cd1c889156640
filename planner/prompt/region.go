// Copyright 2025 TripAI
// SPDX-License-Identifier: Apache-2.0

// Package prompt assembles the natural-language instructions sent to the
// generative-AI endpoint. All functions are pure and total: no network
// access, and unrecognized inputs fall back to defaults instead of failing.
package prompt

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RegionDefault is the sentinel returned when no region rule matches.
const RegionDefault = "Asia-Pacific"

// regionRule maps a keyword set to a region name. Rules are ordered;
// the first match wins.
type regionRule struct {
	keywords []string
	region   string
}

// Keywords are stored diacritic-folded and lowercased so that both
// "Hà Nội" and "ha noi" match. This is a coarse heuristic used only to
// bias prompt wording and the flying heuristic, not real geography.
var regionRules = []regionRule{
	{[]string{"vietnam", "viet", "ha noi", "ho chi minh", "da nang", "da lat", "nha trang", "hue"}, "Vietnam"},
	{[]string{"thailand", "bangkok", "phuket", "chiang mai"}, "Thailand"},
	{[]string{"japan", "tokyo", "osaka", "kyoto", "hokkaido"}, "Japan"},
	{[]string{"korea", "seoul", "busan", "jeju"}, "South Korea"},
	{[]string{"singapore"}, "Singapore"},
	{[]string{"malaysia", "kuala lumpur", "penang"}, "Malaysia"},
	{[]string{"indonesia", "bali", "jakarta"}, "Indonesia"},
	{[]string{"australia", "sydney", "melbourne", "brisbane"}, "Australia"},
	{[]string{"new zealand", "auckland", "wellington"}, "New Zealand"},
	{[]string{"china", "beijing", "shanghai", "hong kong"}, "China"},
	{[]string{"india", "mumbai", "delhi", "bangalore"}, "India"},
	{[]string{"philippines", "manila", "cebu"}, "Philippines"},
	{[]string{"cambodia", "phnom penh", "siem reap"}, "Cambodia"},
	{[]string{"laos", "vientiane", "luang prabang"}, "Laos"},
	{[]string{"myanmar", "yangon", "mandalay"}, "Myanmar"},
}

var foldChain = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s and strips combining diacritical marks. The Vietnamese
// đ/Đ do not decompose under NFD and are mapped explicitly.
func Fold(s string) string {
	folded, _, err := transform.String(foldChain, s)
	if err != nil {
		folded = s
	}
	folded = strings.Map(func(r rune) rune {
		switch r {
		case 'đ':
			return 'd'
		case 'Đ':
			return 'D'
		}
		return r
	}, folded)
	return strings.ToLower(folded)
}

// DetectRegion assigns a coarse region to an origin/destination pair by
// keyword matching. The first matching rule wins; the default sentinel is
// returned when nothing matches.
func DetectRegion(origin, destination string) string {
	text := Fold(origin + " " + destination)

	for _, rule := range regionRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.region
			}
		}
	}

	return RegionDefault
}

// Region pairs reachable overland. Both orderings are listed so lookups
// stay a single map hit.
var landConnected = map[string]bool{
	// Southeast Asia mainland
	"Vietnam-Thailand":   true,
	"Thailand-Vietnam":   true,
	"Vietnam-Cambodia":   true,
	"Cambodia-Vietnam":   true,
	"Vietnam-Laos":       true,
	"Laos-Vietnam":       true,
	"Thailand-Cambodia":  true,
	"Cambodia-Thailand":  true,
	"Thailand-Laos":      true,
	"Laos-Thailand":      true,
	"Thailand-Myanmar":   true,
	"Myanmar-Thailand":   true,
	"Thailand-Malaysia":  true,
	"Malaysia-Thailand":  true,
	"Malaysia-Singapore": true,
	"Singapore-Malaysia": true,
	// China land borders
	"Vietnam-China": true,
	"China-Vietnam": true,
	"Laos-China":    true,
	"China-Laos":    true,
	"Myanmar-China": true,
	"China-Myanmar": true,
}

var islandRegions = map[string]bool{
	"Japan":       true,
	"South Korea": true,
	"Philippines": true,
	"Indonesia":   true,
	"Australia":   true,
	"New Zealand": true,
	"Singapore":   true,
}

var asiaPacificRegions = map[string]bool{
	"Vietnam": true, "Thailand": true, "Cambodia": true, "Laos": true,
	"Myanmar": true, "Malaysia": true, "Singapore": true, "Indonesia": true,
	"Philippines": true, "China": true, "Japan": true, "South Korea": true,
	"India": true,
}

var oceaniaRegions = map[string]bool{
	"Australia": true, "New Zealand": true,
}

// RequiresFlying reports whether a trip between the two endpoints cannot
// reasonably be done by ground transport. This is a heuristic over the
// region tables above, not authoritative geography.
func RequiresFlying(origin, destination string) bool {
	originRegion := DetectRegion(origin, "")
	destRegion := DetectRegion("", destination)

	// Same region is always driveable.
	if originRegion == destRegion {
		return false
	}

	if landConnected[originRegion+"-"+destRegion] {
		return false
	}

	// Island endpoints need a flight, except across the causeway.
	if islandRegions[originRegion] || islandRegions[destRegion] {
		if (originRegion == "Singapore" && destRegion == "Malaysia") ||
			(originRegion == "Malaysia" && destRegion == "Singapore") {
			return false
		}
		return true
	}

	// Cross-continent between Asia-Pacific and Oceania.
	if (asiaPacificRegions[originRegion] && oceaniaRegions[destRegion]) ||
		(oceaniaRegions[originRegion] && asiaPacificRegions[destRegion]) {
		return true
	}

	return originRegion != destRegion &&
		originRegion != RegionDefault && destRegion != RegionDefault
}
