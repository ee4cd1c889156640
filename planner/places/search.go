// Copyright 2025 TripAI
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"tripai/backend/shared/types"
)

// MinQueryLength is the shortest query that produces suggestions.
const MinQueryLength = 2

// DefaultLimit caps result counts when the caller does not set one.
const DefaultLimit = 10

// SearchOptions filter and bound a search.
type SearchOptions struct {
	Limit       int
	CountryCode string
	Language    types.Language
}

var normChain = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases s and strips diacritics so "Đà Lạt" and "da lat"
// compare equal. đ/Đ do not decompose under NFD and are mapped explicitly.
func Normalize(s string) string {
	folded, _, err := transform.String(normChain, s)
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

// Search matches query against each place's display and ASCII names,
// case- and diacritic-insensitively. Prefix matches sort before interior
// matches; ties break by descending population. Queries shorter than
// MinQueryLength return no suggestions.
func Search(query string, candidates []types.Place, opts SearchOptions) []types.Place {
	if len([]rune(query)) < MinQueryLength {
		return nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	q := Normalize(query)

	var matched []types.Place
	for _, p := range candidates {
		if opts.CountryCode != "" && p.CountryCode != opts.CountryCode {
			continue
		}
		if strings.Contains(Normalize(p.Name), q) || strings.Contains(Normalize(p.AsciiName), q) {
			matched = append(matched, p)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		iPrefix := hasPrefixMatch(matched[i], q)
		jPrefix := hasPrefixMatch(matched[j], q)
		if iPrefix != jPrefix {
			return iPrefix
		}
		return matched[i].Population > matched[j].Population
	})

	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}

func hasPrefixMatch(p types.Place, normalizedQuery string) bool {
	return strings.HasPrefix(Normalize(p.Name), normalizedQuery) ||
		strings.HasPrefix(Normalize(p.AsciiName), normalizedQuery)
}
