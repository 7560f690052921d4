// Package search ranks cases for the list filter and companies for the
// target-scan prompt.
package search

import (
	"sort"
	"strings"

	lfuzzy "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/docketwatch/internal/domain"
	"github.com/sahilm/fuzzy"
)

// CaseMatch is a case that matched a filter query
type CaseMatch struct {
	Case  domain.Lawsuit
	Index int // position in the unfiltered list
	Score int // higher is better
}

// CaseIndex implements sahilm/fuzzy.Source over a case list
type CaseIndex struct {
	cases []domain.Lawsuit
	keys  []string // Pre-computed lowercase search keys
}

// NewCaseIndex builds an index over cases. The slice is not copied.
func NewCaseIndex(cases []domain.Lawsuit) *CaseIndex {
	keys := make([]string, len(cases))
	for i, c := range cases {
		keys[i] = searchKey(c)
	}
	return &CaseIndex{cases: cases, keys: keys}
}

// String returns the search key at index i (implements fuzzy.Source)
func (idx *CaseIndex) String(i int) string { return idx.keys[i] }

// Len returns the number of cases (implements fuzzy.Source)
func (idx *CaseIndex) Len() int { return len(idx.cases) }

// searchKey is what the list filter matches against: company first so that
// typing a company name ranks its cases highest.
func searchKey(c domain.Lawsuit) string {
	parts := []string{c.CompanyName, c.CaseName, c.DocketNumber, c.Court}
	parts = append(parts, c.Keywords...)
	return strings.ToLower(strings.Join(parts, " "))
}

// Filter returns the cases matching query, best first. An empty query
// returns every case in its original order.
func (idx *CaseIndex) Filter(query string) []CaseMatch {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		all := make([]CaseMatch, len(idx.cases))
		for i, c := range idx.cases {
			all[i] = CaseMatch{Case: c, Index: i}
		}
		return all
	}

	matches := fuzzy.FindFrom(query, idx)
	results := make([]CaseMatch, len(matches))
	for i, m := range matches {
		results[i] = CaseMatch{Case: idx.cases[m.Index], Index: m.Index, Score: m.Score}
	}
	return results
}

// Companies returns the distinct company names in cases, sorted
func Companies(cases []domain.Lawsuit) []string {
	seen := make(map[string]bool)
	var names []string
	for _, c := range cases {
		name := strings.TrimSpace(c.CompanyName)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SuggestCompanies ranks known company names against a partially typed
// target. At most limit names are returned; limit <= 0 means no limit.
func SuggestCompanies(query string, companies []string, limit int) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	ranks := lfuzzy.RankFindFold(query, companies)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})

	if limit > 0 && len(ranks) > limit {
		ranks = ranks[:limit]
	}
	names := make([]string, len(ranks))
	for i, r := range ranks {
		names[i] = r.Target
	}
	return names
}
