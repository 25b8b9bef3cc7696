package queries

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/bugsdev/bugs/internal/types"
)

// suggestLimit caps how many near-miss tags a suggestion returns.
const suggestLimit = 5

// maxTagDistance is the largest Levenshtein distance still offered as a
// typo correction.
const maxTagDistance = 2

// AllTags returns the distinct tags across the given issues, sorted.
func AllTags(issues []*types.Issue) []string {
	seen := map[string]bool{}
	var tags []string
	for _, issue := range issues {
		for _, tag := range issue.Tags {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	sort.Strings(tags)
	return tags
}

// SuggestTags proposes existing tags near a term that matched nothing.
// Typo corrections (small edit distance) come first, then subsequence
// matches ("auth" also surfaces "oauth"). Matching is case-insensitive.
func SuggestTags(term string, candidates []string) []string {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" || len(candidates) == 0 {
		return nil
	}

	type scored struct {
		tag  string
		dist int
	}
	var near []scored
	for _, tag := range candidates {
		dist := levenshtein.ComputeDistance(term, strings.ToLower(tag))
		if dist <= maxTagDistance {
			near = append(near, scored{tag: tag, dist: dist})
		}
	}
	sort.Slice(near, func(i, j int) bool {
		if near[i].dist != near[j].dist {
			return near[i].dist < near[j].dist
		}
		return near[i].tag < near[j].tag
	})

	var out []string
	seen := map[string]bool{}
	for _, s := range near {
		if len(out) == suggestLimit {
			return out
		}
		out = append(out, s.tag)
		seen[s.tag] = true
	}
	for _, tag := range candidates {
		if len(out) == suggestLimit {
			break
		}
		if !seen[tag] && fuzzy.MatchFold(term, tag) {
			out = append(out, tag)
		}
	}
	return out
}
