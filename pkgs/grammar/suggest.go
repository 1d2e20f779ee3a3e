package grammar

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxEditDistance bounds typo suggestions that are not subsequence matches
const maxEditDistance = 2

// Suggest returns up to limit command paths close to the given text, best first
func (g *Grammar) Suggest(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" || limit <= 0 {
		return nil
	}

	var paths []string
	for _, cmd := range g.Commands() {
		if cmd.Hidden {
			continue
		}
		paths = append(paths, strings.Join(g.specs[cmd].Path, " "))
	}

	ranks := fuzzy.RankFindFold(text, paths)
	sort.Sort(ranks)

	seen := make(map[string]bool)
	var out []string
	for _, rank := range ranks {
		out = append(out, rank.Target)
		seen[rank.Target] = true
	}

	// Transpositions and substitutions are not subsequences; fall back to edit distance
	type near struct {
		path string
		dist int
	}
	var typos []near
	for _, path := range paths {
		if seen[path] {
			continue
		}
		if d := fuzzy.LevenshteinDistance(strings.ToLower(text), path); d <= maxEditDistance {
			typos = append(typos, near{path, d})
		}
	}
	sort.SliceStable(typos, func(i, j int) bool { return typos[i].dist < typos[j].dist })
	for _, typo := range typos {
		out = append(out, typo.path)
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
