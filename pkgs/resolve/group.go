package resolve

import "github.com/aledsdavies/clh/pkgs/grammar"

// GroupKind says how a render node came together
type GroupKind int

const (
	GroupSingle GroupKind = iota // one standalone token
	GroupPath                    // consecutive path tokens
	GroupValue                   // consecutive slices of one argument
)

// Group is one render node over a run of tokens
type Group struct {
	Kind   GroupKind
	Tokens []grammar.Token
}

// GroupTokens coalesces a flat token list in one left-to-right pass: consecutive path tokens
// form one path group, consecutive sliced tokens of the same argument form one value group, and
// every other token stands alone.
func GroupTokens(tokens []grammar.Token) []Group {
	var groups []Group
	for _, token := range tokens {
		var last *Group
		if len(groups) > 0 {
			last = &groups[len(groups)-1]
		}

		switch {
		case token.Kind == grammar.TokenPath:
			if last != nil && last.Kind == GroupPath {
				last.Tokens = append(last.Tokens, token)
				continue
			}
			groups = append(groups, Group{Kind: GroupPath, Tokens: []grammar.Token{token}})
		case token.Sliced():
			if last != nil && last.Kind == GroupValue && last.Tokens[0].Index == token.Index {
				last.Tokens = append(last.Tokens, token)
				continue
			}
			groups = append(groups, Group{Kind: GroupValue, Tokens: []grammar.Token{token}})
		default:
			groups = append(groups, Group{Kind: GroupSingle, Tokens: []grammar.Token{token}})
		}
	}
	return groups
}
