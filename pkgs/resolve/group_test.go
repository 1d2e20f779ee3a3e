package resolve

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aledsdavies/clh/pkgs/grammar"
)

func tok(kind grammar.TokenKind, index int) grammar.Token {
	return grammar.Token{Kind: kind, Index: index}
}

func slice(kind grammar.TokenKind, index, start, end int) grammar.Token {
	return grammar.Token{Kind: kind, Index: index, Slice: &grammar.Slice{Start: start, End: end}}
}

func TestGroupTokens(t *testing.T) {
	tests := []struct {
		name   string
		tokens []grammar.Token
		want   []Group
	}{
		{
			name: "empty",
		},
		{
			name:   "consecutive paths merge",
			tokens: []grammar.Token{tok(grammar.TokenPath, 0), tok(grammar.TokenPath, 1), tok(grammar.TokenPositional, 2)},
			want: []Group{
				{GroupPath, []grammar.Token{tok(grammar.TokenPath, 0), tok(grammar.TokenPath, 1)}},
				{GroupSingle, []grammar.Token{tok(grammar.TokenPositional, 2)}},
			},
		},
		{
			name: "slices of one argument merge",
			tokens: []grammar.Token{
				tok(grammar.TokenPath, 0),
				slice(grammar.TokenOption, 1, 0, 6),
				slice(grammar.TokenAssign, 1, 6, 7),
				slice(grammar.TokenValue, 1, 7, 17),
				tok(grammar.TokenPositional, 2),
			},
			want: []Group{
				{GroupPath, []grammar.Token{tok(grammar.TokenPath, 0)}},
				{GroupValue, []grammar.Token{
					slice(grammar.TokenOption, 1, 0, 6),
					slice(grammar.TokenAssign, 1, 6, 7),
					slice(grammar.TokenValue, 1, 7, 17),
				}},
				{GroupSingle, []grammar.Token{tok(grammar.TokenPositional, 2)}},
			},
		},
		{
			name: "slices of different arguments split",
			tokens: []grammar.Token{
				slice(grammar.TokenOption, 1, 0, 2),
				slice(grammar.TokenOption, 1, 2, 3),
				slice(grammar.TokenOption, 2, 0, 2),
				slice(grammar.TokenValue, 2, 2, 3),
			},
			want: []Group{
				{GroupValue, []grammar.Token{slice(grammar.TokenOption, 1, 0, 2), slice(grammar.TokenOption, 1, 2, 3)}},
				{GroupValue, []grammar.Token{slice(grammar.TokenOption, 2, 0, 2), slice(grammar.TokenValue, 2, 2, 3)}},
			},
		},
		{
			name: "paths separated by another token do not merge",
			tokens: []grammar.Token{
				tok(grammar.TokenPath, 0),
				tok(grammar.TokenOption, 1),
				tok(grammar.TokenPath, 2),
			},
			want: []Group{
				{GroupPath, []grammar.Token{tok(grammar.TokenPath, 0)}},
				{GroupSingle, []grammar.Token{tok(grammar.TokenOption, 1)}},
				{GroupPath, []grammar.Token{tok(grammar.TokenPath, 2)}},
			},
		},
		{
			name:   "whole-argument tokens stay single",
			tokens: []grammar.Token{tok(grammar.TokenOption, 1), tok(grammar.TokenValue, 2), tok(grammar.TokenRest, 3)},
			want: []Group{
				{GroupSingle, []grammar.Token{tok(grammar.TokenOption, 1)}},
				{GroupSingle, []grammar.Token{tok(grammar.TokenValue, 2)}},
				{GroupSingle, []grammar.Token{tok(grammar.TokenRest, 3)}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, GroupTokens(tt.tokens)); diff != "" {
				t.Errorf("groups mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
