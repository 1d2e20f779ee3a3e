// Package placeholder hides opaque regions of a command line from the shell parser.
//
// A region is swapped for a token that the shell grammar reads as one plain word, and restored
// after parsing. Tokens are content-addressed: the same raw text always yields the same token,
// and two different texts never share one.
package placeholder

import (
	"encoding/base64"
	"regexp"
	"strconv"

	"golang.org/x/crypto/blake2b"

	clherrors "github.com/aledsdavies/clh/pkgs/errors"
	"github.com/aledsdavies/clh/pkgs/invariant"
	"github.com/aledsdavies/clh/pkgs/segment"
)

// Prefix starts every placeholder token
const Prefix = "__placeholder_"

// keyBytes is how much of the BLAKE2b-256 digest ends up in a token
const keyBytes = 18

// keyPattern matches exactly one key, so text that merely starts with a token is not a token
var keyPattern = `[A-Za-z0-9_-]{` + strconv.Itoa(base64.RawURLEncoding.EncodedLen(keyBytes)) + `}`

var (
	tokenPattern    = regexp.MustCompile(`^` + Prefix + `(` + keyPattern + `)$`)
	embeddedPattern = regexp.MustCompile(Prefix + keyPattern)
)

// Value is what a token stands for: the original raw text and, when the region was rendered
// ahead of time, the pre-built fragment to display instead.
type Value struct {
	Raw      string
	Fragment *segment.Node
}

// Store maps placeholder keys to the content they were created from. A store belongs to one
// transform session and only ever grows.
type Store struct {
	entries map[string]Value
}

// New creates an empty store
func New() *Store {
	return &Store{entries: make(map[string]Value)}
}

// Create registers raw (and an optional pre-built fragment) and returns its token
func (s *Store) Create(raw string, fragment *segment.Node) (string, error) {
	invariant.Precondition(s.entries != nil, "placeholder store must be created with New")

	key := Key(raw)
	if existing, ok := s.entries[key]; ok {
		if existing.Raw != raw {
			return "", clherrors.Newf(clherrors.ErrPlaceholder, "placeholder key %s collides for %q and %q", key, existing.Raw, raw).
				WithContext("key", key)
		}
		if fragment == nil {
			return Prefix + key, nil
		}
	}

	s.entries[key] = Value{Raw: raw, Fragment: fragment}
	return Prefix + key, nil
}

// Resolve returns the content behind a token. Text that is not a token is returned unchanged
// as a raw value.
func (s *Store) Resolve(text string) (Value, error) {
	match := tokenPattern.FindStringSubmatch(text)
	if match == nil {
		return Value{Raw: text}, nil
	}

	value, ok := s.entries[match[1]]
	if !ok {
		return Value{}, clherrors.Newf(clherrors.ErrPlaceholder, "placeholder %q was never created", text).
			WithContext("key", match[1])
	}
	return value, nil
}

// Expand replaces every token embedded in text with its raw content, including tokens that
// were nested inside that content
func (s *Store) Expand(text string) string {
	// raw content predates its own token, so nesting depth is bounded by the entry count
	for range len(s.entries) + 1 {
		expanded := embeddedPattern.ReplaceAllStringFunc(text, func(token string) string {
			if value, ok := s.entries[token[len(Prefix):]]; ok {
				return value.Raw
			}
			return token
		})
		if expanded == text {
			break
		}
		text = expanded
	}
	return text
}

// Len returns the number of stored entries
func (s *Store) Len() int {
	return len(s.entries)
}

// IsToken reports whether text is exactly one placeholder token
func IsToken(text string) bool {
	return tokenPattern.MatchString(text)
}

// Key derives the content-addressed key for raw text
func Key(raw string) string {
	digest := blake2b.Sum256([]byte(raw))
	return base64.RawURLEncoding.EncodeToString(digest[:keyBytes])
}
