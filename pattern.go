// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

import (
	"errors"
	"fmt"
	"strings"
)

// Pattern is a simplified glob matched against context (MDC) keys.
//
// Supported patterns:
//
//	"*"              - Matches any key
//	"exact"          - Matches "exact" only
//	"request.*"      - Matches keys starting with "request."
//	"*.id"           - Matches keys ending with ".id"
//	"*trace*"        - Matches keys containing "trace"
//	"http.*.ms"      - Matches keys starting with "http." and ending with ".ms"
//
// Escaping asterisks:
//
//	Use backslash to match a literal asterisk character: `star\*ratings`
//	matches "star*ratings".
//
// Rules:
//   - A leading and a trailing * together mean substring match
//   - Otherwise at most one unescaped * per pattern
//   - * matches zero or more characters
//   - Matching is case-sensitive
type Pattern string

// compile parses the pattern once, returning a matcher for repeated use.
func (p Pattern) compile() (*patternMatcher, error) {
	parts, err := p.parts()
	if err != nil {
		return nil, err
	}

	switch len(parts) {
	case 1:
		return &patternMatcher{isExact: true, exact: parts[0]}, nil
	case 2:
		if parts[0] == "" && parts[1] == "" {
			return &patternMatcher{all: true}, nil
		}
		return &patternMatcher{prefix: parts[0], suffix: parts[1]}, nil
	default:
		return &patternMatcher{contains: true, infix: parts[1]}, nil
	}
}

// patternMatcher is a compiled pattern.
type patternMatcher struct {
	all      bool
	isExact  bool
	exact    string
	contains bool
	infix    string
	prefix   string
	suffix   string
}

// matches reports whether key matches the compiled pattern.
func (pm *patternMatcher) matches(key string) bool {
	switch {
	case pm.all:
		return true
	case pm.isExact:
		return key == pm.exact
	case pm.contains:
		return strings.Contains(key, pm.infix)
	case len(key) < len(pm.prefix)+len(pm.suffix):
		return false
	default:
		return strings.HasPrefix(key, pm.prefix) && strings.HasSuffix(key, pm.suffix)
	}
}

// validate reports ErrValidation for patterns compile rejects.
func (p Pattern) validate() error {
	_, err := p.parts()
	return err
}

// parts returns the literal text between the unescaped wildcards of p.
// Only "lit", "pre*suf" and "*mid*" shapes are accepted.
func (p Pattern) parts() ([]string, error) {
	if p == "" {
		return nil, errors.Join(ErrValidation, errors.New("pattern must not be empty"))
	}

	parts := segments(string(p))
	switch {
	case len(parts) <= 2:
		return parts, nil
	case len(parts) == 3 && parts[0] == "" && parts[2] == "":
		return parts, nil
	default:
		return nil, errors.Join(ErrValidation,
			fmt.Errorf("pattern %q is invalid: use one '*', or a leading and a trailing '*'", string(p)))
	}
}

// segments splits s on unescaped '*' and unescapes each piece. A backslash
// escapes '*' and '\'; any other backslash is literal.
func segments(s string) []string {
	var (
		out []string
		b   strings.Builder
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s) && (s[i+1] == '*' || s[i+1] == '\\'):
			i++
			b.WriteByte(s[i])
		case c == '*':
			out = append(out, b.String())
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	return append(out, b.String())
}
