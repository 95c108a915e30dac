// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern Pattern
		wantErr bool
	}{
		{"empty pattern", "", true},
		{"catch-all", "*", false},
		{"prefix", "request.*", false},
		{"suffix", "*.id", false},
		{"substring", "*trace*", false},
		{"prefix and suffix", "http.*.ms", false},
		{"substring with inner wildcard", "*a*b*", true},
		{"two inner wildcards", "a*b*c", true},
		{"escaped star inside substring", `*a\*b*`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.pattern.validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPatternCompile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern Pattern
		want    patternMatcher
		wantErr bool
	}{
		{
			name:    "catch-all pattern",
			pattern: "*",
			want:    patternMatcher{all: true},
		},
		{
			name:    "exact match",
			pattern: "requestId",
			want:    patternMatcher{isExact: true, exact: "requestId"},
		},
		{
			name:    "prefix pattern",
			pattern: "request.*",
			want:    patternMatcher{prefix: "request."},
		},
		{
			name:    "suffix pattern",
			pattern: "*.id",
			want:    patternMatcher{suffix: ".id"},
		},
		{
			name:    "substring pattern",
			pattern: "*trace*",
			want:    patternMatcher{contains: true, infix: "trace"},
		},
		{
			name:    "prefix and suffix pattern",
			pattern: "http.*.ms",
			want:    patternMatcher{prefix: "http.", suffix: ".ms"},
		},
		{
			name:    "escaped asterisk becomes exact",
			pattern: `star\*rating`,
			want:    patternMatcher{isExact: true, exact: "star*rating"},
		},
		{
			name:    "escaped trailing asterisk is a suffix pattern",
			pattern: `*rating\*`,
			want:    patternMatcher{suffix: "rating*"},
		},
		{
			name:    "empty pattern fails",
			pattern: "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := tt.pattern.compile()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, *m)
		})
	}
}

func TestPatternMatches(t *testing.T) {
	t.Parallel()

	keys := []string{"requestId", "request.path", "user.id", "session.id", "traceparent", "x-trace-id", "http.latency.ms", "host"}

	tests := []struct {
		pattern Pattern
		want    []string
	}{
		{"*", keys},
		{"host", []string{"host"}},
		{"Host", nil},
		{"request*", []string{"requestId", "request.path"}},
		{"*.id", []string{"user.id", "session.id"}},
		{"*trace*", []string{"traceparent", "x-trace-id"}},
		{"http.*.ms", []string{"http.latency.ms"}},
		{"missing*", nil},
		{"*nothing*", nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.pattern), func(t *testing.T) {
			t.Parallel()

			m, err := tt.pattern.compile()
			require.NoError(t, err)

			var got []string
			for _, k := range keys {
				if m.matches(k) {
					got = append(got, k)
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("prefix and suffix too short", func(t *testing.T) {
		t.Parallel()
		m := &patternMatcher{prefix: "http.", suffix: ".ms"}
		assert.False(t, m.matches("http.ms"))
		assert.True(t, m.matches("http..ms"))
	})
}

func TestSegments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  []string
	}{
		{input: "user.id", want: []string{"user.id"}},
		{input: "user.*", want: []string{"user.", ""}},
		{input: "http.*.ms", want: []string{"http.", ".ms"}},
		{input: "a-*--*-b", want: []string{"a-", "--", "-b"}},
		{input: `star\*rating`, want: []string{"star*rating"}},
		{input: `foo\\\*bar`, want: []string{`foo\*bar`}},
		{input: `f\\o*o\\\*\*\\bar`, want: []string{`f\o`, `o\**\bar`}},
		{input: `a\b\`, want: []string{`a\b\`}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, segments(tt.input))
		})
	}
}
