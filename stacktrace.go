// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

import (
	"fmt"
	"strings"
)

// DefaultStackFilters are the function prefixes removed from filtered stack
// traces.
var DefaultStackFilters = []string{
	"runtime.",
	"runtime/debug.",
	"testing.",
	"reflect.",
	"log/slog.",
	"github.com/xmidt-org/logkafka.",
}

// fullStackTrace renders err followed by its stack dump, if any.
func fullStackTrace(err error, stack string) string {
	if stack == "" {
		return fmt.Sprintf("%+v", err)
	}
	return err.Error() + "\n" + strings.TrimRight(stack, "\n")
}

// filteredStackTrace is fullStackTrace without the frames whose function
// starts with one of filters.
//
// The stack is expected in the format written by runtime/debug.Stack: a
// "goroutine N [state]:" header followed by pairs of a function line and an
// indented "file:line" line.
func filteredStackTrace(err error, stack string, filters []string) string {
	if stack == "" {
		return fullStackTrace(err, stack)
	}

	lines := strings.Split(strings.TrimRight(stack, "\n"), "\n")

	var b strings.Builder
	b.WriteString(err.Error())

	skipping := false
	for _, line := range lines {
		if strings.HasPrefix(line, "\t") {
			if !skipping {
				b.WriteByte('\n')
				b.WriteString(line)
			}
			continue
		}

		if strings.HasPrefix(line, "goroutine ") || line == "" {
			skipping = false
			b.WriteByte('\n')
			b.WriteString(line)
			continue
		}

		skipping = hasAnyPrefix(line, filters)
		if !skipping {
			b.WriteByte('\n')
			b.WriteString(line)
		}
	}

	return b.String()
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
