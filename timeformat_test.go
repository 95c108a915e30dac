// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeFormat(t *testing.T) {
	t.Parallel()

	ts := time.Date(2023, time.November, 14, 22, 13, 20, 42*int(time.Millisecond), time.UTC)

	tests := []struct {
		pattern string
		want    string
	}{
		{DefaultTimestampPattern, "2023-11-14 22:13:20,0042"},
		{"yyyy-MM-dd'T'HH:mm:ss.SSSZ", "2023-11-14T22:13:20.042+0000"},
		{"yy/M/d", "23/11/14"},
		{"dd MMM yyyy", "14 Nov 2023"},
		{"EEEE, MMMM d", "Tuesday, November 14"},
		{"EEE h:mm a", "Tue 10:13 PM"},
		{"HH 'o''clock' z", "22 o'clock UTC"},
		{"''", "'"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			t.Parallel()

			tf, err := compileTimeFormat(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tf.format(ts))
		})
	}
}

func TestTimeFormatMidnight(t *testing.T) {
	t.Parallel()

	tf, err := compileTimeFormat("hh:mm a")
	require.NoError(t, err)
	assert.Equal(t, "12:05 AM", tf.format(time.Date(2024, 1, 1, 0, 5, 0, 0, time.UTC)))
}

func TestCompileTimeFormatErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
	}{
		{"unsupported letter", "yyyy-QQ"},
		{"unterminated quote", "HH 'oops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := compileTimeFormat(tt.pattern)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}
