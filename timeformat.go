// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTimestampPattern is the pattern used for the Time log field.
const DefaultTimestampPattern = "yyyy-MM-dd HH:mm:ss,SSSS"

// timeFormat is a compiled date pattern using the letters common to log
// configuration files:
//
//	y  year (yy is two digits)     M  month (MMM short name, MMMM full name)
//	d  day of month                E  weekday (EEEE full name)
//	H  hour 0-23                   h  hour 1-12
//	m  minute                      s  second
//	S  millisecond                 a  AM/PM marker
//	Z  zone offset (-0700)         z  zone abbreviation
//
// Text inside single quotes is copied literally; two single quotes produce
// one. Other non-letter characters are copied as is.
type timeFormat struct {
	tokens []timeToken
}

type timeToken struct {
	letter  byte // 0 for literal text
	width   int
	literal string
}

func compileTimeFormat(pattern string) (*timeFormat, error) {
	var (
		tf  timeFormat
		lit strings.Builder
	)

	flush := func() {
		if lit.Len() > 0 {
			tf.tokens = append(tf.tokens, timeToken{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(pattern); {
		c := pattern[i]

		switch {
		case c == '\'':
			if i+1 < len(pattern) && pattern[i+1] == '\'' {
				lit.WriteByte('\'')
				i += 2
				continue
			}
			end := strings.IndexByte(pattern[i+1:], '\'')
			if end < 0 {
				return nil, errors.Join(ErrValidation,
					fmt.Errorf("timestamp pattern '%s' has an unterminated quote", pattern))
			}
			lit.WriteString(pattern[i+1 : i+1+end])
			i += end + 2

		case isASCIILetter(c):
			if !strings.ContainsRune("yMdEHhmsSaZz", rune(c)) {
				return nil, errors.Join(ErrValidation,
					fmt.Errorf("timestamp pattern '%s' has unsupported letter '%c'", pattern, c))
			}
			j := i
			for j < len(pattern) && pattern[j] == c {
				j++
			}
			flush()
			tf.tokens = append(tf.tokens, timeToken{letter: c, width: j - i})
			i = j

		default:
			lit.WriteByte(c)
			i++
		}
	}
	flush()

	return &tf, nil
}

func (tf *timeFormat) format(t time.Time) string {
	var b strings.Builder

	for _, tok := range tf.tokens {
		switch tok.letter {
		case 0:
			b.WriteString(tok.literal)
		case 'y':
			if tok.width == 2 {
				pad(&b, t.Year()%100, 2)
			} else {
				pad(&b, t.Year(), tok.width)
			}
		case 'M':
			switch {
			case tok.width >= 4:
				b.WriteString(t.Month().String())
			case tok.width == 3:
				b.WriteString(t.Month().String()[:3])
			default:
				pad(&b, int(t.Month()), tok.width)
			}
		case 'd':
			pad(&b, t.Day(), tok.width)
		case 'E':
			if tok.width >= 4 {
				b.WriteString(t.Weekday().String())
			} else {
				b.WriteString(t.Weekday().String()[:3])
			}
		case 'H':
			pad(&b, t.Hour(), tok.width)
		case 'h':
			h := t.Hour() % 12
			if h == 0 {
				h = 12
			}
			pad(&b, h, tok.width)
		case 'm':
			pad(&b, t.Minute(), tok.width)
		case 's':
			pad(&b, t.Second(), tok.width)
		case 'S':
			pad(&b, t.Nanosecond()/int(time.Millisecond), tok.width)
		case 'a':
			if t.Hour() < 12 {
				b.WriteString("AM")
			} else {
				b.WriteString("PM")
			}
		case 'Z':
			b.WriteString(t.Format("-0700"))
		case 'z':
			b.WriteString(t.Format("MST"))
		}
	}

	return b.String()
}

// pad writes n zero-padded to at least width digits.
func pad(b *strings.Builder, n, width int) {
	if n < 0 {
		b.WriteByte('-')
		n = -n
	}
	s := strconv.Itoa(n)
	for i := len(s); i < width; i++ {
		b.WriteByte('0')
	}
	b.WriteString(s)
}

func isASCIILetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
