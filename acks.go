// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

import (
	"errors"
	"fmt"
	"strings"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Acks specifies the broker acknowledgment requirements (the "acks"
// producer config key).
type Acks string

const (
	// AcksAll requires all ISR replicas to acknowledge (strongest durability).
	AcksAll Acks = "all"

	// AcksLeader requires only the leader replica to acknowledge.
	AcksLeader Acks = "leader"

	// AcksNone requires no acknowledgment.
	AcksNone Acks = "none"
)

// acksAliases maps the numeric spellings used by other Kafka clients.
var acksAliases = map[string]Acks{
	"all": AcksAll,
	"-1":  AcksAll,
	"1":   AcksLeader,
	"0":   AcksNone,
}

var acksList = []string{string(AcksAll), string(AcksLeader), string(AcksNone)}

// parseAcks converts an acks config value, accepting the numeric spellings.
func parseAcks(s string) (Acks, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if a, ok := acksAliases[s]; ok {
		return a, nil
	}
	for _, a := range acksList {
		if s == a {
			return Acks(a), nil
		}
	}

	list := "'" + strings.Join(acksList, "', '") + "'"
	return "", errors.Join(ErrValidation,
		fmt.Errorf("acks '%s' is invalid: must be %s, -1, 1 or 0", s, list))
}

// opts returns the client options for the acks level. Anything weaker than
// AcksAll needs idempotent writes disabled.
func (a Acks) opts() []kgo.Opt {
	switch a {
	case AcksLeader:
		return []kgo.Opt{kgo.RequiredAcks(kgo.LeaderAck()), kgo.DisableIdempotentWrite()}
	case AcksNone:
		return []kgo.Opt{kgo.RequiredAcks(kgo.NoAck()), kgo.DisableIdempotentWrite()}
	default:
		return []kgo.Opt{kgo.RequiredAcks(kgo.AllISRAcks())}
	}
}
