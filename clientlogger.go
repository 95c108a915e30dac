// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

import (
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// ClientLoggerName is the logger name of events created by NewClientLogger.
const ClientLoggerName = ClientLoggerPrefix + "/pkg/kgo"

// NewClientLogger returns a kgo.Logger that turns the Kafka client's log
// lines into Events appended to sink. Use it as Appender.ClientLogger with
// the Appender itself as sink: the events carry ClientLoggerName and are
// therefore deferred instead of re-entering the client.
func NewClientLogger(sink Sink, level kgo.LogLevel) kgo.Logger {
	return &clientLogger{sink: sink, level: level}
}

type clientLogger struct {
	sink  Sink
	level kgo.LogLevel
}

func (c *clientLogger) Level() kgo.LogLevel { return c.level }

func (c *clientLogger) Log(level kgo.LogLevel, msg string, keyvals ...any) {
	e := &Event{
		Time:       time.Now(),
		Level:      level.String(),
		LoggerName: ClientLoggerName,
		Message:    msg,
		Context:    make(map[string]string, len(keyvals)/2),
	}

	for i := 0; i+1 < len(keyvals); i += 2 {
		key := fmt.Sprint(keyvals[i])
		if err, ok := keyvals[i+1].(error); ok && e.Err == nil {
			e.Err = err
			continue
		}
		e.Context[key] = fmt.Sprint(keyvals[i+1])
	}

	c.sink.Append(e)
}
