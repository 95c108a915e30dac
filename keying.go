// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

import (
	"encoding/binary"
	"hash/fnv"
)

// KeyingStrategy computes the record key of an event. Records with the same
// key land on the same partition. A nil key lets the client pick a partition.
type KeyingStrategy interface {
	CreateKey(e *Event) []byte
}

// KeyingFunc adapts a function to the KeyingStrategy interface.
type KeyingFunc func(e *Event) []byte

// CreateKey implements KeyingStrategy.
func (f KeyingFunc) CreateKey(e *Event) []byte {
	return f(e)
}

// NoKey spreads events over all partitions.
type NoKey struct{}

// CreateKey implements KeyingStrategy.
func (NoKey) CreateKey(*Event) []byte { return nil }

// HostNameKey sends every event of this host to the same partition.
type HostNameKey struct{}

// CreateKey implements KeyingStrategy.
func (HostNameKey) CreateKey(*Event) []byte {
	return hashKey(hostname())
}

// LoggerNameKey sends every event of a logger to the same partition.
type LoggerNameKey struct{}

// CreateKey implements KeyingStrategy.
func (LoggerNameKey) CreateKey(e *Event) []byte {
	return hashKey(e.LoggerName)
}

// ThreadNameKey sends every event of a thread to the same partition.
type ThreadNameKey struct{}

// CreateKey implements KeyingStrategy.
func (ThreadNameKey) CreateKey(e *Event) []byte {
	return hashKey(e.ThreadName)
}

// ContextKey keys events by the context entry stored under Key. Events
// without the entry get no key.
type ContextKey struct {
	Key string
}

// CreateKey implements KeyingStrategy.
func (c ContextKey) CreateKey(e *Event) []byte {
	v, ok := e.Context[c.Key]
	if !ok {
		return nil
	}
	return hashKey(v)
}

// hashKey returns the FNV-1a hash of s as 4 big-endian bytes.
func hashKey(s string) []byte {
	h := fnv.New32a()
	h.Write([]byte(s))

	return binary.BigEndian.AppendUint32(make([]byte, 0, 4), h.Sum32())
}
