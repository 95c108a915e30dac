// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/vmihailenco/msgpack/v5"
)

// Encoder turns a serialized Document into the record value.
type Encoder interface {
	Encode(doc string) ([]byte, error)
}

// EncoderFunc adapts a function to the Encoder interface.
type EncoderFunc func(doc string) ([]byte, error)

// Encode implements Encoder.
func (f EncoderFunc) Encode(doc string) ([]byte, error) {
	return f(doc)
}

// StringEncoder writes the JSON document as UTF-8 text.
type StringEncoder struct{}

// Encode implements Encoder.
func (StringEncoder) Encode(doc string) ([]byte, error) {
	return []byte(doc), nil
}

// msgpackJSON keeps integers distinct from floats when re-encoding.
var msgpackJSON = sonic.Config{UseInt64: true}.Froze()

// MsgpackEncoder re-encodes the JSON document as a msgpack map with sorted
// keys.
type MsgpackEncoder struct{}

// Encode implements Encoder.
func (MsgpackEncoder) Encode(doc string) ([]byte, error) {
	var m map[string]any
	if err := msgpackJSON.UnmarshalFromString(doc, &m); err != nil {
		return nil, errors.Join(ErrEncoding, fmt.Errorf("document is not a JSON object"), err)
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(m); err != nil {
		return nil, errors.Join(ErrEncoding, fmt.Errorf("msgpack encoding failed"), err)
	}

	return buf.Bytes(), nil
}
