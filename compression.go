// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

import (
	"errors"
	"fmt"
	"strings"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Compression specifies the batch compression codec (the "compression.type"
// producer config key).
type Compression string

const (
	CompressionSnappy Compression = "snappy"
	CompressionGzip   Compression = "gzip"
	CompressionLz4    Compression = "lz4"
	CompressionZstd   Compression = "zstd"
	CompressionNone   Compression = "none"
)

var compressionCodecs = map[Compression]kgo.CompressionCodec{
	CompressionSnappy: kgo.SnappyCompression(),
	CompressionGzip:   kgo.GzipCompression(),
	CompressionLz4:    kgo.Lz4Compression(),
	CompressionZstd:   kgo.ZstdCompression(),
	CompressionNone:   kgo.NoCompression(),
}

var compressionList = []string{
	string(CompressionSnappy),
	string(CompressionGzip),
	string(CompressionLz4),
	string(CompressionZstd),
	string(CompressionNone),
}

// parseCompression converts a compression.type config value into the client
// option selecting that codec.
func parseCompression(s string) (kgo.Opt, error) {
	codec, ok := compressionCodecs[Compression(strings.ToLower(strings.TrimSpace(s)))]
	if !ok {
		list := "'" + strings.Join(compressionList, "', '") + "'"
		return nil, errors.Join(ErrValidation,
			fmt.Errorf("compression codec '%s' is invalid: must be %s", s, list))
	}
	return kgo.ProducerBatchCompression(codec), nil
}
