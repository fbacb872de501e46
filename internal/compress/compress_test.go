// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package compress

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	payload := strings.Repeat(`<node id="1" version="1" lat="45" lon="-122"/>`+"\n", 500)

	for _, c := range []Codec{RAW, GZIP, ZLIB, XZ, LZ4, ZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			var buf bytes.Buffer

			w, err := NewWriter(&buf, c)
			require.NoError(t, err)

			_, err = io.WriteString(w, payload)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			if c != RAW {
				assert.Less(t, buf.Len(), len(payload))
			}

			r, err := NewReader(&buf, c)
			require.NoError(t, err)

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())

			assert.Equal(t, payload, string(got))
		})
	}
}

func TestUnknownCodec(t *testing.T) {
	_, err := NewWriter(io.Discard, Codec(42))
	assert.ErrorIs(t, err, ErrUnknownCodec)

	_, err = NewReader(strings.NewReader(""), Codec(42))
	assert.ErrorIs(t, err, ErrUnknownCodec)

	assert.Equal(t, "Codec(42)", Codec(42).String())
	assert.Equal(t, "", Codec(42).Extension())
}

func TestParseCodec(t *testing.T) {
	test_cases := []struct {
		name     string
		expected Codec
		ok       bool
	}{
		{"none", RAW, true},
		{"gzip", GZIP, true},
		{"zlib", ZLIB, true},
		{"xz", XZ, true},
		{"lz4", LZ4, true},
		{"zstd", ZSTD, true},
		{"brotli", RAW, false},
	}

	for _, tc := range test_cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := ParseCodec(tc.name)
			if !tc.ok {
				assert.ErrorIs(t, err, ErrUnknownCodec)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, c)
			assert.Equal(t, tc.name, c.String())
		})
	}
}

func TestFromFileName(t *testing.T) {
	test_cases := []struct {
		name     string
		codec    Codec
		stripped string
	}{
		{"map.osm", RAW, "map.osm"},
		{"map.osm.gz", GZIP, "map.osm"},
		{"map.geojson.zst", ZSTD, "map.geojson"},
		{"entities.yaml.xz", XZ, "entities.yaml"},
		{"entities.json.lz4", LZ4, "entities.json"},
		{"entities.json.zz", ZLIB, "entities.json"},
	}

	for _, tc := range test_cases {
		t.Run(tc.name, func(t *testing.T) {
			c, stripped := FromFileName(tc.name)
			assert.Equal(t, tc.codec, c)
			assert.Equal(t, tc.stripped, stripped)
			assert.Equal(t, tc.codec.Extension(), strings.TrimPrefix(tc.name, stripped))
		})
	}
}
