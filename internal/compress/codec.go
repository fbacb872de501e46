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

// Package compress wraps streams with the compression codecs supported for
// documents read and written by osmobj.
package compress

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownCodec = errors.New("unknown compression codec")

// Codec is an enumeration of compression algorithms.
type Codec int

const (
	// RAW leaves the stream uncompressed.
	RAW Codec = iota

	// GZIP is gzip (RFC 1952).
	GZIP

	// ZLIB is zlib (RFC 1950).
	ZLIB

	// XZ is the xz container format.
	XZ

	// LZ4 is the lz4 frame format.
	LZ4

	// ZSTD is Zstandard.
	ZSTD
)

var codecs = [...]struct {
	name      string
	extension string
}{
	RAW:  {"none", ""},
	GZIP: {"gzip", ".gz"},
	ZLIB: {"zlib", ".zz"},
	XZ:   {"xz", ".xz"},
	LZ4:  {"lz4", ".lz4"},
	ZSTD: {"zstd", ".zst"},
}

func (c Codec) String() string {
	if c < 0 || int(c) >= len(codecs) {
		return fmt.Sprintf("Codec(%d)", int(c))
	}

	return codecs[c].name
}

// Extension returns the conventional file name suffix, empty for RAW.
func (c Codec) Extension() string {
	if c < 0 || int(c) >= len(codecs) {
		return ""
	}

	return codecs[c].extension
}

// ParseCodec converts a codec name as returned by String.
func ParseCodec(s string) (Codec, error) {
	for i, c := range codecs {
		if c.name == s {
			return Codec(i), nil
		}
	}

	return RAW, fmt.Errorf("%w: %q", ErrUnknownCodec, s)
}

// FromFileName returns the codec implied by the suffix of name, together
// with the name stripped of that suffix.
func FromFileName(name string) (Codec, string) {
	for i, c := range codecs {
		if c.extension != "" && strings.HasSuffix(name, c.extension) {
			return Codec(i), strings.TrimSuffix(name, c.extension)
		}
	}

	return RAW, name
}
