// Copyright 2017-25 the original author or authors.
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

package osmobj

import (
	"errors"
	"fmt"
	"strings"

	"m4o.io/osmobj/internal/compress"
)

var ErrUnknownFormat = errors.New("unknown document format")

// Format is an enumeration of the documents an Encoder writes.
type Format int

const (
	// OSM is an <osm> document, as served by the OSM API.
	OSM Format = iota

	// OsmChange is an <osmChange> document with create, modify and delete
	// blocks.
	OsmChange

	// GeoJSON is a FeatureCollection.
	GeoJSON
)

var formats = [...]struct {
	name      string
	extension string
}{
	OSM:       {"osm", ".osm"},
	OsmChange: {"osc", ".osc"},
	GeoJSON:   {"geojson", ".geojson"},
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formats) {
		return fmt.Sprintf("Format(%d)", int(f))
	}

	return formats[f].name
}

// Extension returns the conventional file name suffix of the format.
func (f Format) Extension() string {
	if f < 0 || int(f) >= len(formats) {
		return ""
	}

	return formats[f].extension
}

// ParseFormat converts a format name as returned by String.
func ParseFormat(s string) (Format, error) {
	for i, f := range formats {
		if f.name == s {
			return Format(i), nil
		}
	}

	return OSM, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFromFileName returns the format and compression implied by the
// suffixes of name, e.g. "out.osc.gz".
func FormatFromFileName(name string) (Format, Compression, error) {
	c, stripped := compress.FromFileName(name)

	for i, f := range formats {
		if strings.HasSuffix(stripped, f.extension) {
			return Format(i), c, nil
		}
	}

	return OSM, c, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Compression is an enumeration of the codecs an Encoder can compress its
// output with.
type Compression = compress.Codec

const (
	NoCompression = compress.RAW
	Gzip          = compress.GZIP
	Zlib          = compress.ZLIB
	Xz            = compress.XZ
	Lz4           = compress.LZ4
	Zstd          = compress.ZSTD
)

// ParseCompression converts a codec name such as "gzip" or "zstd".
func ParseCompression(s string) (Compression, error) {
	return compress.ParseCodec(s)
}

const (
	// DefaultGenerator is the generator named in encoded documents.
	DefaultGenerator = "osmobj"
)

// encoderOptions provides optional configuration parameters for Encoder construction.
type encoderOptions struct {
	format      Format
	compression Compression
	generator   string
	attributes  bool   // include OSM attributes in GeoJSON properties
	nCPU        uint16 // the number of CPUs to use for serializing entities
}

// EncoderOption configures how we set up the encoder.
type EncoderOption func(*encoderOptions)

// WithFormat specifies the document format.  The default is OSM.
func WithFormat(format Format) EncoderOption {
	return func(o *encoderOptions) {
		o.format = format
	}
}

// WithCompression specifies the compression algorithm applied to the whole
// document.  The default is no compression.
func WithCompression(compression Compression) EncoderOption {
	return func(o *encoderOptions) {
		o.compression = compression
	}
}

// WithGenerator sets the generator named in the document.
func WithGenerator(generator string) EncoderOption {
	return func(o *encoderOptions) {
		o.generator = generator
	}
}

// WithAttributes includes OSM attributes in GeoJSON feature properties.
func WithAttributes() EncoderOption {
	return func(o *encoderOptions) {
		o.attributes = true
	}
}

// WithEncoderNCpus lets you set the number of CPUs to use for serializing
// entities.
func WithEncoderNCpus(n uint16) EncoderOption {
	return func(o *encoderOptions) {
		o.nCPU = n
	}
}

// defaultEncoderConfig provides a default configuration for encoders.
var defaultEncoderConfig = encoderOptions{
	format:      OSM,
	compression: NoCompression,
	generator:   DefaultGenerator,
	nCPU:        DefaultNCpu(),
}
