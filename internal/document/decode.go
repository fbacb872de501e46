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

package document

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"m4o.io/osmobj/internal/compress"
	"m4o.io/osmobj/model"
)

var ErrUnknownFormat = errors.New("unknown entity document format")

// Format is an enumeration of entity document encodings.
type Format int

const (
	JSON Format = iota
	YAML
)

func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FromFileName returns the format and compression implied by the suffixes
// of name, e.g. "entities.yaml.zst".
func FromFileName(name string) (Format, compress.Codec, error) {
	codec, stripped := compress.FromFileName(name)

	switch strings.ToLower(filepath.Ext(stripped)) {
	case ".json":
		return JSON, codec, nil
	case ".yaml", ".yml":
		return YAML, codec, nil
	default:
		return JSON, codec, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Decode reads a document in format f from r, decompressing it with codec.
func Decode(r io.Reader, f Format, codec compress.Codec) (*Document, error) {
	rdr, err := compress.NewReader(r, codec)
	if err != nil {
		return nil, err
	}
	defer rdr.Close()

	doc := &Document{}

	switch f {
	case JSON:
		err = json.NewDecoder(rdr).Decode(doc)
	case YAML:
		err = yaml.NewDecoder(rdr).Decode(doc)
		if errors.Is(err, io.EOF) {
			err = nil // empty document
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return doc, nil
}

// ReadEntities decodes r and converts the document into entities.
func ReadEntities(r io.Reader, f Format, codec compress.Codec, ids *model.IDAllocator) ([]model.Entity, error) {
	doc, err := Decode(r, f, codec)
	if err != nil {
		return nil, err
	}

	return doc.Entities(ids)
}

// ReadFile reads the entities of the document at path, with the format and
// compression implied by its name.
func ReadFile(path string, ids *model.IDAllocator) ([]model.Entity, error) {
	f, codec, err := FromFileName(path)
	if err != nil {
		return nil, err
	}

	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	entities, err := ReadEntities(in, f, codec, ids)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	return entities, nil
}
