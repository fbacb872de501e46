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

package osmobj

import (
	"bufio"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/destel/rill"
	"github.com/goccy/go-json"

	"m4o.io/osmobj/internal/compress"
	"m4o.io/osmobj/model"
)

const (
	osmVersion = "0.6"
	xmlHeader  = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"
)

var ErrEncoderClosed = errors.New("encoder closed")

// changeGroups are the osmChange blocks, in the order they are written.
var changeGroups = [...]string{"create", "modify", "delete"}

// changeGroup returns the index into changeGroups for an action.  Entities
// without an action are modified.
func changeGroup(a model.Action) int {
	switch a {
	case model.Create:
		return 0
	case model.Remove:
		return 2
	default:
		return 1
	}
}

type fragment struct {
	text  string
	group int
}

// Encoder writes entities as a complete OSM, osmChange or GeoJSON document.
// Fragments are written in the order entities are encoded, except for
// osmChange documents which are grouped by action and written on Close.
type Encoder struct {
	cfg  encoderOptions
	zw   io.WriteCloser
	wrtr *bufio.Writer

	mu      sync.Mutex
	started bool
	closed  bool
	written int
	changes [len(changeGroups)][]string
}

// NewEncoder returns a new encoder, configured with options, that writes to
// wrtr.  Close must be called to complete the document, it does not close
// wrtr.
func NewEncoder(wrtr io.Writer, opts ...EncoderOption) (*Encoder, error) {
	cfg := defaultEncoderConfig

	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.format < OSM || cfg.format > GeoJSON {
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, cfg.format)
	}

	zw, err := compress.NewWriter(wrtr, cfg.compression)
	if err != nil {
		return nil, fmt.Errorf("cannot create encoder: %w", err)
	}

	return &Encoder{
		cfg:  cfg,
		zw:   zw,
		wrtr: bufio.NewWriter(zw),
	}, nil
}

// Encode serializes entities on a pool of workers and writes them, in order.
func (e *Encoder) Encode(ctx context.Context, entities []model.Entity) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEncoderClosed
	}

	if err := e.start(); err != nil {
		return err
	}

	in := rill.FromSlice(entities, nil)
	fragments := rill.OrderedMap(in, int(max(e.cfg.nCPU, 1)), func(entity model.Entity) (fragment, error) {
		if err := ctx.Err(); err != nil {
			return fragment{}, err
		}

		return e.serialize(entity)
	})

	for f := range fragments {
		if f.Error != nil {
			rill.DrainNB(fragments)
			return f.Error
		}

		if err := e.write(f.Value); err != nil {
			rill.DrainNB(fragments)
			return err
		}
	}

	return nil
}

// Close completes the document and flushes it.  Calling Close more than once
// is a no-op.
func (e *Encoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}

	e.closed = true

	err := e.start()
	if err == nil {
		err = e.finish()
	}

	if err == nil {
		err = e.wrtr.Flush()
	}

	if cerr := e.zw.Close(); cerr != nil {
		slog.Error("error closing compressor", "error", cerr)

		if err == nil {
			err = cerr
		}
	}

	if err != nil {
		return fmt.Errorf("cannot complete %s document: %w", e.cfg.format, err)
	}

	return nil
}

func (e *Encoder) serialize(entity model.Entity) (fragment, error) {
	if entity == nil {
		return fragment{}, fmt.Errorf("%w: nil entity", ErrUnsupportedEntity)
	}

	switch e.cfg.format {
	case GeoJSON:
		var opts []model.GeoJSONOption
		if e.cfg.attributes {
			opts = append(opts, model.WithAttributes())
		}

		s, err := entity.AsGeoJSON(opts...)
		if err != nil {
			return fragment{}, err
		}

		return fragment{text: s}, nil
	case OsmChange:
		return fragment{
			text:  indent(entity.AsOsmXML(), "    "),
			group: changeGroup(entity.Base().Action()),
		}, nil
	default:
		return fragment{text: indent(entity.AsOsmXML(), "  ")}, nil
	}
}

func (e *Encoder) start() error {
	if e.started {
		return nil
	}

	e.started = true

	var err error

	switch e.cfg.format {
	case GeoJSON:
		_, err = fmt.Fprintf(e.wrtr, `{"type":"FeatureCollection","generator":%s,"features":[`, quoteJSON(e.cfg.generator))
	case OsmChange:
		_, err = fmt.Fprintf(e.wrtr, "%s<osmChange version=\"%s\" generator=\"%s\">\n", xmlHeader, osmVersion, escapeXML(e.cfg.generator))
	default:
		_, err = fmt.Fprintf(e.wrtr, "%s<osm version=\"%s\" generator=\"%s\">\n", xmlHeader, osmVersion, escapeXML(e.cfg.generator))
	}

	return err
}

func (e *Encoder) write(f fragment) error {
	switch e.cfg.format {
	case OsmChange:
		e.changes[f.group] = append(e.changes[f.group], f.text)
		e.written++

		return nil
	case GeoJSON:
		if e.written > 0 {
			if err := e.wrtr.WriteByte(','); err != nil {
				return err
			}
		}

		if err := e.wrtr.WriteByte('\n'); err != nil {
			return err
		}
	}

	e.written++

	if _, err := e.wrtr.WriteString(f.text); err != nil {
		return err
	}

	if e.cfg.format == GeoJSON {
		return nil
	}

	return e.wrtr.WriteByte('\n')
}

func (e *Encoder) finish() error {
	var err error

	switch e.cfg.format {
	case GeoJSON:
		_, err = e.wrtr.WriteString("\n]}\n")
	case OsmChange:
		for i, group := range changeGroups {
			if len(e.changes[i]) == 0 {
				continue
			}

			if _, err := fmt.Fprintf(e.wrtr, "  <%s>\n", group); err != nil {
				return err
			}

			for _, text := range e.changes[i] {
				if _, err := e.wrtr.WriteString(text); err != nil {
					return err
				}

				if err := e.wrtr.WriteByte('\n'); err != nil {
					return err
				}
			}

			if _, err := fmt.Fprintf(e.wrtr, "  </%s>\n", group); err != nil {
				return err
			}
		}

		_, err = e.wrtr.WriteString("</osmChange>\n")
	default:
		_, err = e.wrtr.WriteString("</osm>\n")
	}

	return err
}

// Count returns the number of entities encoded so far.
func (e *Encoder) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.written
}

// indent prefixes every line of s.
func indent(s, prefix string) string {
	return prefix + strings.ReplaceAll(s, "\n", "\n"+prefix)
}

func quoteJSON(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}

	return string(b)
}

func escapeXML(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))

	return b.String()
}
