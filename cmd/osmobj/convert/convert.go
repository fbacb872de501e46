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

package convert

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"m4o.io/osmobj"
	"m4o.io/osmobj/cmd/osmobj/cli"
	"m4o.io/osmobj/model"
)

var out io.Writer = os.Stdout

type config struct {
	output      string
	format      osmobj.Format
	compression osmobj.Compression
	generator   string
	bbox        string
	attributes  bool
	cacheSize   int
	ncpu        uint16
	progress    bool
}

var cfg config

func init() {
	cli.RootCmd.AddCommand(convertCmd)

	flags := convertCmd.Flags()
	flags.StringVarP(&cfg.output, "output", "o", "", "output file, format and compression are inferred from its name (default stdout)")
	flags.VarP(cli.NewEnumValue(osmobj.OSM, &cfg.format, osmobj.ParseFormat, "format"),
		"format", "f", "output format: osm, osc or geojson")
	flags.VarP(cli.NewEnumValue(osmobj.NoCompression, &cfg.compression, osmobj.ParseCompression, "codec"),
		"compression", "z", "output compression: none, gzip, zlib, xz, lz4 or zstd")
	flags.StringVarP(&cfg.generator, "generator", "g", osmobj.DefaultGenerator, "generator named in the output")
	flags.StringVarP(&cfg.bbox, "bbox", "b", "", "only write entities touching left,bottom,right,top")
	flags.BoolVarP(&cfg.attributes, "attributes", "a", false, "include OSM attributes in GeoJSON properties")
	flags.IntVar(&cfg.cacheSize, "cache-size", osmobj.DefaultCacheSize, "number of resolved ways to cache")
	flags.Uint16VarP(&cfg.ncpu, "cpu", "c", uint16(runtime.GOMAXPROCS(-1)), "number of CPUs to use")
	flags.BoolVarP(&cfg.progress, "progress", "p", false, "show a progress bar while reading a single input")
}

var convertCmd = &cobra.Command{
	Use:   "convert <entity document>...",
	Short: "Resolve entity documents and write them as OSM, osmChange or GeoJSON",
	Long: `Resolve entity documents and write them as OSM, osmChange or GeoJSON.

Entity documents are JSON or YAML files, optionally compressed, listing
nodes, ways and relations.  Way and relation geometry is resolved against
every document given.  A path of "-" reads a JSON document from stdin.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := cfg

		if c.output != "" {
			if err := c.inferFromOutput(cmd); err != nil {
				return err
			}

			f, err := os.Create(c.output)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := runConvert(cmd.Context(), c, args, f); err != nil {
				return err
			}

			return f.Close()
		}

		return runConvert(cmd.Context(), c, args, out)
	},
}

// inferFromOutput takes the format and compression from the output file name
// unless they were given explicitly.
func (c *config) inferFromOutput(cmd *cobra.Command) error {
	format, compression, err := osmobj.FormatFromFileName(c.output)

	flags := cmd.Flags()

	if !flags.Changed("format") {
		if err != nil {
			return err
		}

		c.format = format
	}

	if !flags.Changed("compression") {
		c.compression = compression
	}

	return nil
}

func runConvert(ctx context.Context, c config, inputs []string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var bbox *model.BoundingBox
	if c.bbox != "" {
		var err error
		if bbox, err = model.ParseBoundingBox(c.bbox); err != nil {
			return err
		}
	}

	store, err := cli.Load(ctx, inputs, c.ncpu, c.progress)
	if err != nil {
		return err
	}

	entities := store.Entities()

	resolver := osmobj.NewResolver(store,
		osmobj.WithCacheSize(c.cacheSize),
		osmobj.WithNCpus(c.ncpu))

	results, err := resolver.ResolveAll(ctx, entities)
	if err != nil {
		return err
	}

	if bbox != nil {
		entities = osmobj.Within(entities, bbox)
	}

	opts := []osmobj.EncoderOption{
		osmobj.WithFormat(c.format),
		osmobj.WithCompression(c.compression),
		osmobj.WithGenerator(c.generator),
		osmobj.WithEncoderNCpus(c.ncpu),
	}

	if c.attributes {
		opts = append(opts, osmobj.WithAttributes())
	}

	enc, err := osmobj.NewEncoder(w, opts...)
	if err != nil {
		return err
	}

	if err := enc.Encode(ctx, entities); err != nil {
		_ = enc.Close()
		return fmt.Errorf("cannot encode entities: %w", err)
	}

	if err := enc.Close(); err != nil {
		return err
	}

	var partial, failed int
	for _, r := range results {
		switch r.Status {
		case osmobj.Partial:
			partial++
		case osmobj.Failed:
			failed++
		}
	}

	slog.Info("converted entities",
		"format", c.format,
		"compression", c.compression,
		"entities", enc.Count(),
		"partial", partial,
		"failed", failed)

	return nil
}
