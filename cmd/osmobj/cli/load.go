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

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"m4o.io/osmobj"
	"m4o.io/osmobj/internal/document"
	"m4o.io/osmobj/model"
)

// Load reads the entity documents at paths, at most ncpu at a time, into a
// new store.  A path of "-" reads a JSON document from stdin.  A progress bar
// is shown when progress is set and there is a single input.
func Load(ctx context.Context, paths []string, ncpu uint16, progress bool) (*osmobj.Store, error) {
	ids := model.NewIDAllocator()
	store := osmobj.NewStore()

	loaded := make([][]model.Entity, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(int(max(ncpu, 1)))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			entities, err := load(path, ids, progress && len(paths) == 1)
			if err != nil {
				return err
			}

			slog.Debug("loaded entity document", "path", path, "entities", len(entities))
			loaded[i] = entities

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// later documents replace entities of earlier ones
	for _, entities := range loaded {
		if err := store.Add(entities...); err != nil {
			return nil, err
		}
	}

	return store, nil
}

func load(path string, ids *model.IDAllocator, progress bool) ([]model.Entity, error) {
	if path == "-" {
		return document.ReadEntities(os.Stdin, document.JSON, osmobj.NoCompression, ids)
	}

	format, codec, err := document.FromFileName(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var in io.ReadCloser = f
	if progress {
		if in, err = WrapInputFile(f); err != nil {
			f.Close()
			return nil, err
		}
	}
	defer in.Close()

	entities, err := document.ReadEntities(in, format, codec, ids)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	return entities, nil
}
