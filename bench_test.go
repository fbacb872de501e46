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
	"context"
	"io"
	"os"
	"runtime/trace"
	"strconv"
	"testing"

	"m4o.io/osmobj/model"
)

const gridSize = 100

// grid builds a square grid of nodes with one closed way per cell.
func grid(b *testing.B) (*Store, []model.Entity) {
	b.Helper()

	s := NewStore()
	id := func(x, y int) model.ID { return model.ID(y*gridSize + x + 1) }

	for y := range gridSize {
		for x := range gridSize {
			if err := s.Add(node(id(x, y), model.Degrees(x)*0.001, model.Degrees(y)*0.001)); err != nil {
				b.Fatal(err)
			}
		}
	}

	var ways []model.Entity
	for y := range gridSize - 1 {
		for x := range gridSize - 1 {
			w := way(model.ID(len(ways)+1), id(x, y), id(x+1, y), id(x+1, y+1), id(x, y+1), id(x, y))
			w.AddTag("building", "yes")
			ways = append(ways, w)
		}
	}

	if err := s.Add(ways...); err != nil {
		b.Fatal(err)
	}

	return s, ways
}

func startTrace(b *testing.B) func() {
	t, err := strconv.ParseBool(os.Getenv("OSMOBJ_TRACE"))
	if err != nil || !t {
		return func() {}
	}

	f, err := os.Create("trace.out")
	if err != nil {
		b.Errorf("Error opening trace file: %v", err)
		return func() {}
	}

	_ = trace.Start(f)

	return func() {
		trace.Stop()
		f.Close()
	}
}

func BenchmarkResolveAll(b *testing.B) {
	s, ways := grid(b)

	defer startTrace(b)()

	ncpu, _ := strconv.Atoi(os.Getenv("OSMOBJ_NCPU"))
	if ncpu <= 0 {
		ncpu = int(DefaultNCpu())
	}

	r := NewResolver(s, WithLogger(quiet), WithNCpus(uint16(ncpu)))

	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		if _, err := r.ResolveAll(context.Background(), ways); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncodeGeoJSON(b *testing.B) {
	s, ways := grid(b)

	if _, err := NewResolver(s, WithLogger(quiet)).ResolveAll(context.Background(), ways); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		enc, err := NewEncoder(io.Discard, WithFormat(GeoJSON))
		if err != nil {
			b.Fatal(err)
		}

		if err := enc.Encode(context.Background(), ways); err != nil {
			b.Fatal(err)
		}

		if err := enc.Close(); err != nil {
			b.Fatal(err)
		}
	}
}
