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
	"fmt"
	"math"
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"m4o.io/osmobj/model"
)

const minRingPoints = 4

// vertex is a way node reference and, when it resolved, its coordinate.
type vertex struct {
	ref      model.ID
	point    orb.Point
	resolved bool
}

// path is the ordered vertices of one or more joined ways.
type path struct {
	ways     []model.ID
	vertices []vertex
}

func (p path) first() model.ID { return p.vertices[0].ref }

func (p path) last() model.ID { return p.vertices[len(p.vertices)-1].ref }

func (p path) closed() bool {
	return len(p.vertices) > 1 && p.first() == p.last()
}

func (p path) lineString() orb.LineString {
	ls := make(orb.LineString, 0, len(p.vertices))
	for _, v := range p.vertices {
		if v.resolved {
			ls = append(ls, v.point)
		}
	}

	return ls
}

func reversed(vs []vertex) []vertex {
	r := slices.Clone(vs)
	slices.Reverse(r)

	return r
}

// join appends q to p when they share an endpoint, reversing q where needed.
func (p path) join(q path) (path, bool) {
	var vertices []vertex

	switch {
	case q.first() == p.last():
		vertices = append(slices.Clone(p.vertices), q.vertices[1:]...)
	case q.last() == p.last():
		vertices = append(slices.Clone(p.vertices), reversed(q.vertices)[1:]...)
	case q.last() == p.first():
		vertices = append(slices.Clone(q.vertices), p.vertices[1:]...)
	case q.first() == p.first():
		vertices = append(reversed(q.vertices), p.vertices[1:]...)
	default:
		return p, false
	}

	return path{ways: append(slices.Clone(p.ways), q.ways...), vertices: vertices}, true
}

// closes reports whether joining q to p would close the chain.
func (p path) closes(q path) bool {
	return (q.first() == p.last() && q.last() == p.first()) ||
		(q.last() == p.last() && q.first() == p.first())
}

// assembleRings joins paths end to end until each chain closes, preferring
// the path that closes the chain.  A closed chain that passes a node more
// than once is split into one ring per loop.  Chains that never close are
// reported and left out.
func assembleRings(role string, paths []path) ([]orb.Ring, []error) {
	var (
		rings    []orb.Ring
		problems []error
	)

	used := make([]bool, len(paths))

	next := func(current path) int {
		candidate := -1

		for j := range paths {
			if used[j] || len(paths[j].vertices) == 0 {
				continue
			}

			if current.closes(paths[j]) {
				return j
			}

			if _, ok := current.join(paths[j]); ok && candidate < 0 {
				candidate = j
			}
		}

		return candidate
	}

	for i := range paths {
		if used[i] || len(paths[i].vertices) == 0 {
			continue
		}

		used[i] = true
		current := paths[i]

		for !current.closed() {
			j := next(current)
			if j < 0 {
				break
			}

			current, _ = current.join(paths[j])
			used[j] = true
		}

		if !current.closed() {
			problems = append(problems, fmt.Errorf("%w: %s ways %v end at nodes %d and %d",
				ErrUnclosedRing, role, current.ways, current.first(), current.last()))

			continue
		}

		for _, loop := range splitLoops(current.vertices) {
			ring := orb.Ring(path{vertices: loop}.lineString())
			if len(ring) > 1 && !ring[0].Equal(ring[len(ring)-1]) {
				ring = append(ring, ring[0])
			}

			if len(ring) < minRingPoints {
				problems = append(problems, fmt.Errorf("%w: %s ways %v have %d positions",
					ErrDegenerateRing, role, current.ways, len(ring)))

				continue
			}

			rings = append(rings, ring)
		}
	}

	return rings, problems
}

// splitLoops cuts a closed vertex sequence at every node it passes more
// than once.  Each returned loop starts and ends at the same node.
func splitLoops(vertices []vertex) [][]vertex {
	var (
		loops [][]vertex
		stack []vertex
	)

	at := make(map[model.ID]int, len(vertices))

	for _, v := range vertices {
		k, seen := at[v.ref]
		if !seen {
			at[v.ref] = len(stack)
			stack = append(stack, v)

			continue
		}

		loop := append(slices.Clone(stack[k:]), v)
		loops = append(loops, loop)

		for _, u := range stack[k+1:] {
			delete(at, u.ref)
		}

		stack = stack[:k+1]
	}

	return loops
}

// orient reverses r in place unless it already winds in direction o.
func orient(r orb.Ring, o orb.Orientation) {
	if r.Orientation() != o {
		r.Reverse()
	}
}

// buildPolygons orients the rings and gives every inner ring to the smallest
// outer ring that contains it.
func buildPolygons(outers, inners []orb.Ring) (orb.MultiPolygon, []error) {
	var problems []error

	areas := make([]float64, len(outers))
	polygons := make(orb.MultiPolygon, len(outers))

	for i, outer := range outers {
		orient(outer, orb.CCW)
		areas[i] = math.Abs(planar.Area(outer))
		polygons[i] = orb.Polygon{outer}
	}

	for _, inner := range inners {
		orient(inner, orb.CW)

		best := -1
		for i, outer := range outers {
			if !ringWithin(inner, outer) {
				continue
			}

			if best < 0 || areas[i] < areas[best] {
				best = i
			}
		}

		if best < 0 {
			problems = append(problems, fmt.Errorf("%w: ring starting at %v", ErrOrphanInner, inner[0]))
			continue
		}

		polygons[best] = append(polygons[best], inner)
	}

	return polygons, problems
}

// ringWithin reports whether every vertex of r lies inside or on outer.
func ringWithin(r, outer orb.Ring) bool {
	for _, p := range r {
		if !planar.RingContains(outer, p) {
			return false
		}
	}

	return true
}
